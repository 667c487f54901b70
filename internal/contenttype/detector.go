// Package contenttype classifies a raid ping into an activity archetype and
// derives its party-size constraints. The same detector backs both the
// preprocessor suggestion and the postprocessor fallback.
package contenttype

import (
	"regexp"
	"strings"

	"raid-parser/internal/models"
)

// Content type identifiers. The table in Descriptors is the single source of
// truth for party sizes and keywords.
const (
	TypeHellgate2v2    = "HELLGATE_2V2"
	TypeHellgate5v5    = "HELLGATE_5V5"
	TypeHellgate10v10  = "HELLGATE_10V10"
	TypeRoadsPVE       = "AVALONIAN_ROADS_PVE"
	TypeRoadsPVP       = "ROADS_PVP"
	TypeAvalonian      = "AVALONIAN_DUNGEON"
	TypeGroupDungeon   = "GROUP_DUNGEON"
	TypeArena          = "CRYSTAL_ARENA"
	TypeZvZ            = "ZVZ"
	TypeGanking        = "GANKING"
	TypeFactionWarfare = "FACTION_WARFARE"
	TypeOther          = "OTHER"
)

// Descriptor describes one activity archetype. The table is static, loaded at
// process start and never mutated.
type Descriptor struct {
	Type            string
	Keywords        []string
	PartySize       models.PartySize
	RaidType        models.RaidType
	Description     string
	DefaultLocation string
	Aliases         []string
}

// Descriptors is the fixed archetype table. FIXED entries (min == max) come
// first so the exact-count phase scans them in a stable order; the PvE roads
// variant precedes the PvP one because the golden-chest tie-break reclassifies
// from PvE to PvP, never the other way.
var Descriptors = []Descriptor{
	{
		Type:            TypeHellgate2v2,
		Keywords:        []string{"hellgate", "hell gate", "2v2", "hg 2", "адские врата", "portão infernal", "puerta infernal"},
		PartySize:       models.PartySize{Min: 2, Max: 2},
		RaidType:        models.RaidTypeFixed,
		Description:     "2v2 hellgate",
		DefaultLocation: "Caerleon",
		Aliases:         []string{"hg2", "2s"},
	},
	{
		Type:            TypeHellgate5v5,
		Keywords:        []string{"hellgate", "hell gate", "5v5", "hg 5", "адские врата", "portão infernal", "puerta infernal"},
		PartySize:       models.PartySize{Min: 5, Max: 5},
		RaidType:        models.RaidTypeFixed,
		Description:     "5v5 hellgate",
		DefaultLocation: "Caerleon",
		Aliases:         []string{"hg5", "5s"},
	},
	{
		Type:            TypeHellgate10v10,
		Keywords:        []string{"hellgate", "hell gate", "10v10", "hg 10"},
		PartySize:       models.PartySize{Min: 10, Max: 10},
		RaidType:        models.RaidTypeFixed,
		Description:     "10v10 hellgate",
		DefaultLocation: "Caerleon",
		Aliases:         []string{"hg10", "10s"},
	},
	{
		Type:            TypeRoadsPVE,
		Keywords:        []string{"roads", "avalon", "ava roads", "golden chest", "gold chest", "дороги", "аваллон", "estradas", "caminos", "routes"},
		PartySize:       models.PartySize{Min: 7, Max: 7},
		RaidType:        models.RaidTypeFixed,
		Description:     "Roads of Avalon PvE (golden chest)",
		DefaultLocation: "Brecilien",
		Aliases:         []string{"ava", "roads pve", "avalonian roads"},
	},
	{
		Type:            TypeRoadsPVP,
		Keywords:        []string{"roads", "avalon", "roads pvp", "gank roads", "дороги пвп", "estradas pvp", "caminos pvp"},
		PartySize:       models.PartySize{Min: 7, Max: 7},
		RaidType:        models.RaidTypeFixed,
		Description:     "Roads of Avalon PvP",
		DefaultLocation: "Brecilien",
		Aliases:         []string{"roads fight", "roads pvp"},
	},
	{
		Type:            TypeAvalonian,
		Keywords:        []string{"avalonian dungeon", "ava dungeon", "avalonian raid", "аваллонский данж", "masmorra avaloniana"},
		PartySize:       models.PartySize{Min: 10, Max: 20},
		RaidType:        models.RaidTypeFlex,
		Description:     "Avalonian dungeon raid",
		DefaultLocation: "Outlands",
		Aliases:         []string{"avalon dungeon", "ava raid"},
	},
	{
		Type:            TypeGroupDungeon,
		Keywords:        []string{"group dungeon", "dungeon", "данж", "данжи", "masmorra", "mazmorra", "donjon", "verlies"},
		PartySize:       models.PartySize{Min: 2, Max: 10},
		RaidType:        models.RaidTypeFlex,
		Description:     "Group dungeon",
		DefaultLocation: "",
		Aliases:         []string{"dg", "dungeons"},
	},
	{
		Type:            TypeArena,
		Keywords:        []string{"crystal", "arena", "crystal league", "арена", "кристал"},
		PartySize:       models.PartySize{Min: 5, Max: 5},
		RaidType:        models.RaidTypeFixed,
		Description:     "Crystal arena",
		DefaultLocation: "Arena",
		Aliases:         []string{"crystals"},
	},
	{
		Type:            TypeZvZ,
		Keywords:        []string{"zvz", "zerg", "territory", "castle", "звз", "терра", "замок", "territorio"},
		PartySize:       models.PartySize{Min: 10, Max: 100},
		RaidType:        models.RaidTypeFlex,
		Description:     "Zerg versus zerg fight",
		DefaultLocation: "Outlands",
		Aliases:         []string{"zvz fight", "mass fight"},
	},
	{
		Type:            TypeGanking,
		Keywords:        []string{"gank", "ganking", "ганг", "ганк", "emboscada"},
		PartySize:       models.PartySize{Min: 2, Max: 10},
		RaidType:        models.RaidTypeFlex,
		Description:     "Ganking squad",
		DefaultLocation: "Black zone",
		Aliases:         []string{"gank squad"},
	},
	{
		Type:            TypeFactionWarfare,
		Keywords:        []string{"faction", "faction warfare", "фракция", "facção", "facción"},
		PartySize:       models.PartySize{Min: 5, Max: 40},
		RaidType:        models.RaidTypeFlex,
		Description:     "Faction warfare",
		DefaultLocation: "",
		Aliases:         []string{"fw"},
	},
}

// Other is the unclassified fallback descriptor.
var Other = Descriptor{
	Type:        TypeOther,
	PartySize:   models.PartySize{Min: 1, Max: 100},
	RaidType:    models.RaidTypeFlex,
	Description: "Unclassified activity",
}

// goldenChestKeywords disambiguate the two 7-slot roads variants. The PvE
// label only survives when one of these occurs in the message.
var goldenChestKeywords = []string{
	"golden chest", "gold chest", "gilded chest", "golden", "gilded",
	"золотой сундук", "голда", "голд",
	"baú dourado", "bau dourado", "dourado",
	"cofre dorado", "dorado",
	"coffre doré", "doré",
	"goldene truhe", "goldtruhe",
}

const (
	exactCountConfidence = 0.9
	keywordFloor         = 0.3
	sizeMatchBonus       = 0.3
	sizeMismatchPenalty  = 0.8
	minAcceptConfidence  = 0.02
	minFixedConfidence   = 0.15
)

// Detection is the detector's result. Descriptor is Other when the text
// could not be classified.
type Detection struct {
	Type       string
	Confidence float64
	Descriptor Descriptor
}

// roleEmojis are the indicators that mark a line as a role slot. Kept broad:
// authors decorate slot lists with class icons, hearts and weapon emoji.
var roleEmojis = []string{
	"🛡", "⚔", "🗡", "🏹", "🔥", "❄", "🧊", "💚", "💙", "❤", "🧡", "💛",
	"✨", "🌿", "☀", "🌙", "🐎", "🐴", "🐺", "📯", "🎯", "⚒", "🔨",
}

// HasRoleEmoji reports whether the line carries a role-indicator emoji.
func HasRoleEmoji(line string) bool {
	for _, e := range roleEmojis {
		if strings.Contains(line, e) {
			return true
		}
	}
	return false
}

var (
	mentionRe    = regexp.MustCompile(`<@!?\d+>`)
	labelColonRe = regexp.MustCompile(`^\s*\p{L}[^:\n]{0,40}:`)
	labelDashRe  = regexp.MustCompile(`^\s*\p{L}[^\n]{0,40}-\s*$`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
)

// roleLineDenylist lists line prefixes/substrings that disqualify a line from
// counting as a role slot even when a role-line rule matches.
var roleLineDenylist = []string{
	"@everyone", "@here", "food", "еда", "comida", "mount:", "маунт:", "montaria:", "**",
}

// isDeniedRoleLine applies the non-role denylist; it always wins over the
// positive rules.
func isDeniedRoleLine(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, d := range roleLineDenylist {
		if strings.HasPrefix(lower, d) {
			return true
		}
	}
	if urlRe.MatchString(lower) || strings.HasPrefix(lower, "/") {
		return true
	}
	return false
}

// CountRoleLines counts the candidate role lines in the raw message: lines
// with a platform mention, a role-indicator emoji, or a `label:`/`label-`
// shape, minus the denylist.
func CountRoleLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isDeniedRoleLine(trimmed) {
			continue
		}
		if mentionRe.MatchString(trimmed) || HasRoleEmoji(trimmed) || labelColonRe.MatchString(trimmed) || labelDashRe.MatchString(trimmed) {
			count++
		}
	}
	return count
}

// hasGoldenChest reports whether the message names a golden/gilded chest.
func hasGoldenChest(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range goldenChestKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Detect classifies text in two phases: an exact role-count match against the
// fixed-size archetypes, then keyword-ratio scoring with a party-size sanity
// adjustment. Falls back to Other at confidence 0.
func Detect(text string) Detection {
	roleLines := CountRoleLines(text)

	// Phase 1: exact fixed-size match.
	if roleLines > 0 {
		for _, d := range Descriptors {
			if d.RaidType != models.RaidTypeFixed || d.PartySize.Min != roleLines {
				continue
			}
			// The 7-slot roads pair share a party composition; only the
			// golden-chest keyword separates the PvE run from the PvP one.
			if d.Type == TypeRoadsPVE && !hasGoldenChest(text) {
				if pvp, ok := Find(TypeRoadsPVP); ok {
					return Detection{Type: pvp.Type, Confidence: exactCountConfidence, Descriptor: pvp}
				}
			}
			return Detection{Type: d.Type, Confidence: exactCountConfidence, Descriptor: d}
		}
	}

	// Phase 2: keyword-ratio scoring.
	lower := strings.ToLower(text)
	best := Other
	bestScore := 0.0
	for _, d := range Descriptors {
		if len(d.Keywords) == 0 {
			continue
		}
		matched := 0
		for _, kw := range d.Keywords {
			if strings.Contains(lower, kw) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		score := float64(matched) / float64(len(d.Keywords))
		if score < keywordFloor {
			score = keywordFloor
		}
		if d.RaidType == models.RaidTypeFixed {
			// A keyword hit for a fixed-size archetype whose role count does
			// not line up is almost certainly a false positive.
			if roleLines == d.PartySize.Min {
				score += sizeMatchBonus
			} else {
				score -= sizeMismatchPenalty
			}
		}
		if score > bestScore {
			bestScore = score
			best = d
		}
	}

	if bestScore < minAcceptConfidence {
		return Detection{Type: Other.Type, Confidence: 0, Descriptor: Other}
	}
	if best.RaidType == models.RaidTypeFixed && bestScore < minFixedConfidence {
		return Detection{Type: Other.Type, Confidence: 0, Descriptor: Other}
	}
	return Detection{Type: best.Type, Confidence: models.ClampConfidence(bestScore), Descriptor: best}
}

// Find returns the descriptor with the given type id.
func Find(id string) (Descriptor, bool) {
	for _, d := range Descriptors {
		if d.Type == id {
			return d, true
		}
	}
	if id == TypeOther {
		return Other, true
	}
	return Descriptor{}, false
}

// Normalize maps a model-supplied content type string onto the descriptor
// table, tolerating case differences, separators and common aliases.
func Normalize(raw string) (Descriptor, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.NewReplacer(" ", "_", "-", "_").Replace(cleaned)
	if d, ok := Find(cleaned); ok {
		return d, true
	}
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, d := range Descriptors {
		if strings.EqualFold(d.Type, cleaned) || strings.EqualFold(d.Description, raw) {
			return d, true
		}
		for _, alias := range d.Aliases {
			if lower == alias {
				return d, true
			}
		}
		for _, kw := range d.Keywords {
			if lower == kw {
				return d, true
			}
		}
	}
	return Descriptor{}, false
}
