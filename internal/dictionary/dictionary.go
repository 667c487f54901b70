// Package dictionary holds the per-language lookup tables used by the
// preprocessing stages, and merges them according to which languages a
// message appears to be written in.
package dictionary

import (
	"strings"

	"raid-parser/internal/language"
	"raid-parser/internal/models"
)

// DetectionThreshold is the minimum language-detection confidence for a
// language's tables to be merged in. If nothing clears it, the default
// language alone is used.
const DetectionThreshold = 0.1

// DefaultLanguage is the fallback when detection finds nothing.
const DefaultLanguage = language.English

// RoleEntry maps a slot-label keyword to a normalized role. Entries are
// ordered; role pre-assignment takes the first matching entry, not the
// longest one.
type RoleEntry struct {
	Keyword    string
	Role       models.Role
	Confidence float64
}

// Dictionary is the merged lookup table for one message. All four consumer
// categories (slot detection, role assignment, requirement extraction,
// content-type detection) must resolve it once per message and share the
// result.
type Dictionary struct {
	Languages []language.Code
	Roles     []RoleEntry
	Food      []string
	Mount     []string
	Build     []string
	Relevance []string
}

// tables is the static per-language data, loaded once and never mutated.
type tables struct {
	roles     []RoleEntry
	food      []string
	mount     []string
	build     []string
	relevance []string
}

var perLanguage = map[language.Code]tables{
	language.English: {
		roles: []RoleEntry{
			{"tank", models.RoleTank, 0.9},
			{"maul", models.RoleTank, 0.8},
			{"hammer", models.RoleTank, 0.75},
			{"heavy mace", models.RoleTank, 0.8},
			{"incubus", models.RoleTank, 0.7},
			{"heal", models.RoleHealer, 0.9},
			{"holy", models.RoleHealer, 0.85},
			{"hallowfall", models.RoleHealer, 0.85},
			{"fallen", models.RoleHealer, 0.8},
			{"nature", models.RoleHealer, 0.75},
			{"blight", models.RoleHealer, 0.7},
			{"support", models.RoleSupport, 0.85},
			{"curse", models.RoleSupport, 0.7},
			{"rootbound", models.RoleSupport, 0.7},
			{"occult", models.RoleSupport, 0.7},
			{"enigmatic", models.RoleSupport, 0.7},
			{"shadowcaller", models.RoleSupport, 0.65},
			{"ranged", models.RoleRangedDPS, 0.85},
			{"bow", models.RoleRangedDPS, 0.8},
			{"crossbow", models.RoleRangedDPS, 0.8},
			{"longbow", models.RoleRangedDPS, 0.8},
			{"frost", models.RoleRangedDPS, 0.7},
			{"fire", models.RoleRangedDPS, 0.7},
			{"spirithunter", models.RoleRangedDPS, 0.7},
			{"melee", models.RoleMeleeDPS, 0.85},
			{"dps", models.RoleMeleeDPS, 0.6},
			{"spear", models.RoleMeleeDPS, 0.75},
			{"dagger", models.RoleMeleeDPS, 0.75},
			{"sword", models.RoleMeleeDPS, 0.75},
			{"axe", models.RoleMeleeDPS, 0.75},
			{"realmbreaker", models.RoleMeleeDPS, 0.75},
			{"mount", models.RoleMount, 0.9},
			{"caller", models.RoleCaller, 0.9},
			{"shotcaller", models.RoleCaller, 0.9},
			{"leader", models.RoleCaller, 0.8},
		},
		food:      []string{"food", "pork", "omelette", "sandwich", "pie", "soup", "stew"},
		mount:     []string{"mount", "horse", "ox", "swiftclaw", "direwolf", "wolf"},
		build:     []string{"build", "gear", "set", "weapon", "item power", "ip"},
		relevance: []string{"tank", "heal", "support", "dps", "food", "mount", "gear", "build", "raid", "roads", "dungeon", "start", "time", "utc"},
	},
	language.Russian: {
		roles: []RoleEntry{
			{"танк", models.RoleTank, 0.9},
			{"молот", models.RoleTank, 0.75},
			{"хил", models.RoleHealer, 0.9},
			{"святой", models.RoleHealer, 0.8},
			{"природа", models.RoleHealer, 0.75},
			{"саппорт", models.RoleSupport, 0.85},
			{"сап", models.RoleSupport, 0.7},
			{"проклятие", models.RoleSupport, 0.7},
			{"дд", models.RoleMeleeDPS, 0.6},
			{"лук", models.RoleRangedDPS, 0.8},
			{"арбалет", models.RoleRangedDPS, 0.8},
			{"копье", models.RoleMeleeDPS, 0.75},
			{"копьё", models.RoleMeleeDPS, 0.75},
			{"кинжал", models.RoleMeleeDPS, 0.75},
			{"маунт", models.RoleMount, 0.9},
			{"колл", models.RoleCaller, 0.85},
			{"коллер", models.RoleCaller, 0.9},
		},
		food:      []string{"еда", "хавка", "свинина", "омлет", "суп", "пирог"},
		mount:     []string{"маунт", "лошадь", "бык", "волк"},
		build:     []string{"билд", "шмот", "сет", "оружие"},
		relevance: []string{"танк", "хил", "саппорт", "дд", "еда", "маунт", "шмот", "билд", "рейд", "дороги", "данж", "сбор", "выход"},
	},
	language.Portuguese: {
		roles: []RoleEntry{
			{"tanque", models.RoleTank, 0.9},
			{"martelo", models.RoleTank, 0.75},
			{"curandeiro", models.RoleHealer, 0.9},
			{"cura", models.RoleHealer, 0.85},
			{"sagrado", models.RoleHealer, 0.8},
			{"suporte", models.RoleSupport, 0.85},
			{"maldição", models.RoleSupport, 0.7},
			{"arco", models.RoleRangedDPS, 0.8},
			{"besta", models.RoleRangedDPS, 0.75},
			{"lança", models.RoleMeleeDPS, 0.75},
			{"adaga", models.RoleMeleeDPS, 0.75},
			{"montaria", models.RoleMount, 0.9},
			{"líder", models.RoleCaller, 0.85},
		},
		food:      []string{"comida", "porco", "omelete", "sopa", "torta"},
		mount:     []string{"montaria", "cavalo", "boi", "lobo"},
		build:     []string{"build", "equipamento", "set", "arma"},
		relevance: []string{"tanque", "cura", "suporte", "comida", "montaria", "equipamento", "raide", "estradas", "masmorra", "saída"},
	},
	language.Spanish: {
		roles: []RoleEntry{
			{"tanque", models.RoleTank, 0.9},
			{"martillo", models.RoleTank, 0.75},
			{"sanador", models.RoleHealer, 0.9},
			{"sagrado", models.RoleHealer, 0.8},
			{"soporte", models.RoleSupport, 0.85},
			{"maldición", models.RoleSupport, 0.7},
			{"arco", models.RoleRangedDPS, 0.8},
			{"ballesta", models.RoleRangedDPS, 0.75},
			{"lanza", models.RoleMeleeDPS, 0.75},
			{"daga", models.RoleMeleeDPS, 0.75},
			{"montura", models.RoleMount, 0.9},
			{"líder", models.RoleCaller, 0.85},
		},
		food:      []string{"comida", "cerdo", "tortilla", "sopa", "pastel"},
		mount:     []string{"montura", "caballo", "buey", "lobo"},
		build:     []string{"build", "equipo", "set", "arma"},
		relevance: []string{"tanque", "sanador", "soporte", "comida", "montura", "equipo", "raid", "caminos", "mazmorra", "salida"},
	},
	language.French: {
		roles: []RoleEntry{
			{"tank", models.RoleTank, 0.9},
			{"marteau", models.RoleTank, 0.75},
			{"soigneur", models.RoleHealer, 0.9},
			{"soin", models.RoleHealer, 0.85},
			{"sacré", models.RoleHealer, 0.8},
			{"soutien", models.RoleSupport, 0.85},
			{"malédiction", models.RoleSupport, 0.7},
			{"arc", models.RoleRangedDPS, 0.8},
			{"arbalète", models.RoleRangedDPS, 0.75},
			{"lance", models.RoleMeleeDPS, 0.75},
			{"dague", models.RoleMeleeDPS, 0.75},
			{"monture", models.RoleMount, 0.9},
			{"chef", models.RoleCaller, 0.8},
		},
		food:      []string{"nourriture", "porc", "omelette", "soupe", "tarte"},
		mount:     []string{"monture", "cheval", "boeuf", "loup"},
		build:     []string{"build", "équipement", "set", "arme"},
		relevance: []string{"tank", "soigneur", "soutien", "nourriture", "monture", "équipement", "raid", "routes", "donjon", "départ"},
	},
	language.German: {
		roles: []RoleEntry{
			{"tank", models.RoleTank, 0.9},
			{"hammer", models.RoleTank, 0.75},
			{"heiler", models.RoleHealer, 0.9},
			{"heilig", models.RoleHealer, 0.8},
			{"unterstützung", models.RoleSupport, 0.85},
			{"fluch", models.RoleSupport, 0.7},
			{"bogen", models.RoleRangedDPS, 0.8},
			{"armbrust", models.RoleRangedDPS, 0.75},
			{"speer", models.RoleMeleeDPS, 0.75},
			{"dolch", models.RoleMeleeDPS, 0.75},
			{"reittier", models.RoleMount, 0.9},
			{"anführer", models.RoleCaller, 0.85},
		},
		food:      []string{"essen", "schwein", "omelett", "suppe", "kuchen"},
		mount:     []string{"reittier", "pferd", "ochse", "wolf"},
		build:     []string{"build", "ausrüstung", "set", "waffe"},
		relevance: []string{"tank", "heiler", "essen", "reittier", "ausrüstung", "raid", "straßen", "verlies", "start"},
	},
}

// Resolve detects the message's candidate languages and returns the union of
// their tables. Every pipeline stage working on the same message must call
// this exactly once and share the result.
func Resolve(text string) Dictionary {
	scores := language.ScoreLanguages(text)
	var langs []language.Code
	for _, s := range scores {
		if s.Confidence >= DetectionThreshold {
			langs = append(langs, s.Language)
		}
	}
	if len(langs) == 0 {
		langs = []language.Code{DefaultLanguage}
	}
	return ForLanguages(langs)
}

// ForLanguages unions the given languages' tables, de-duplicating entries
// while preserving order (first language's entries first).
func ForLanguages(langs []language.Code) Dictionary {
	d := Dictionary{Languages: langs}
	seenRole := make(map[string]struct{})
	for _, lang := range langs {
		t, ok := perLanguage[lang]
		if !ok {
			continue
		}
		for _, e := range t.roles {
			if _, dup := seenRole[e.Keyword]; dup {
				continue
			}
			seenRole[e.Keyword] = struct{}{}
			d.Roles = append(d.Roles, e)
		}
		d.Food = mergeUnique(d.Food, t.food)
		d.Mount = mergeUnique(d.Mount, t.mount)
		d.Build = mergeUnique(d.Build, t.build)
		d.Relevance = mergeUnique(d.Relevance, t.relevance)
	}
	return d
}

// MatchRole finds the first role entry whose keyword occurs in label.
// First match wins, not longest match.
func (d Dictionary) MatchRole(label string) (RoleEntry, bool) {
	lower := strings.ToLower(label)
	for _, e := range d.Roles {
		if strings.Contains(lower, e.Keyword) {
			return e, true
		}
	}
	return RoleEntry{}, false
}

// ContainsAny reports whether any keyword from set occurs in text
// (case-insensitive substring).
func ContainsAny(text string, set []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range set {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func mergeUnique(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
