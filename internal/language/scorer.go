// Package language scores free-form text against per-language keyword sets.
// It is the foundation for every dictionary lookup in the parsing pipeline:
// slot detection, role assignment, requirement extraction and content-type
// detection all share one detection result per message.
package language

import (
	"sort"
	"strings"
	"unicode"
)

// Code identifies a supported language.
type Code string

const (
	English    Code = "en"
	Russian    Code = "ru"
	Portuguese Code = "pt"
	Spanish    Code = "es"
	French     Code = "fr"
	German     Code = "de"
)

// Priority is the fixed tie-break order. When two languages score equally,
// the one earlier in this list wins, so output is stable across runs.
var Priority = []Code{English, Russian, Portuguese, Spanish, French, German}

// Score is one language's match result for a text.
type Score struct {
	Language   Code
	Score      float64
	Confidence float64
}

const (
	wholeWordWeight = 2.0
	longWordBonus   = 1.0
	partialWeight   = 0.5
	longPatternLen  = 6
)

// keywords holds common raid-ping vocabulary per language. Matching is
// lexical only; these sets only need to separate languages, not cover them.
var keywords = map[Code][]string{
	English: {
		"raid", "group", "need", "looking for", "join", "tank", "healer",
		"support", "tonight", "today", "tomorrow", "gear", "food", "mount",
		"roads", "dungeon", "chest", "start", "meet", "bring", "required",
	},
	Russian: {
		"рейд", "группа", "нужен", "нужна", "сбор", "идем", "идём", "танк",
		"хил", "саппорт", "сегодня", "завтра", "вечером", "шмот", "еда",
		"маунт", "дороги", "данж", "сундук", "выход", "собираемся", "билд",
	},
	Portuguese: {
		"raide", "grupo", "precisa", "precisamos", "procurando", "junte",
		"tanque", "curandeiro", "suporte", "hoje", "amanhã", "equipamento",
		"comida", "montaria", "estradas", "masmorra", "baú", "saída", "levar",
	},
	Spanish: {
		"raid", "grupo", "necesito", "necesitamos", "buscando", "únete",
		"tanque", "sanador", "soporte", "hoy", "mañana", "equipo", "comida",
		"montura", "caminos", "mazmorra", "cofre", "salida", "llevar",
	},
	French: {
		"raid", "groupe", "besoin", "cherche", "rejoindre", "soigneur",
		"soutien", "ce soir", "aujourd'hui", "demain", "équipement",
		"nourriture", "monture", "routes", "donjon", "coffre", "départ",
	},
	German: {
		"raid", "gruppe", "brauchen", "suche", "beitreten", "heiler",
		"unterstützung", "heute", "morgen", "abend", "ausrüstung", "essen",
		"reittier", "straßen", "verlies", "truhe", "start", "mitbringen",
	},
}

// priorityIndex returns the tie-break rank of a language.
func priorityIndex(c Code) int {
	for i, p := range Priority {
		if p == c {
			return i
		}
	}
	return len(Priority)
}

// tokenize splits text into lowercase word tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// ScoreLanguages scores text against every supported language and returns
// the results sorted descending by score. Languages with no keyword overlap
// are omitted, so a text with no overlaps at all yields an empty list.
//
// Confidence is derived from the ratio of matched-pattern weight to the
// message token count rather than from the raw score, so a short message
// with a strong match is more confident than a long message with the same
// score.
func ScoreLanguages(text string) []Score {
	lower := strings.ToLower(text)
	tokens := tokenize(text)
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	var out []Score
	for code, patterns := range keywords {
		var score float64
		for _, pattern := range patterns {
			w := patternWeight(pattern, lower, tokenSet)
			score += w
		}
		if score <= 0 {
			continue
		}
		confidence := 0.0
		if len(tokens) > 0 {
			confidence = score / float64(len(tokens))
			if confidence > 1 {
				confidence = 1
			}
		}
		out = append(out, Score{Language: code, Score: score, Confidence: confidence})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return priorityIndex(out[i].Language) < priorityIndex(out[j].Language)
	})
	return out
}

// patternWeight scores one pattern against the text. Whole-word occurrences
// get the bonus weight (more for longer patterns); a plain substring hit
// counts less.
func patternWeight(pattern, lowerText string, tokenSet map[string]struct{}) float64 {
	if strings.ContainsAny(pattern, " '") {
		// Multi-word patterns can only match as substrings of the full text,
		// but an exact phrase hit is as strong as a whole word.
		if strings.Contains(lowerText, pattern) {
			w := wholeWordWeight
			if len([]rune(pattern)) >= longPatternLen {
				w += longWordBonus
			}
			return w
		}
		return 0
	}
	if _, ok := tokenSet[pattern]; ok {
		w := wholeWordWeight
		if len([]rune(pattern)) >= longPatternLen {
			w += longWordBonus
		}
		return w
	}
	if strings.Contains(lowerText, pattern) {
		return partialWeight
	}
	return 0
}
