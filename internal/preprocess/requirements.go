package preprocess

import (
	"regexp"
	"strings"

	"raid-parser/internal/dictionary"
)

// foodCountRe catches "2 food good, 1 bad" style fragments.
var foodCountRe = regexp.MustCompile(`(?i)\b\d+\s+(?:food|еда|хавка|comida|nourriture|essen)[^,\n]*`)

// requirementCategory reports whether the keyword before a colon names a
// requirement category (food, mount or build/gear).
func requirementCategory(keyword string, dict dictionary.Dictionary) bool {
	return dictionary.ContainsAny(keyword, dict.Food) ||
		dictionary.ContainsAny(keyword, dict.Mount) ||
		dictionary.ContainsAny(keyword, dict.Build)
}

// extractRequirements classifies lines as requirements and additionally runs
// a whole-message sweep for bare tier tokens and food-count fragments.
//
// The sweep can re-collect matches the per-line pass already captured; the
// duplicates are intentional and callers must tolerate repeats.
func extractRequirements(ctx Context) Context {
	var reqs []string

	for _, line := range strings.Split(ctx.OriginalMessage, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case gearTierRe.MatchString(trimmed):
			reqs = append(reqs, trimmed)
		case dictionary.ContainsAny(trimmed, ctx.Dict.Food),
			dictionary.ContainsAny(trimmed, ctx.Dict.Mount),
			dictionary.ContainsAny(trimmed, ctx.Dict.Build):
			reqs = append(reqs, trimmed)
		default:
			if before, _, found := strings.Cut(trimmed, ":"); found && requirementCategory(before, ctx.Dict) {
				reqs = append(reqs, trimmed)
			}
		}
	}

	for _, m := range gearTierRe.FindAllString(ctx.OriginalMessage, -1) {
		reqs = append(reqs, m)
	}
	for _, m := range foodCountRe.FindAllString(ctx.OriginalMessage, -1) {
		reqs = append(reqs, strings.TrimSpace(m))
	}

	ctx.ExtractedRequirements = reqs
	ctx.Metadata.RequirementCount = len(reqs)
	return ctx
}
