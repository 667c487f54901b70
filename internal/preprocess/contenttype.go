package preprocess

import (
	"raid-parser/internal/contenttype"
	"raid-parser/internal/models"
)

const (
	suggestionBoost = 0.2
	suggestionCap   = 0.8
)

// preAssignContentType runs the archetype detector and boosts any positive
// match. The boosted value is only a suggestion fed to the generative model,
// so rewarding a keyword hit is safe; the cap keeps it below the exact-count
// confidence tier.
func preAssignContentType(ctx Context) Context {
	det := contenttype.Detect(ctx.OriginalMessage)
	if det.Confidence <= 0 {
		return ctx
	}
	conf := det.Confidence + suggestionBoost
	if conf > suggestionCap {
		conf = suggestionCap
	}
	ctx.PreAssignedContentType = &models.ContentTypeSuggestion{
		Type:       det.Type,
		Confidence: conf,
		PartySize:  det.Descriptor.PartySize,
		RaidType:   det.Descriptor.RaidType,
	}
	return ctx
}
