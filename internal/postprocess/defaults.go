package postprocess

import (
	"strings"
	"time"

	"raid-parser/internal/contenttype"
	"raid-parser/internal/models"
)

const defaultConfidence = 0.5

// applyDefaults clamps the overall confidence and fills location and
// requirements from the heuristic sources when the model left them empty.
func applyDefaults(ctx Context) (Context, error) {
	if ctx.Draft.Confidence != nil {
		ctx.Record.Confidence = models.ClampConfidence(*ctx.Draft.Confidence)
	} else {
		ctx.Record.Confidence = defaultConfidence
	}

	ctx.Record.Location = strings.TrimSpace(ctx.Draft.Location)
	if ctx.Record.Location == "" {
		if d, ok := contenttype.Find(ctx.Record.ContentType); ok {
			ctx.Record.Location = d.DefaultLocation
		}
	}

	if len(ctx.Draft.Requirements) > 0 {
		ctx.Record.Requirements = ctx.Draft.Requirements
	} else {
		ctx.Record.Requirements = ctx.Pre.ExtractedRequirements
	}
	if ctx.Record.Requirements == nil {
		ctx.Record.Requirements = []string{}
	}

	return ctx, nil
}

// finalize assembles the remaining record fields and applies the title
// placeholder.
func finalize(ctx Context) (Context, error) {
	ctx.Record.Title = strings.TrimSpace(ctx.Draft.Title)
	if ctx.Record.Title == "" {
		ctx.Record.Title = models.DefaultTitle
	}
	ctx.Record.Description = strings.TrimSpace(ctx.Draft.Description)
	ctx.Record.Notes = strings.TrimSpace(ctx.Draft.Notes)
	if ctx.Draft.MaxParticipants != nil && *ctx.Draft.MaxParticipants > 0 {
		ctx.Record.MaxParticipants = *ctx.Draft.MaxParticipants
	}
	if ctx.Record.Roles == nil {
		ctx.Record.Roles = []models.RoleSlot{}
	}
	ctx.Record.ParsedAt = time.Now()
	return ctx, nil
}
