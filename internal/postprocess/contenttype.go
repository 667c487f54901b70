package postprocess

import (
	"raid-parser/internal/contenttype"
	"raid-parser/internal/models"
)

const fallbackContentTypeConfidence = 0.5

// resolveContentType decides which source to trust for the archetype. A model
// answer that carries both a type and a confidence wins after normalizing
// against the descriptor table; otherwise the preprocessor's suggestion is
// used, and failing that the unclassified fallback.
func resolveContentType(ctx Context) (Context, error) {
	if ctx.Draft.ContentType != "" && ctx.Draft.ContentTypeConf != nil {
		if d, ok := contenttype.Normalize(ctx.Draft.ContentType); ok {
			ctx.Record.ContentType = d.Type
			ctx.Record.ContentTypeConfidence = models.ClampConfidence(*ctx.Draft.ContentTypeConf)
			return ctx, nil
		}
		ctx.Diagnostics = append(ctx.Diagnostics,
			"model content type not recognized: "+ctx.Draft.ContentType)
	}

	if ct := ctx.Pre.PreAssignedContentType; ct != nil {
		ctx.Record.ContentType = ct.Type
		ctx.Record.ContentTypeConfidence = models.ClampConfidence(ct.Confidence)
		return ctx, nil
	}

	ctx.Record.ContentType = contenttype.TypeOther
	ctx.Record.ContentTypeConfidence = fallbackContentTypeConfidence
	return ctx, nil
}
