// Package postprocess validates the model's draft, reconciles it against the
// preprocessor context and assembles the final raid record. Like the
// preprocessor it is a fixed chain of pure stages over a value context; a
// stage returning an error is unrecoverable and surfaces as a generic
// processing failure.
package postprocess

import (
	"fmt"

	"raid-parser/internal/models"
	"raid-parser/internal/preprocess"

	"go.uber.org/zap"
)

// Context is threaded through the postprocessor stages.
type Context struct {
	OriginalMessage string
	Pre             preprocess.Context
	RawResponse     string
	Draft           *models.ModelRaidDraft
	Record          models.ParsedRaidRecord
	Diagnostics     []string
	logger          *zap.Logger
}

// Stage is one postprocessing step.
type Stage func(Context) (Context, error)

var stages = []Stage{
	validateDraft,
	resolveDateTime,
	normalizeRoles,
	resolveContentType,
	applyDefaults,
	finalize,
}

// Process runs the full postprocessor chain and returns the assembled
// record. Stages are expected to always succeed given a validated draft;
// a stage error here is a bug, reported as ErrPostprocess.
func Process(pre preprocess.Context, draft *models.ModelRaidDraft, raw string, logger *zap.Logger) (*models.ParsedRaidRecord, error) {
	ctx := Context{
		OriginalMessage: pre.OriginalMessage,
		Pre:             pre,
		RawResponse:     raw,
		Draft:           draft,
		logger:          logger,
	}

	var err error
	for _, stage := range stages {
		ctx, err = stage(ctx)
		if err != nil {
			logger.Error("Postprocessor stage failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", models.ErrPostprocess, err)
		}
	}

	for _, d := range ctx.Diagnostics {
		logger.Debug("Postprocess diagnostic", zap.String("note", d))
	}
	record := ctx.Record
	return &record, nil
}

// validateDraft rejects a missing/non-object model response. The error is
// recorded but not fatal: downstream stages tolerate an empty draft.
func validateDraft(ctx Context) (Context, error) {
	if ctx.Draft == nil {
		ctx.Diagnostics = append(ctx.Diagnostics,
			"model response was not a JSON object; continuing with empty draft")
		ctx.Draft = &models.ModelRaidDraft{}
	}
	return ctx, nil
}
