// Package preprocess turns a raw chat message into the extraction context
// the prompt builder and postprocessor work from. The pipeline is a fixed
// sequence of pure stages over a value context: each stage receives the
// previous stage's full context and returns it with only its own fields
// changed, so fields set by an earlier stage are never dropped.
package preprocess

import (
	"raid-parser/internal/dictionary"
	"raid-parser/internal/models"
)

// Slot is one extracted sign-up line: the cleaned label text plus an
// optional user reference when the line pre-assigns a player.
type Slot struct {
	Label   string `json:"label"`
	UserRef string `json:"user_ref,omitempty"`
}

// Metadata carries diagnostic counters for logging.
type Metadata struct {
	OriginalLength   int `json:"original_length"`
	ProcessedLength  int `json:"processed_length"`
	LineCount        int `json:"line_count"`
	SlotCount        int `json:"slot_count"`
	RoleCount        int `json:"role_count"`
	RequirementCount int `json:"requirement_count"`
}

// Context is threaded through all preprocessor stages. ExtractedTime is an
// "HH:MM" (or bare hour) string, empty when no time pattern matched.
type Context struct {
	OriginalMessage        string
	ProcessedMessage       string
	ExtractedSlots         []Slot
	PreAssignedRoles       []models.PreAssignedRole
	ExtractedRequirements  []string
	ExtractedTime          string
	PreAssignedContentType *models.ContentTypeSuggestion
	Dict                   dictionary.Dictionary
	Metadata               Metadata
}

// Stage is one pure transformation step.
type Stage func(Context) Context

// stages run left to right; order only matters where one stage reads a field
// another stage writes (roles read slots, the content-type suggestion reads
// nothing but feeds the prompt).
var stages = []Stage{
	compactMessage,
	extractSlotLines,
	preAssignRoles,
	extractRequirements,
	extractTime,
	preAssignContentType,
}

// Process runs the full preprocessor pipeline over one message. The
// dictionary is resolved once here and shared by every stage so slot
// detection, role assignment, requirement extraction and content-type
// detection all see the same language-detection result.
func Process(message string) Context {
	ctx := Context{
		OriginalMessage: message,
		Dict:            dictionary.Resolve(message),
	}
	ctx.Metadata.OriginalLength = len(message)
	for _, stage := range stages {
		ctx = stage(ctx)
	}
	return ctx
}
