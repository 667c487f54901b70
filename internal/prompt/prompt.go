// Package prompt renders the preprocessor context into the compact
// instruction-following prompt sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"raid-parser/internal/preprocess"
)

// SystemInstruction steers the model toward a single JSON object matching
// the draft shape the postprocessor expects.
const SystemInstruction = `You are a parser for online game raid announcements. ` +
	`Given a chat message and extraction hints, return ONLY one JSON object with these fields: ` +
	`"title" (string), "description" (string), "contentType" (string id), ` +
	`"timestamp" (ISO 8601 string), "location" (string), "requirements" (array of strings), ` +
	`"roles" (array of {"name","role","preAssignedUser"}), "maxParticipants" (number), ` +
	`"notes" (string), "confidence" (number 0-1), "contentTypeConfidence" (number 0-1). ` +
	`Use the normalized role ids tank, healer, support, melee_dps, ranged_dps, mount, caller. ` +
	`Omit fields you cannot infer. Do not add any text outside the JSON object.`

// ValidationPrompt is the tiny-budget yes/no relevance question. Any answer
// other than "true" is treated as not raid-related.
func ValidationPrompt(message string) string {
	return "Is the following chat message announcing or organizing a game raid/group activity? " +
		"Answer with exactly true or false, nothing else.\n\nMessage:\n" + message
}

// Build renders the prompt body. Each section is omitted entirely when its
// source data is empty, to save tokens.
func Build(ctx preprocess.Context) string {
	var b strings.Builder

	b.WriteString("Message:\n")
	b.WriteString(ctx.ProcessedMessage)
	b.WriteString("\n")

	if len(ctx.ExtractedSlots) > 0 {
		labels := make([]string, 0, len(ctx.ExtractedSlots))
		for _, s := range ctx.ExtractedSlots {
			labels = append(labels, s.Label)
		}
		b.WriteString("\nSlots: ")
		b.WriteString(strings.Join(labels, ", "))
		b.WriteString("\n")
	}

	if len(ctx.PreAssignedRoles) > 0 {
		pairs := make([]string, 0, len(ctx.PreAssignedRoles))
		for _, r := range ctx.PreAssignedRoles {
			pairs = append(pairs, fmt.Sprintf("%s→%s", r.SlotName, r.Role))
		}
		b.WriteString("\nDetected roles: ")
		b.WriteString(strings.Join(pairs, ", "))
		b.WriteString("\n")
	}

	if ct := ctx.PreAssignedContentType; ct != nil {
		fmt.Fprintf(&b, "\nSuggested content type: %s (confidence %.2f, party size %d-%d)\n",
			ct.Type, ct.Confidence, ct.PartySize.Min, ct.PartySize.Max)
	}

	if len(ctx.ExtractedRequirements) > 0 {
		b.WriteString("\nRequirements: ")
		b.WriteString(strings.Join(ctx.ExtractedRequirements, "; "))
		b.WriteString("\n")
	}

	if ctx.ExtractedTime != "" {
		b.WriteString("\nExtracted time: ")
		b.WriteString(ctx.ExtractedTime)
		b.WriteString("\n")
	}

	return b.String()
}
