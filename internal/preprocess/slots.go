package preprocess

import (
	"regexp"
	"strings"

	"raid-parser/internal/contenttype"
)

var (
	rolePrefixRe         = regexp.MustCompile(`^[A-ZА-ЯЁ]{2,}\s*-`)
	colonSlotRe          = regexp.MustCompile(`^[^:\n]+:`)
	trailingDashRe       = regexp.MustCompile(`\s*-\s*$`)
	parentheticalRe      = regexp.MustCompile(`\([^)]*\)`)
	trailingColonValueRe = regexp.MustCompile(`:\s*.*$`)
)

// slot denylist: lines that must never become slots even when a slot rule
// matches.
var slotDenylist = []string{
	"@everyone", "@here", "food", "еда", "comida", "mount:", "маунт:", "montaria:",
}

func isDeniedSlotLine(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, d := range slotDenylist {
		if strings.HasPrefix(lower, d) {
			return true
		}
	}
	if strings.HasPrefix(lower, "**") { // bold markdown headers
		return true
	}
	if urlRe.MatchString(lower) || strings.HasPrefix(lower, "/") {
		return true
	}
	return false
}

// isSlotLine applies the ordered slot rules to one line of the original
// message.
func isSlotLine(line string, ctx Context) bool {
	if contenttype.HasRoleEmoji(line) {
		return true
	}
	if trailingDashRe.MatchString(line) {
		return true
	}
	if rolePrefixRe.MatchString(line) {
		return true
	}
	if colonSlotRe.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, e := range ctx.Dict.Roles {
		if strings.Contains(lower, e.Keyword) {
			return true
		}
	}
	return false
}

// extractUserRef pulls a user reference off the line. A platform-native
// mention ID takes priority over a plain "@name" token.
func extractUserRef(line string) string {
	if m := mentionIDRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := plainMentionRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// cleanSlotLabel strips mentions, emoji, a trailing dash, parenthetical gear
// notes and the colon-suffixed value, leaving the bare slot label.
func cleanSlotLabel(line string) string {
	label := mentionIDRe.ReplaceAllString(line, "")
	label = plainMentionRe.ReplaceAllString(label, "")
	label = stripEmoji(label)
	label = parentheticalRe.ReplaceAllString(label, "")
	label = trailingColonValueRe.ReplaceAllString(label, "")
	label = trailingDashRe.ReplaceAllString(label, "")
	return strings.TrimSpace(label)
}

// extractSlotLines classifies each line of the original message (not the
// compacted one) as slot or non-slot and extracts label plus optional user
// reference. A line whose label strips down to nothing is discarded.
func extractSlotLines(ctx Context) Context {
	var slots []Slot
	for _, line := range strings.Split(ctx.OriginalMessage, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		// The denylist wins even when a slot rule also matched.
		if isDeniedSlotLine(trimmed) {
			continue
		}
		if !isSlotLine(trimmed, ctx) {
			continue
		}
		label := cleanSlotLabel(trimmed)
		if label == "" {
			continue
		}
		slots = append(slots, Slot{Label: label, UserRef: extractUserRef(trimmed)})
	}
	ctx.ExtractedSlots = slots
	ctx.Metadata.SlotCount = len(slots)
	return ctx
}
