package preprocess

import (
	"regexp"
	"strings"
)

var (
	time24Re   = regexp.MustCompile(`\b([01]?\d|2[0-3]):[0-5]\d\b`)
	time12Re   = regexp.MustCompile(`(?i)\b\d{1,2}:[0-5]\d\s*(?:am|pm)\b`)
	// RE2's \b is ASCII-only, so the Cyrillic hour suffix needs an explicit
	// right boundary.
	bareHourRe = regexp.MustCompile(`(?i)\b([01]?\d|2[0-3])\s*(?:am|pm|h|uhr|ч)(?:$|[^\p{L}\d])`)
)

// matchTimeInLine tries the time patterns in a fixed sequence and returns the
// matched clock text (not normalized: "8:30 PM" yields "8:30").
func matchTimeInLine(line string) string {
	if m := time24Re.FindString(line); m != "" {
		return m
	}
	if m := time12Re.FindString(line); m != "" {
		// Keep just the clock digits.
		if t := time24Re.FindString(m); t != "" {
			return t
		}
		return m
	}
	if m := bareHourRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// ExtractTimeFromMessage scans lines in order and returns the first time
// pattern found on the first line that matches any pattern. Only one time
// value is ever extracted per message; empty string means none.
func ExtractTimeFromMessage(message string) string {
	for _, line := range strings.Split(message, "\n") {
		if t := matchTimeInLine(line); t != "" {
			return t
		}
	}
	return ""
}

// extractTime is the pipeline stage wrapper around ExtractTimeFromMessage.
func extractTime(ctx Context) Context {
	ctx.ExtractedTime = ExtractTimeFromMessage(ctx.OriginalMessage)
	return ctx
}
