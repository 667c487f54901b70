package postprocess

import (
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are the model timestamp formats we accept.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// resolveDateTime merges the two time sources. The record starts from a safe
// default (today at local midnight); a parseable model timestamp replaces
// it; and the preprocessor's extracted time, when present, always overwrites
// the hour and minute regardless of what the model returned. Extraction
// takes precedence over generation for the time of day, even when the model
// inferred a more specific timestamp from relative phrases.
func resolveDateTime(ctx Context) (Context, error) {
	now := time.Now()
	resolved := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if ts := strings.TrimSpace(ctx.Draft.Timestamp); ts != "" {
		if parsed, ok := parseTimestamp(ts); ok {
			resolved = parsed.In(now.Location())
		} else {
			// Unparseable model timestamps are ignored, not fatal.
			ctx.Diagnostics = append(ctx.Diagnostics, "unparseable model timestamp: "+ts)
		}
	}

	if ctx.Pre.ExtractedTime != "" {
		if hour, minute, ok := parseClock(ctx.Pre.ExtractedTime); ok {
			resolved = time.Date(resolved.Year(), resolved.Month(), resolved.Day(),
				hour, minute, 0, 0, resolved.Location())
		}
	}

	ctx.Record.Date = resolved
	return ctx, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		// Zone-less layouts resolve in local time so the model's calendar
		// date survives the conversion below.
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseClock parses "HH:MM" or a bare hour string.
func parseClock(s string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	if found {
		minute, err = strconv.Atoi(m)
		if err != nil || minute < 0 || minute > 59 {
			return 0, 0, false
		}
	}
	return hour, minute, true
}
