package preprocess

import (
	"regexp"
	"strings"

	"raid-parser/internal/dictionary"
)

var (
	massMentionRe  = regexp.MustCompile(`@(everyone|here)\b`)
	urlRe          = regexp.MustCompile(`https?://\S+`)
	decorRe        = regexp.MustCompile(`[=~_*#]{2,}|[-]{3,}|[!?.]{3,}`)
	spaceRe        = regexp.MustCompile(`[ \t]{2,}`)
	mentionIDRe    = regexp.MustCompile(`<@!?(\d+)>`)
	plainMentionRe = regexp.MustCompile(`@([\w.]+)`)
	gearTierRe     = regexp.MustCompile(`(?i)\bT\d+(\.\d+)?\b`)
)

// stripEmoji removes pictographic runes and variation selectors. Custom
// platform emoji of the form <:name:id> are removed as text first.
var customEmojiRe = regexp.MustCompile(`<a?:\w+:\d+>`)

func stripEmoji(s string) string {
	s = customEmojiRe.ReplaceAllString(s, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isEmojiRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, symbols, emoji blocks
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r == 0xFE0F || r == 0x200D: // variation selector, ZWJ
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	}
	return false
}

// compactMessage strips decoration and drops lines that carry nothing the
// model or later stages need. The result becomes the prompt's message body:
// shorter than the original, but never missing a slot or time line.
func compactMessage(ctx Context) Context {
	cleaned := massMentionRe.ReplaceAllString(ctx.OriginalMessage, "")
	cleaned = urlRe.ReplaceAllString(cleaned, "")
	cleaned = stripEmoji(cleaned)
	cleaned = decorRe.ReplaceAllString(cleaned, " ")
	cleaned = spaceRe.ReplaceAllString(cleaned, " ")

	lines := strings.Split(cleaned, "\n")
	kept := make([]string, 0, len(lines))
	lineCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lineCount++
		if isRelevantLine(trimmed, ctx.Dict) {
			kept = append(kept, trimmed)
		}
	}

	ctx.ProcessedMessage = strings.Join(kept, "\n")
	ctx.Metadata.LineCount = lineCount
	ctx.Metadata.ProcessedLength = len(ctx.ProcessedMessage)
	return ctx
}

// isRelevantLine keeps lines containing a role/requirement/time keyword, a
// user mention, a time pattern, or a gear-tier token.
func isRelevantLine(line string, dict dictionary.Dictionary) bool {
	if mentionIDRe.MatchString(line) || plainMentionRe.MatchString(line) {
		return true
	}
	if gearTierRe.MatchString(line) {
		return true
	}
	if matchTimeInLine(line) != "" {
		return true
	}
	if dictionary.ContainsAny(line, dict.Relevance) {
		return true
	}
	if dictionary.ContainsAny(line, dict.Food) ||
		dictionary.ContainsAny(line, dict.Mount) ||
		dictionary.ContainsAny(line, dict.Build) {
		return true
	}
	lower := strings.ToLower(line)
	for _, e := range dict.Roles {
		if strings.Contains(lower, e.Keyword) {
			return true
		}
	}
	return false
}
