package crawler

import (
	"regexp"
	"strings"
)

// ChipsetUnknown is the sentinel for detail pages that carry no usable
// processor row.
const ChipsetUnknown = "غير محدد"

// Ordered strip rules for raw processor values. The upstream site writes
// rows like "ثماني النواة Snapdragon 8 Gen 2 (4nm)": a core-count
// qualifier, the chipset name, then clock-speed and process-size noise.
var (
	coreCountRe   = regexp.MustCompile(`ثماني النواة|سداسي النواة|رباعي النواة|ثنائي النواة`)
	punctuationRe = regexp.MustCompile(`[()\-–,]`)
	clockSpeedRe  = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*GHz\b`)
	processSizeRe = regexp.MustCompile(`(?i)\b\d+\s*nm\b`)
	whitespaceRe  = regexp.MustCompile(`\s+`)

	// First run of letter tokens followed by an alphanumeric token,
	// e.g. "Snapdragon 8". Arabic chipset names are equally valid.
	shortNameRe = regexp.MustCompile(`[A-Za-z\p{Arabic}]+\s*[A-Za-z0-9\-]+`)
)

// CleanChipset applies the strip rules in order and collapses whitespace.
func CleanChipset(raw string) string {
	s := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
	if s == "" {
		return ""
	}
	s = coreCountRe.ReplaceAllString(s, "")
	s = punctuationRe.ReplaceAllString(s, " ")
	s = clockSpeedRe.ReplaceAllString(s, "")
	s = processSizeRe.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ShortChipset reduces a raw processor value to its short name: the first
// alphanumeric token run of the cleaned value, the whole cleaned value
// when no run matches, or ChipsetUnknown when nothing is left.
func ShortChipset(raw string) string {
	clean := CleanChipset(raw)
	if clean == "" {
		return ChipsetUnknown
	}
	if m := shortNameRe.FindString(clean); m != "" {
		return strings.TrimSpace(m)
	}
	return clean
}
