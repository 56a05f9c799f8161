package answer

import (
	"regexp"
	"strings"
)

// reasoningPhrases are upstream scratch-work markers. A line containing
// any of them never reaches the user.
var reasoningPhrases = []string{
	"let's tackle this",
	"let me tackle this",
	"let me think",
	"let me check",
	"let me start by",
	"let me look",
	"the instructions say",
	"the instructions mention",
	"the user is asking",
	"the user asked",
	"the user wants",
	"first, i'll",
	"the search results",
	"based on the search results",
	"according to the sources",
	"the system prompt",
	"drik panchang",
	"<think>",
	"</think>",
}

var citationRe = regexp.MustCompile(`\[\d+\]`)

// IsReasoningLeak reports whether line is model meta-commentary or carries
// a citation marker.
func IsReasoningLeak(line string) bool {
	if citationRe.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, phrase := range reasoningPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

var calendarKeywords = []string{"tithi", "nakshatra", "rahu", "muhurat", "panchang"}

// IsCalendarContent reports whether the answer is about calendar timings.
func IsCalendarContent(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range calendarKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var (
	meridiemRe = regexp.MustCompile(`(?i)\d\s*[ap]\.?m\b`)
	fieldNames = []string{
		"tithi", "nakshatra", "yoga", "karana", "sunrise", "sunset",
		"moonrise", "moonset", "rahu", "yamaganda", "gulika", "abhijit",
		"muhurat", "paksha", "masa", "vara",
	}
)

// IsCalendarLine reports whether line holds calendar data that must be
// kept whole: a colon, an AM/PM time or a panchang field name.
func IsCalendarLine(line string) bool {
	if strings.Contains(line, ":") || meridiemRe.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, f := range fieldNames {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
