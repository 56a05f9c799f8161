// Package answer cleans raw knowledge-service answers for display and
// speech.
package answer

import (
	"regexp"
	"strings"
)

// Greeting opens every answer.
const Greeting = "🪔 Jai Shree Krishna."

// greetingPhrase is matched case-insensitively, without the lamp.
const greetingPhrase = "jai shree krishna"

// Limits bounds answer verbosity.
type Limits struct {
	CalendarLines int `mapstructure:"calendar_lines"`
	GeneralLines  int `mapstructure:"general_lines"`
	MaxSentences  int `mapstructure:"max_sentences"`
}

// DefaultLimits returns the default limits.
func DefaultLimits() *Limits {
	return &Limits{CalendarLines: 15, GeneralLines: 8, MaxSentences: 2}
}

// Processor post-processes answers in the pivot language.
type Processor struct {
	limits *Limits
}

// NewProcessor creates a processor. nil limits use DefaultLimits.
func NewProcessor(limits *Limits) *Processor {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Processor{limits: limits}
}

// Process drops reasoning leakage, strips bold markup, anchors the answer
// on the greeting and bounds its length.
func (p *Processor) Process(raw string) string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if IsReasoningLeak(line) {
			continue
		}
		line = strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if i := greetingIndex(lines); i >= 0 {
		lines = lines[i:]
	} else {
		lines = append([]string{Greeting}, lines...)
	}

	calendar := IsCalendarContent(strings.Join(lines, "\n"))
	limit := p.limits.GeneralLines
	if calendar {
		limit = p.limits.CalendarLines
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}

	for i, line := range lines {
		if i == 0 || IsCalendarLine(line) {
			continue
		}
		lines[i] = truncateSentences(line, p.limits.MaxSentences)
	}
	return strings.Join(lines, "\n")
}

func greetingIndex(lines []string) int {
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), greetingPhrase) {
			return i
		}
	}
	return -1
}

var sentenceEnd = regexp.MustCompile(`[.!?।](?:\s|$)`)

// truncateSentences keeps the first n sentences of line.
func truncateSentences(line string, n int) string {
	if n <= 0 {
		return line
	}
	ends := sentenceEnd.FindAllStringIndex(line, n+1)
	if len(ends) <= n {
		return line
	}
	return strings.TrimSpace(line[:ends[n-1][0]+1])
}
