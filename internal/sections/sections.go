// Package sections splits an answer into a greeting, timing details,
// guidance and loose bullets for rendering.
package sections

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// GuidanceLimit is how many guidance items show before expanding.
const GuidanceLimit = 8

// Bullet is the normalized bullet marker.
const Bullet = "• "

// Sections is the parsed view of one answer. It is derived from message
// content on every render and never stored.
type Sections struct {
	Greeting       []string `json:"greeting"`
	TimingItems    []string `json:"timingItems"`
	GuidanceItems  []string `json:"guidanceItems"`
	GeneralBullets []string `json:"generalBullets"`
}

// Structured reports whether anything landed in a section. When false the
// caller renders the original text verbatim.
func (s Sections) Structured() bool {
	return len(s.TimingItems)+len(s.GuidanceItems)+len(s.GeneralBullets) > 0
}

// Guidance returns the guidance items to show and how many are hidden.
func (s Sections) Guidance(expanded bool) ([]string, int) {
	if expanded || len(s.GuidanceItems) <= GuidanceLimit {
		return s.GuidanceItems, 0
	}
	return s.GuidanceItems[:GuidanceLimit], len(s.GuidanceItems) - GuidanceLimit
}

type cursor int

const (
	inNone cursor = iota
	inTiming
	inGuidance
)

// Parse classifies text line by line. Headers are best effort: upstream
// answers do not always carry them.
func Parse(text string) Sections {
	var s Sections
	section := inNone

	for _, line := range strings.Split(normalize(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case isGreeting(line):
			s.Greeting = append(s.Greeting, line)
			continue
		case isTimingHeader(line):
			section = inTiming
			continue
		case isGuidanceHeader(line):
			section = inGuidance
			continue
		}

		item, bulleted := stripBullet(line)
		if item == "" {
			continue
		}
		switch section {
		case inTiming:
			s.TimingItems = append(s.TimingItems, item)
		case inGuidance:
			s.GuidanceItems = append(s.GuidanceItems, item)
		default:
			if bulleted {
				s.GeneralBullets = append(s.GeneralBullets, item)
			} else {
				s.Greeting = append(s.Greeting, line)
			}
		}
	}
	return s
}

var (
	// inline headers are pushed onto their own line
	headerRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:📅\s*)?timing\s+details\s*:`),
		regexp.MustCompile(`(?i)(?:✨\s*)?(?:spiritual\s+)?guidance\s*:`),
		regexp.MustCompile(`(?:📅\s*)?समय\s*(?:का\s*)?विवरण\s*:?`),
		regexp.MustCompile(`(?:✨\s*)?(?:आध्यात्मिक\s*)?मार्गदर्शन\s*:`),
		regexp.MustCompile(`(?:📅\s*)?ಸಮಯ(?:ದ)?\s*ವಿವರ(?:ಗಳು)?\s*:?`),
		regexp.MustCompile(`(?:✨\s*)?(?:ಆಧ್ಯಾತ್ಮಿಕ\s*)?ಮಾರ್ಗದರ್ಶನ\s*:`),
	}

	lineBulletRe   = regexp.MustCompile(`(?m)^[ \t]*(?:[-–—*•◦▪●]|\d{1,2}[.)])[ \t]+`)
	inlineBulletRe = regexp.MustCompile(`[ \t]+[•◦▪●][ \t]*`)
	blankRunRe     = regexp.MustCompile(`\n{2,}`)
)

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, re := range headerRes {
		text = re.ReplaceAllStringFunc(text, func(h string) string {
			return "\n" + strings.TrimSpace(h) + "\n"
		})
	}
	text = inlineBulletRe.ReplaceAllString(text, "\n"+Bullet)
	text = lineBulletRe.ReplaceAllString(text, Bullet)
	return strings.TrimSpace(blankRunRe.ReplaceAllString(text, "\n"))
}

var greetingPhrases = []string{"jai shree krishna", "जय श्री कृष्ण", "ಜೈ ಶ್ರೀ ಕೃಷ್ಣ"}

func isGreeting(line string) bool {
	lower := strings.ToLower(line)
	for _, g := range greetingPhrases {
		if strings.Contains(lower, g) {
			return true
		}
	}
	return false
}

// keyword pairs identify translated headers; short lines only, so body
// text that mentions the words is not taken for a header
var (
	timingPairs   = [][]string{{"timing", "details"}, {"समय", "विवरण"}, {"ಸಮಯ", "ವಿವರ"}}
	guidancePairs = [][]string{{"guidance"}, {"मार्गदर्शन"}, {"ಮಾರ್ಗದರ್ಶನ"}}

	// words a bare header may carry besides its keywords
	headerFillers = map[string]bool{
		"spiritual": true, "details": true, "का": true, "आध्यात्मिक": true, "ಆಧ್ಯಾತ್ಮಿಕ": true,
	}
)

const maxHeaderWords = 4

func isTimingHeader(line string) bool {
	return matchesHeader(line, timingPairs)
}

func isGuidanceHeader(line string) bool {
	return matchesHeader(line, guidancePairs)
}

func matchesHeader(line string, pairs [][]string) bool {
	if strings.HasPrefix(line, Bullet) {
		return false
	}
	text := headerText(line)
	if text == "" || len(strings.Fields(text)) > maxHeaderWords {
		return false
	}
	for _, keywords := range pairs {
		if containsAll(text, keywords) {
			return headerShaped(line, text, keywords)
		}
	}
	return false
}

// headerShaped tells a header from a short sentence: it ends in a colon,
// opens with a symbol marker, or holds nothing but header words.
func headerShaped(line, text string, keywords []string) bool {
	trimmed := strings.TrimRight(line, "*# \t\ufe0f")
	if strings.HasSuffix(trimmed, ":") {
		return true
	}
	if first, _ := utf8.DecodeRuneInString(strings.TrimLeft(line, "*# ")); unicode.Is(unicode.So, first) {
		return true
	}
	for _, word := range strings.Fields(text) {
		if headerFillers[word] || containsAny(word, keywords) {
			continue
		}
		return false
	}
	return true
}

func containsAll(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

func containsAny(word string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(word, kw) {
			return true
		}
	}
	return false
}

// headerText lowercases line and drops emoji, markup and punctuation.
func headerText(line string) string {
	line = strings.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.So, r), r == '*', r == '#', r == ':', r == '\ufe0f':
			return -1
		}
		return r
	}, line)
	return strings.ToLower(strings.TrimSpace(line))
}

func stripBullet(line string) (string, bool) {
	if strings.HasPrefix(line, Bullet) {
		return strings.TrimSpace(strings.TrimPrefix(line, Bullet)), true
	}
	return line, false
}
