package tts

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/normanking/voicevedic/internal/language"
)

var (
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	inlineCode  = regexp.MustCompile("`[^`]*`")
	bulletRe    = regexp.MustCompile(`^(?:[-•◦▪●*]+|\d+[.)])\s*`)
	spaceRe     = regexp.MustCompile(`\s+`)
	spacePunct  = regexp.MustCompile(`\s+([.,!?;:])`)
	repeatPunct = regexp.MustCompile(`([.,!?;])(?:\s*[.,!?;])+`)

	dottedMeridiem = regexp.MustCompile(`(?i)\b([ap])\.\s?m\.`)
	attachedTime   = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2})\s*([ap]m)\b`)
	repeatMeridiem = regexp.MustCompile(`(?i)\b([ap]m)(?:\s+[ap]m\b)+`)
	timeRange      = regexp.MustCompile(`(\d{1,2}:\d{2} [AP]M)\s*(?:-|–|—|to)\s*(\d{1,2}:\d{2} [AP]M)`)

	markup = strings.NewReplacer("**", "", "*", "", "__", "", "#", "")
)

// CleanForSpeech prepares answer text for the synthesizer. Hindi and
// Kannada text only loses markup and emoji so the native script survives;
// Latin text is further reduced to a strict character set. Time
// expressions are repaired in both. Applying it twice gives the same
// result.
func CleanForSpeech(text string) string {
	text = linkRe.ReplaceAllString(text, "$1")
	text = inlineCode.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		line = bulletRe.ReplaceAllString(line, "")
		line = markup.Replace(line)
		line = repairTimes(strings.TrimSpace(stripEmoji(line)))
		if line == "" {
			continue
		}
		if !endsSentence(line) {
			line += "."
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, " ")

	if language.DetectScript(text).IsNative() {
		return tidy(text)
	}
	return tidy(allowLatin(text))
}

func repairTimes(text string) string {
	text = dottedMeridiem.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ToUpper(m[:1]) + "M"
	})
	text = attachedTime.ReplaceAllStringFunc(text, func(m string) string {
		parts := attachedTime.FindStringSubmatch(m)
		return parts[1] + " " + strings.ToUpper(parts[2])
	})
	text = repeatMeridiem.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ToUpper(m[:2])
	})
	return timeRange.ReplaceAllString(text, "$1 to $2")
}

// allowLatin replaces every character outside the speakable set with a
// space.
func allowLatin(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case strings.ContainsRune(" .,!?:;'\"()-/%&", r):
			return r
		default:
			return ' '
		}
	}, text)
}

func stripEmoji(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u200c' || r == '\u200d':
			return r // joiners shape Indic conjuncts
		case r == '\ufe0f' || r == '\ufe0e':
			return -1
		case unicode.Is(unicode.So, r), unicode.Is(unicode.Sk, r), unicode.Is(unicode.Cs, r):
			return -1
		case r == '•' || r == '◦' || r == '▪':
			return -1
		}
		return r
	}, text)
}

func tidy(text string) string {
	text = spaceRe.ReplaceAllString(text, " ")
	text = spacePunct.ReplaceAllString(text, "$1")
	text = repeatPunct.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

func endsSentence(line string) bool {
	last, _ := utf8.DecodeLastRuneInString(line)
	return strings.ContainsRune(".!?।:;,", last)
}
