package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/normanking/voicevedic/internal/i18n"
	"github.com/normanking/voicevedic/internal/language"
	"github.com/normanking/voicevedic/internal/sections"
)

// renderAnswer prints an assistant message as greeting plus sections, or
// verbatim when it has no recognizable structure.
func renderAnswer(w io.Writer, content string, tag language.Tag, expanded bool) {
	s := sections.Parse(content)
	if !s.Structured() {
		fmt.Fprintln(w, content)
		return
	}

	for _, line := range s.Greeting {
		fmt.Fprintln(w, line)
	}
	if len(s.TimingItems) > 0 {
		fmt.Fprintf(w, "\n%s\n", i18n.T(tag, i18n.KeyTimingHeader))
		printItems(w, s.TimingItems)
	}
	if len(s.GuidanceItems) > 0 {
		shown, hidden := s.Guidance(expanded)
		fmt.Fprintf(w, "\n%s\n", i18n.T(tag, i18n.KeyGuidanceHeader))
		printItems(w, shown)
		if hidden > 0 {
			fmt.Fprintf(w, "  %s\n", i18n.Tf(tag, i18n.KeyMoreItems, hidden))
		}
	}
	if len(s.GeneralBullets) > 0 {
		fmt.Fprintln(w)
		printItems(w, s.GeneralBullets)
	}
}

func printItems(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  %s%s\n", sections.Bullet, item)
	}
}

func printVoices(w io.Writer, app *App) {
	voices := app.Engine.Voices()
	fmt.Fprintf(w, "Voice engine: %s (%d voices)\n", app.Engine.Mode(), len(voices))

	for _, tag := range language.All() {
		chosen := app.Resolver.Resolve(tag, voices)
		names := make([]string, 0, len(chosen))
		for _, v := range chosen {
			names = append(names, fmt.Sprintf("%s [%s]", v.Name, v.Lang))
		}
		fmt.Fprintf(w, "  %-8s %s\n", tag.DisplayName()+":", strings.Join(names, ", "))
	}
}
