package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/normanking/voicevedic/internal/advisory"
	"github.com/normanking/voicevedic/internal/assistant"
	"github.com/normanking/voicevedic/internal/bus"
	"github.com/normanking/voicevedic/internal/conversation"
	"github.com/normanking/voicevedic/internal/language"
)

const helpText = `Commands:
  /lang [en|hi|kn]  show or switch the language
  /play [n]         read the last answer (or answer n) aloud; again to stop
  /stop             stop reading
  /more             show every guidance item of the last answer
  /suggest [text]   suggested questions
  /listen           ask by voice
  /dismiss          hide the current notice
  /clear            clear the conversation
  /quit             exit`

// lockedWriter serializes output from the prompt loop and bus handlers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type chat struct {
	app     *App
	out     io.Writer
	submits chan string
}

// runChat reads questions and commands from in until EOF, /quit or ctx
// is done.
func runChat(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	c := &chat{
		app:     app,
		out:     &lockedWriter{w: out},
		submits: make(chan string, 1),
	}

	app.EventBus.Subscribe(bus.EventTypeAdvisoryRaised, func(e bus.Event) {
		if a, ok := e.Data["advisory"].(advisory.Advisory); ok {
			fmt.Fprintf(c.out, "[%s] %s\n", a.Level, a.Message)
		}
	})
	app.Capture.OnTranscript(func(text string) {
		fmt.Fprintf(c.out, "🎤 %s\n", text)
	})
	app.Capture.OnSubmit(func(text string) {
		select {
		case c.submits <- text:
		default:
		}
	})

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	tag := app.Selection.Current()
	fmt.Fprintf(c.out, "🪔 VoiceVedic (%s). Ask a question or type /help.\n", tag.DisplayName())

	for {
		select {
		case <-ctx.Done():
			return nil
		case text := <-c.submits:
			c.ask(ctx, text)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "/") {
				if quit := c.command(ctx, line); quit {
					return nil
				}
				continue
			}
			c.ask(ctx, line)
		}
	}
}

func (c *chat) ask(ctx context.Context, question string) {
	msg, err := c.app.Assistant.Ask(ctx, question)
	switch {
	case errors.Is(err, assistant.ErrEmptyQuestion):
		return
	case errors.Is(err, assistant.ErrBusy):
		fmt.Fprintln(c.out, "Still working on the previous question.")
		return
	case err != nil:
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	renderAnswer(c.out, msg.Content, c.app.Selection.Current(), false)
}

// command runs a slash command and reports whether the session should end.
func (c *chat) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(c.out, helpText)
	case "/lang":
		c.language(arg)
	case "/play":
		c.play(ctx, arg)
	case "/stop":
		c.app.Player.Stop()
	case "/more":
		if msg, ok := c.lastAnswer(ctx, 0); ok {
			renderAnswer(c.out, msg.Content, c.app.Selection.Current(), true)
		}
	case "/suggest":
		for i, s := range c.app.Assistant.Suggestions(arg) {
			fmt.Fprintf(c.out, "  %d. %s\n", i+1, s)
		}
	case "/listen":
		if err := c.app.Capture.Capture(ctx, c.app.Selection.Current()); err != nil {
			c.app.Logger.Debug().Err(err).Msg("Capture not started")
		}
	case "/dismiss":
		c.app.Board.Dismiss()
	case "/clear":
		if err := c.app.Assistant.Clear(ctx); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return false
		}
		c.app.Board.Dismiss()
		fmt.Fprintln(c.out, "Conversation cleared.")
	default:
		fmt.Fprintf(c.out, "Unknown command %s, type /help.\n", name)
	}
	return false
}

func (c *chat) language(arg string) {
	if arg == "" {
		fmt.Fprintf(c.out, "Language: %s\n", c.app.Selection.Current().DisplayName())
		return
	}
	tag, err := language.Parse(arg)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.app.Player.Stop()
	c.app.Selection.Set(tag)
	fmt.Fprintf(c.out, "Language: %s\n", tag.DisplayName())
}

// play reads an answer aloud in the background; n counts answers from 1.
func (c *chat) play(ctx context.Context, arg string) {
	n := 0
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 {
			fmt.Fprintln(c.out, "Usage: /play [n]")
			return
		}
		n = v
	}

	msg, ok := c.lastAnswer(ctx, n)
	if !ok {
		fmt.Fprintln(c.out, "No answer to play.")
		return
	}
	go func() {
		if err := c.app.Assistant.Play(ctx, msg.ID); err != nil {
			c.app.Logger.Debug().Err(err).Msg("Playback ended with error")
		}
	}()
}

// lastAnswer returns answer n (1-based), or the latest when n is 0.
func (c *chat) lastAnswer(ctx context.Context, n int) (conversation.Message, bool) {
	messages, err := c.app.Assistant.Messages(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return conversation.Message{}, false
	}

	var answers []conversation.Message
	for _, m := range messages {
		if m.Role == conversation.RoleAssistant {
			answers = append(answers, m)
		}
	}
	switch {
	case len(answers) == 0:
		return conversation.Message{}, false
	case n == 0:
		return answers[len(answers)-1], true
	case n > len(answers):
		return conversation.Message{}, false
	default:
		return answers[n-1], true
	}
}
