//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyResume delivers SIGCONT, sent when a stopped shell job returns to
// the foreground.
func notifyResume() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGCONT)
	return ch, func() { signal.Stop(ch) }
}
