// Command edh-companion cross-references a card inventory with EDHREC data to
// tag card lists, complete partial decks and find commanders for a
// collection.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramonehamilton/EDH-Companion/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, session.ErrInterrupted) {
			fmt.Fprintln(os.Stderr, "Interrupted, nothing was saved.")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
