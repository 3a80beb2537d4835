package cli

import (
	"context"
	"errors"
	"log"

	"github.com/dmitrijs2005/timevault/internal/client/services"
)

// Root greets the user, offers to unlock an existing key, starts the
// connectivity watcher and runs the REPL until the user leaves.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to timevault CLI (type 'help' for commands)")

	if _, err := a.authService.Identity(ctx); err == nil {
		_ = a.Login(ctx)
	} else if errors.Is(err, services.ErrNoKey) {
		log.Println("No signing key found, run 'keygen' to create one")
	}

	if a.config != nil && a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
