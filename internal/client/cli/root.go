package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/dmitrijs2005/vendorconsole/internal/client/guard"
	"github.com/dmitrijs2005/vendorconsole/internal/client/services"
)

func (a *App) getStatus() string {
	var parts []string
	if p, ok := a.sessions.Get(); ok {
		parts = append(parts, p.DisplayName(), string(p.Role))
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}

	s := a.route
	if len(parts) > 0 {
		s = strings.TrimSpace(fmt.Sprintf("%s (%s)", s, strings.Join(parts, " ")))
	}
	return s
}

// Root greets the operator, reports a stored token, opens the start route
// and runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the vendor console (type 'help' for commands)")

	a.checkSavedToken(ctx)
	_ = a.Go(ctx, "/")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// checkSavedToken keeps a valid stored token for the next sign-in. It never
// grants access by itself; an expired one is removed.
func (a *App) checkSavedToken(ctx context.Context) {
	saved, err := a.tokens.Load(ctx)
	switch {
	case err == nil:
		printlnFn(fmt.Sprintf("A saved token for %s is valid until %s. Sign in to continue.",
			saved.Mobile, services.FormatDate(saved.ExpiresAt)))
	case errors.Is(err, services.ErrTokenExpired):
		a.log.Info(ctx, "stored token expired")
		if err := a.tokens.Clear(ctx); err != nil {
			a.log.Warn(ctx, "error clearing expired token", "error", err)
		}
	case errors.Is(err, client.ErrLocalDataNotAvailable):
	default:
		a.log.Warn(ctx, "error loading stored token", "error", err)
	}
}

// Sections lists the routes the signed-in principal may open.
func (a *App) Sections() []string {
	p, ok := a.sessions.Get()
	if !ok {
		return []string{guard.LoginPath}
	}
	return guard.SectionPaths(p.Role)
}
