package verify

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrWidgetReset is returned when a token is requested from a widget
// instance that has been reset.
var ErrWidgetReset = errors.New("bot-check widget was reset")

// ErrNoBotToken is returned when no bot-check token is configured.
var ErrNoBotToken = errors.New("bot-check token is not configured")

// TokenSource yields bot-check tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	t := strings.TrimSpace(string(s))
	if t == "" {
		return "", ErrNoBotToken
	}
	return t, nil
}

// Instance is one live bot-check widget.
type Instance struct {
	ID string

	src TokenSource

	mu    sync.Mutex
	reset bool
}

func (i *Instance) Token(ctx context.Context) (string, error) {
	i.mu.Lock()
	reset := i.reset
	i.mu.Unlock()
	if reset {
		return "", ErrWidgetReset
	}
	return i.src.Token(ctx)
}

// Widget owns at most one live Instance at a time.
type Widget struct {
	src TokenSource

	mu   sync.Mutex
	live *Instance
}

func NewWidget(src TokenSource) *Widget {
	return &Widget{src: src}
}

// Acquire returns the live instance, creating one if none exists.
func (w *Widget) Acquire() *Instance {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.live == nil {
		w.live = &Instance{ID: uuid.NewString(), src: w.src}
	}
	return w.live
}

// Reset discards the live instance so the next Acquire builds a new one.
func (w *Widget) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.live != nil {
		w.live.mu.Lock()
		w.live.reset = true
		w.live.mu.Unlock()
		w.live = nil
	}
}
