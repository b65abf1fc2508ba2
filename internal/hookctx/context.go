// Package hookctx carries request-scoped values, such as the guild a hook
// runs for, on a context.Context.
//
// Values live on the context chain rather than in a shared slot. Every
// goroutine or request holds its own chain, and leaving a Provide body drops
// back to the caller's unchanged context on every exit path.
package hookctx

import (
	"context"
	"errors"

	"github.com/jask/playerhooks/internal/player"
)

// ErrMissingContext is returned by UseHooksContext outside a provided span.
var ErrMissingContext = errors.New("hookctx: UseHooksContext must be called inside a hooks context provider")

// Provider carries values of type T. Each Provider has its own key, so
// providers of the same type never see each other's values.
type Provider[T any] struct {
	key *providerKey
}

// providerKey is not zero-sized so every allocation gets a distinct address.
type providerKey struct{ _ byte }

func NewProvider[T any]() *Provider[T] {
	return &Provider[T]{key: &providerKey{}}
}

// With returns a child of ctx carrying value.
func (p *Provider[T]) With(ctx context.Context, value T) context.Context {
	return context.WithValue(ctx, p.key, value)
}

// Provide runs body with value established on its context. Errors and panics
// from body propagate unchanged.
func (p *Provider[T]) Provide(ctx context.Context, value T, body func(ctx context.Context) error) error {
	return body(p.With(ctx, value))
}

// Use returns the innermost value on ctx.
func (p *Provider[T]) Use(ctx context.Context) (T, bool) {
	v, ok := ctx.Value(p.key).(T)
	return v, ok
}

// HooksCtx is the ambient state hooks read when no node is given.
type HooksCtx struct {
	Guild player.Guild
}

// Hooks is the provider used by the hook layer.
var Hooks = NewProvider[HooksCtx]()

func Provide(ctx context.Context, hc HooksCtx, body func(ctx context.Context) error) error {
	return Hooks.Provide(ctx, hc, body)
}

func WithContext(ctx context.Context, hc HooksCtx) context.Context {
	return Hooks.With(ctx, hc)
}

func UseContext(ctx context.Context) (HooksCtx, bool) {
	return Hooks.Use(ctx)
}

// UseHooksContext is UseContext for callers with no fallback.
func UseHooksContext(ctx context.Context) (HooksCtx, error) {
	hc, ok := Hooks.Use(ctx)
	if !ok {
		return HooksCtx{}, ErrMissingContext
	}
	return hc, nil
}
