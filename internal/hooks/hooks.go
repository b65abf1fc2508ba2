// Package hooks resolves guild queues through the preferred player instance
// and exposes accessors over them.
//
// A missing instance or queue is an ordinary outcome reported as (zero,
// false). The only error is hookctx.ErrMissingContext, returned when a hook
// needs the ambient guild and none was provided.
package hooks

import (
	"sync"

	"github.com/jask/playerhooks/internal/player"
	"github.com/jask/playerhooks/internal/registry"
)

// Hooks binds the hook functions to one instance registry.
type Hooks struct {
	Instances *registry.Registry[player.Instance]

	mu     sync.Mutex
	guilds map[string]*sync.Mutex
}

// New returns Hooks over reg. A nil reg gets a fresh registry.
func New(reg *registry.Registry[player.Instance]) *Hooks {
	if reg == nil {
		reg = registry.New[player.Instance](nil)
	}
	return &Hooks{Instances: reg}
}

// Bind makes p the instance hooks resolve through.
func (h *Hooks) Bind(p player.Instance) {
	h.Instances.Bind(p)
}

// GetPlayer returns the preferred instance.
func (h *Hooks) GetPlayer() (player.Instance, bool) {
	return h.Instances.Preferred()
}

// GetQueue resolves node through the preferred instance. Nothing is cached;
// every call asks the instance again.
func (h *Hooks) GetQueue(node player.NodeResolvable) (player.Queue, bool) {
	p, ok := h.GetPlayer()
	if !ok || p == nil {
		return nil, false
	}
	q, ok := p.ResolveQueue(node)
	if !ok || q == nil {
		return nil, false
	}
	return q, true
}

// LockGuild serializes volume writes to one guild across every caller sharing
// h. Hold it around a Transform so concurrent adjustments are not lost.
func (h *Hooks) LockGuild(node player.NodeResolvable) (unlock func()) {
	id := node.NodeID()
	h.mu.Lock()
	if h.guilds == nil {
		h.guilds = make(map[string]*sync.Mutex)
	}
	m, ok := h.guilds[id]
	if !ok {
		m = &sync.Mutex{}
		h.guilds[id] = m
	}
	h.mu.Unlock()
	m.Lock()
	return m.Unlock
}
