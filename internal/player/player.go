// Package player defines the capability surface the hook layer consumes from
// a music player manager, plus an in-memory manager that implements it.
//
// Audio decoding and voice transport live outside this module. A Player here
// tracks one GuildQueue per guild and the volume of its PlayerNode.
package player

import (
	"log/slog"

	"github.com/google/uuid"
)

const (
	DefaultVolume = 100
	MaxVolume     = 200
)

// Queue is the part of a guild queue the hooks read and write.
type Queue interface {
	Volume() int
	SetVolume(v int) bool
}

// Instance resolves node identifiers to queues.
type Instance interface {
	ResolveQueue(node NodeResolvable) (Queue, bool)
}

// Player owns the queues of every guild it has joined.
type Player struct {
	id     string
	opts   options
	nodes  *NodeManager
	events *Events
}

type options struct {
	defaultVolume int
	maxVolume     int
	logger        *slog.Logger
}

// Option configures a Player.
type Option func(*options)

// WithDefaultVolume sets the volume new queues start at.
func WithDefaultVolume(v int) Option {
	return func(o *options) { o.defaultVolume = v }
}

// WithMaxVolume sets the upper bound accepted by PlayerNode.SetVolume.
func WithMaxVolume(v int) Option {
	return func(o *options) { o.maxVolume = v }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a Player with a random id.
func New(opts ...Option) *Player {
	o := options{defaultVolume: DefaultVolume, maxVolume: MaxVolume}
	for _, fn := range opts {
		fn(&o)
	}
	if o.maxVolume <= 0 {
		o.maxVolume = MaxVolume
	}
	o.defaultVolume = clamp(o.defaultVolume, 0, o.maxVolume)
	if o.logger == nil {
		o.logger = slog.Default()
	}
	p := &Player{
		id:     uuid.NewString(),
		opts:   o,
		events: &Events{},
	}
	p.nodes = newNodeManager(p)
	return p
}

func (p *Player) ID() string { return p.id }

func (p *Player) Nodes() *NodeManager { return p.nodes }

func (p *Player) Events() *Events { return p.events }

// MaxVolume reports the configured upper volume bound.
func (p *Player) MaxVolume() int { return p.opts.maxVolume }

// ResolveQueue implements Instance. A nil *GuildQueue is never returned as a
// non-nil Queue.
func (p *Player) ResolveQueue(node NodeResolvable) (Queue, bool) {
	q, ok := p.nodes.Resolve(node)
	if !ok {
		return nil, false
	}
	return q, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
