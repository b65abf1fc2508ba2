package hooks

import (
	"context"

	"github.com/jask/playerhooks/internal/hookctx"
	"github.com/jask/playerhooks/internal/player"
)

// VolumeUpdate is either Literal or Transform.
type VolumeUpdate interface {
	resolve(current int) int
}

type literal int

func (l literal) resolve(int) int { return int(l) }

type transform func(int) int

func (t transform) resolve(current int) int { return t(current) }

// Literal sets the volume to v.
func Literal(v int) VolumeUpdate { return literal(v) }

// Transform derives the new volume from the volume at the time Set runs.
func Transform(fn func(current int) int) VolumeUpdate { return transform(fn) }

// Shift moves the volume by delta, clamped to [0, max].
func Shift(delta, max int) VolumeUpdate {
	if delta > max {
		delta = max
	} else if delta < -max {
		delta = -max
	}
	return Transform(func(v int) int {
		v += delta
		if v < 0 {
			return 0
		}
		if v > max {
			return max
		}
		return v
	})
}

// VolumeDispatch reads and writes the volume of the queue resolved when it was
// built. It keeps pointing at that queue even if the queue is later deleted.
type VolumeDispatch struct {
	queue player.Queue
}

// Get returns the current volume, or false when no queue was resolved.
func (d VolumeDispatch) Get() (int, bool) {
	if d.queue == nil {
		return 0, false
	}
	return d.queue.Volume(), true
}

// Set applies u and returns the queue's own success flag. resolved is false,
// and nothing happens, when no queue was resolved.
//
// A Transform reads and then writes without a lock; two concurrent
// Transforms on one queue can lose an update unless callers hold
// Hooks.LockGuild.
func (d VolumeDispatch) Set(u VolumeUpdate) (applied, resolved bool) {
	if d.queue == nil || u == nil {
		return false, d.queue != nil
	}
	if t, ok := u.(transform); ok && t == nil {
		return false, true
	}
	return d.queue.SetVolume(u.resolve(d.queue.Volume())), true
}

// Resolved reports whether the dispatch points at a queue.
func (d VolumeDispatch) Resolved() bool { return d.queue != nil }

// UseVolume resolves node once and returns a dispatch over its volume. A nil
// node means the guild from the hooks context on ctx.
func (h *Hooks) UseVolume(ctx context.Context, node player.NodeResolvable) (VolumeDispatch, error) {
	if node == nil {
		hc, err := hookctx.UseHooksContext(ctx)
		if err != nil {
			return VolumeDispatch{}, err
		}
		node = hc.Guild
	}
	q, _ := h.GetQueue(node)
	return VolumeDispatch{queue: q}, nil
}
