package player

import "sync"

// QueueListener observes queue lifecycle changes.
type QueueListener func(q *GuildQueue)

// VolumeListener observes a successful volume change.
type VolumeListener func(q *GuildQueue, oldVolume, newVolume int)

// Events fans player events out to listeners in subscription order.
// Listeners run synchronously on the goroutine that caused the event.
type Events struct {
	mu           sync.RWMutex
	queueCreated []QueueListener
	queueDeleted []QueueListener
	volumeChange []VolumeListener
}

func (e *Events) OnQueueCreated(fn QueueListener) {
	e.mu.Lock()
	e.queueCreated = append(e.queueCreated, fn)
	e.mu.Unlock()
}

func (e *Events) OnQueueDeleted(fn QueueListener) {
	e.mu.Lock()
	e.queueDeleted = append(e.queueDeleted, fn)
	e.mu.Unlock()
}

func (e *Events) OnVolumeChange(fn VolumeListener) {
	e.mu.Lock()
	e.volumeChange = append(e.volumeChange, fn)
	e.mu.Unlock()
}

func (e *Events) emitQueueCreated(q *GuildQueue) {
	e.mu.RLock()
	ls := e.queueCreated
	e.mu.RUnlock()
	for _, fn := range ls {
		fn(q)
	}
}

func (e *Events) emitQueueDeleted(q *GuildQueue) {
	e.mu.RLock()
	ls := e.queueDeleted
	e.mu.RUnlock()
	for _, fn := range ls {
		fn(q)
	}
}

func (e *Events) emitVolumeChange(q *GuildQueue, oldVolume, newVolume int) {
	e.mu.RLock()
	ls := e.volumeChange
	e.mu.RUnlock()
	for _, fn := range ls {
		fn(q, oldVolume, newVolume)
	}
}
