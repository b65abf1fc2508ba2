package player

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/agnivade/levenshtein"
)

// VolumeSource supplies the starting volume for a newly created queue.
type VolumeSource func(g Guild) (int, bool)

// NodeManager holds one GuildQueue per guild.
type NodeManager struct {
	player *Player

	mu     sync.RWMutex
	queues map[string]*GuildQueue
	source VolumeSource
}

func newNodeManager(p *Player) *NodeManager {
	return &NodeManager{player: p, queues: make(map[string]*GuildQueue)}
}

// UseVolumeSource installs fn as the lookup for starting volumes. Queues that
// already exist are not touched.
func (m *NodeManager) UseVolumeSource(fn VolumeSource) {
	m.mu.Lock()
	m.source = fn
	m.mu.Unlock()
}

// QueueOption configures a queue at creation.
type QueueOption func(*GuildQueue)

// WithVolume overrides the starting volume, taking precedence over the
// installed VolumeSource.
func WithVolume(v int) QueueOption {
	return func(q *GuildQueue) {
		q.node.volume = clamp(v, 0, q.node.max)
		q.explicitVolume = true
	}
}

func WithMetadata(md any) QueueOption {
	return func(q *GuildQueue) { q.Metadata = md }
}

// Create returns the guild's queue, creating it if needed. A second call for
// the same guild returns the existing queue and ignores opts.
func (m *NodeManager) Create(g Guild, opts ...QueueOption) *GuildQueue {
	m.mu.Lock()
	if q, ok := m.queues[g.ID]; ok {
		m.mu.Unlock()
		return q
	}
	q := &GuildQueue{guild: g, player: m.player}
	q.node = &PlayerNode{
		queue:  q,
		volume: m.player.opts.defaultVolume,
		max:    m.player.opts.maxVolume,
	}
	for _, fn := range opts {
		fn(q)
	}
	if !q.explicitVolume && m.source != nil {
		if v, ok := m.source(g); ok {
			q.node.volume = clamp(v, 0, q.node.max)
		}
	}
	m.queues[g.ID] = q
	m.mu.Unlock()

	m.player.opts.logger.Debug("queue created", "guild", g.ID, "volume", q.node.volume)
	m.player.events.emitQueueCreated(q)
	return q
}

// Resolve looks up the queue for node. A *GuildQueue resolves only if it is
// still the live queue for its guild.
func (m *NodeManager) Resolve(node NodeResolvable) (*GuildQueue, bool) {
	if node == nil {
		return nil, false
	}
	gq, isQueue := node.(*GuildQueue)
	if isQueue && gq == nil {
		return nil, false
	}
	m.mu.RLock()
	q, ok := m.queues[node.NodeID()]
	m.mu.RUnlock()
	if isQueue && q != gq {
		return nil, false
	}
	return q, ok
}

func (m *NodeManager) Has(node NodeResolvable) bool {
	_, ok := m.Resolve(node)
	return ok
}

// Delete removes the guild's queue. The removed queue rejects further volume
// changes.
func (m *NodeManager) Delete(node NodeResolvable) bool {
	q, ok := m.Resolve(node)
	if !ok {
		return false
	}
	m.mu.Lock()
	if m.queues[q.guild.ID] != q {
		m.mu.Unlock()
		return false
	}
	delete(m.queues, q.guild.ID)
	m.mu.Unlock()
	q.deleted.Store(true)
	q.node.Disconnect()

	m.player.opts.logger.Debug("queue deleted", "guild", q.guild.ID)
	m.player.events.emitQueueDeleted(q)
	return true
}

// All returns the live queues ordered by guild id.
func (m *NodeManager) All() []*GuildQueue {
	m.mu.RLock()
	out := make([]*GuildQueue, 0, len(m.queues))
	for _, q := range m.queues {
		out = append(out, q)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].guild.ID < out[j].guild.ID })
	return out
}

// Suggest returns the guild whose name or id is closest to query. Matches
// further than half the query length away are rejected.
func (m *NodeManager) Suggest(query string) (Guild, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Guild{}, false
	}
	best, bestDist := Guild{}, -1
	for _, gq := range m.All() {
		for _, cand := range []string{gq.guild.Name, gq.guild.ID} {
			if cand == "" {
				continue
			}
			d := levenshtein.ComputeDistance(q, strings.ToLower(cand))
			if bestDist < 0 || d < bestDist {
				best, bestDist = gq.guild, d
			}
		}
	}
	if bestDist < 0 || bestDist > len(q)/2 {
		return Guild{}, false
	}
	return best, true
}

// GuildQueue is a guild's playback queue.
type GuildQueue struct {
	guild          Guild
	player         *Player
	node           *PlayerNode
	deleted        atomic.Bool
	explicitVolume bool

	Metadata any
}

func (q *GuildQueue) NodeID() string { return q.guild.ID }

func (q *GuildQueue) Guild() Guild { return q.guild }

func (q *GuildQueue) Node() *PlayerNode { return q.node }

func (q *GuildQueue) Deleted() bool { return q.deleted.Load() }

// Volume and SetVolume implement Queue by delegating to the node.
func (q *GuildQueue) Volume() int { return q.node.Volume() }

func (q *GuildQueue) SetVolume(v int) bool { return q.node.SetVolume(v) }

// PlayerNode holds the playback state of a queue.
type PlayerNode struct {
	queue     *GuildQueue
	max       int
	connected atomic.Bool

	// writeMu orders writes and their events, so listeners see changes in
	// the order they were applied.
	writeMu sync.Mutex

	mu     sync.RWMutex
	volume int
}

func (n *PlayerNode) IsConnected() bool { return n.connected.Load() }

// Connect marks the node as attached to a voice connection. A deleted queue
// cannot connect.
func (n *PlayerNode) Connect() bool {
	if n.queue.Deleted() {
		return false
	}
	n.connected.Store(true)
	return true
}

func (n *PlayerNode) Disconnect() { n.connected.Store(false) }

func (n *PlayerNode) Volume() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.volume
}

// SetVolume applies v and reports whether it was accepted. Values outside
// [0, max] and writes to a deleted queue are rejected.
//
// Volume listeners run before SetVolume returns and must not call SetVolume
// on the same node.
func (n *PlayerNode) SetVolume(v int) bool {
	if n.queue.Deleted() || v < 0 || v > n.max {
		return false
	}
	n.writeMu.Lock()
	defer n.writeMu.Unlock()

	n.mu.Lock()
	old := n.volume
	n.volume = v
	n.mu.Unlock()

	if old != v {
		n.queue.player.events.emitVolumeChange(n.queue, old, v)
	}
	return true
}
