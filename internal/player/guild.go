package player

// NodeResolvable is anything that identifies a guild queue: a GuildID, a
// Guild, or the *GuildQueue itself.
type NodeResolvable interface {
	NodeID() string
}

// GuildID is a bare guild snowflake.
type GuildID string

func (g GuildID) NodeID() string { return string(g) }

// Guild is the tenant a queue belongs to.
type Guild struct {
	ID   string
	Name string
}

func (g Guild) NodeID() string { return g.ID }

func (g Guild) String() string {
	if g.Name == "" {
		return g.ID
	}
	return g.Name + " (" + g.ID + ")"
}
