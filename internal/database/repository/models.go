package repository

import "time"

// Guild represents a guild row.
type Guild struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// GuildVolume is the last volume stored for a guild.
type GuildVolume struct {
	GuildID   string
	Volume    int
	UpdatedAt time.Time
}

// VolumeChange is one entry of a guild's volume history.
type VolumeChange struct {
	ID        string
	GuildID   string
	OldVolume int
	NewVolume int
	CreatedAt time.Time
}
