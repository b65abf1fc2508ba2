package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jask/playerhooks/internal/database"
	"github.com/jask/playerhooks/internal/database/repository"
	"github.com/jask/playerhooks/internal/player"
)

// VolumeService keeps guild volumes in sqlite in step with a Player.
type VolumeService struct {
	Guilds  *repository.GuildRepo
	Volumes *repository.VolumeRepo
	History *repository.HistoryRepo
	Logger  *slog.Logger
}

func (s *VolumeService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Attach subscribes to p. New queues start at their stored volume, and every
// volume change is stored with a history entry. ctx bounds the database calls
// made from listeners for as long as p lives.
func (s *VolumeService) Attach(ctx context.Context, p *player.Player) {
	p.Nodes().UseVolumeSource(func(g player.Guild) (int, bool) {
		v, err := s.Volumes.Get(ctx, g.ID)
		if err != nil {
			s.logger().Warn("load stored volume", "guild", g.ID, "err", err)
			return 0, false
		}
		if v == nil {
			return 0, false
		}
		return v.Volume, true
	})
	p.Events().OnQueueCreated(func(q *player.GuildQueue) {
		g := q.Guild()
		if err := s.Guilds.Upsert(ctx, repository.Guild{ID: g.ID, Name: g.Name}); err != nil {
			s.logger().Warn("store guild", "guild", g.ID, "err", err)
		}
	})
	p.Events().OnVolumeChange(func(q *player.GuildQueue, oldVolume, newVolume int) {
		if err := s.Record(ctx, q.Guild(), oldVolume, newVolume); err != nil {
			s.logger().Warn("store volume", "guild", q.Guild().ID, "err", err)
		}
	})
}

// Record stores newVolume as the guild's volume and appends a history entry.
func (s *VolumeService) Record(ctx context.Context, g player.Guild, oldVolume, newVolume int) error {
	existing, err := s.Guilds.ByID(ctx, g.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := s.Guilds.Upsert(ctx, repository.Guild{ID: g.ID, Name: g.Name}); err != nil {
			return err
		}
	}
	if err := s.Volumes.Upsert(ctx, g.ID, newVolume); err != nil {
		return err
	}
	s.logger().Debug("volume stored", "guild", g.ID, "old", oldVolume, "new", newVolume)
	return s.History.Add(ctx, repository.VolumeChange{
		ID:        uuid.NewString(),
		GuildID:   g.ID,
		OldVolume: oldVolume,
		NewVolume: newVolume,
		CreatedAt: database.Now(),
	})
}

// Snapshot returns every stored volume.
func (s *VolumeService) Snapshot(ctx context.Context) ([]repository.GuildVolume, error) {
	return s.Volumes.List(ctx)
}

// ImportMissing stores volumes for guilds that have none yet and reports how
// many were written.
func (s *VolumeService) ImportMissing(ctx context.Context, vols []repository.GuildVolume) (int, error) {
	n := 0
	for _, v := range vols {
		existing, err := s.Volumes.Get(ctx, v.GuildID)
		if err != nil {
			return n, err
		}
		if existing != nil {
			continue
		}
		g, err := s.Guilds.ByID(ctx, v.GuildID)
		if err != nil {
			return n, err
		}
		if g == nil {
			if err := s.Guilds.Upsert(ctx, repository.Guild{ID: v.GuildID}); err != nil {
				return n, err
			}
		}
		if err := s.Volumes.Upsert(ctx, v.GuildID, v.Volume); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Restore prepares the store at startup. Snapshot volumes are imported for
// guilds with nothing stored, then the configured guilds are seeded at
// defaultVolume. Importing first keeps the seed from masking the snapshot.
func (s *VolumeService) Restore(ctx context.Context, db *sql.DB, guilds []repository.Guild, defaultVolume int, snapshot []repository.GuildVolume) (int, error) {
	n, err := s.ImportMissing(ctx, snapshot)
	if err != nil {
		return n, fmt.Errorf("import snapshot: %w", err)
	}
	if err := database.SeedGuilds(ctx, db, guilds, defaultVolume); err != nil {
		return n, fmt.Errorf("seed guilds: %w", err)
	}
	return n, nil
}

// Recent returns the latest volume changes for a guild.
func (s *VolumeService) Recent(ctx context.Context, guildID string, limit int) ([]repository.VolumeChange, error) {
	return s.History.ListByGuild(ctx, guildID, limit)
}
