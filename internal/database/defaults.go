package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/playerhooks/internal/database/repository"
)

// GuildID returns id, or a stable id derived from name when id is blank.
func GuildID(id, name string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("guild:"+strings.TrimSpace(name))).String()
}

// SeedGuilds makes sure every configured guild has a row and a stored volume.
// Existing volumes are left alone, so it is safe to run on every startup.
func SeedGuilds(ctx context.Context, db *sql.DB, guilds []repository.Guild, defaultVolume int) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, g := range guilds {
			id := GuildID(g.ID, g.Name)
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO guilds(id, name, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET name=excluded.name;
			`, id, g.Name); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO guild_volumes(guild_id, volume, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(guild_id) DO NOTHING;
			`, id, defaultVolume); err != nil {
				return err
			}
		}
		return nil
	})
}
