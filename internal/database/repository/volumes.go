package repository

import (
	"context"
	"database/sql"
	"errors"
)

// VolumeRepo stores the current volume per guild.
type VolumeRepo struct {
	db *sql.DB
}

func NewVolumeRepo(db *sql.DB) *VolumeRepo { return &VolumeRepo{db: db} }

// Upsert stores the guild's volume. The guild row must already exist.
func (r *VolumeRepo) Upsert(ctx context.Context, guildID string, volume int) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO guild_volumes(guild_id, volume, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(guild_id) DO UPDATE SET
	 volume=excluded.volume,
	 updated_at=CURRENT_TIMESTAMP;
	`, guildID, volume)
	return err
}

// Get returns nil, nil when the guild has no stored volume.
func (r *VolumeRepo) Get(ctx context.Context, guildID string) (*GuildVolume, error) {
	row := r.db.QueryRowContext(ctx, `SELECT guild_id, volume, updated_at FROM guild_volumes WHERE guild_id = ?`, guildID)
	var v GuildVolume
	if err := row.Scan(&v.GuildID, &v.Volume, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VolumeRepo) List(ctx context.Context) ([]GuildVolume, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT guild_id, volume, updated_at FROM guild_volumes ORDER BY guild_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GuildVolume
	for rows.Next() {
		var v GuildVolume
		if err := rows.Scan(&v.GuildID, &v.Volume, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
