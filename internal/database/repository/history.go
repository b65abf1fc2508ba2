package repository

import (
	"context"
	"database/sql"
)

// HistoryRepo records volume changes.
type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

func (r *HistoryRepo) Add(ctx context.Context, c VolumeChange) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO volume_history(id, guild_id, old_volume, new_volume, created_at)
	VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.GuildID, c.OldVolume, c.NewVolume, c.CreatedAt)
	return err
}

// ListByGuild returns the newest changes first. limit <= 0 returns all.
func (r *HistoryRepo) ListByGuild(ctx context.Context, guildID string, limit int) ([]VolumeChange, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, guild_id, old_volume, new_volume, created_at
	FROM volume_history WHERE guild_id = ?
	ORDER BY created_at DESC, rowid DESC
	LIMIT ?`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []VolumeChange
	for rows.Next() {
		var c VolumeChange
		if err := rows.Scan(&c.ID, &c.GuildID, &c.OldVolume, &c.NewVolume, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
