package repository

import (
	"context"
	"database/sql"
	"errors"
)

// GuildRepo handles guilds.
type GuildRepo struct {
	db *sql.DB
}

func NewGuildRepo(db *sql.DB) *GuildRepo { return &GuildRepo{db: db} }

func (r *GuildRepo) Upsert(ctx context.Context, g Guild) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO guilds(id, name, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name;
	`, g.ID, g.Name)
	return err
}

func (r *GuildRepo) ByID(ctx context.Context, id string) (*Guild, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM guilds WHERE id = ?`, id)
	var g Guild
	if err := row.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *GuildRepo) List(ctx context.Context) ([]Guild, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM guilds ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Guild
	for rows.Next() {
		var g Guild
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
