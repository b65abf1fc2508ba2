package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/playerhooks/internal/database"
	"github.com/jask/playerhooks/internal/database/repository"
)

func setupDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, ctx
}

func TestGuildRepo(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	guilds := repository.NewGuildRepo(db)

	require.NoError(t, guilds.Upsert(ctx, repository.Guild{ID: "2", Name: "Two"}))
	require.NoError(t, guilds.Upsert(ctx, repository.Guild{ID: "1", Name: "One"}))
	require.NoError(t, guilds.Upsert(ctx, repository.Guild{ID: "1", Name: "Uno"}))

	g, err := guilds.ByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "Uno", g.Name)

	missing, err := guilds.ByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	list, err := guilds.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "1", list[0].ID)
}

func TestVolumeRepo(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	require.NoError(t, repository.NewGuildRepo(db).Upsert(ctx, repository.Guild{ID: "g1"}))
	volumes := repository.NewVolumeRepo(db)

	v, err := volumes.Get(ctx, "g1")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, volumes.Upsert(ctx, "g1", 40))
	require.NoError(t, volumes.Upsert(ctx, "g1", 65))
	v, err = volumes.Get(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, 65, v.Volume)

	// foreign key on guilds
	require.Error(t, volumes.Upsert(ctx, "unknown", 10))

	list, err := volumes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestHistoryRepoNewestFirst(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	require.NoError(t, repository.NewGuildRepo(db).Upsert(ctx, repository.Guild{ID: "g1"}))
	history := repository.NewHistoryRepo(db)

	base := database.Now()
	for i, step := range [][2]int{{100, 80}, {80, 90}, {90, 20}} {
		require.NoError(t, history.Add(ctx, repository.VolumeChange{
			ID:        "h" + string(rune('a'+i)),
			GuildID:   "g1",
			OldVolume: step[0],
			NewVolume: step[1],
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	all, err := history.ListByGuild(ctx, "g1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, 20, all[0].NewVolume)

	last, err := history.ListByGuild(ctx, "g1", 1)
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.Equal(t, "hc", last[0].ID)

	none, err := history.ListByGuild(ctx, "other", 0)
	require.NoError(t, err)
	require.Empty(t, none)
}
