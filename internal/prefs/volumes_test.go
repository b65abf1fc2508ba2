package prefs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/playerhooks/internal/database/repository"
)

func TestVolumesSnapshot(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	vols, err := LoadVolumes()
	require.NoError(t, err)
	require.Nil(t, vols)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := []repository.GuildVolume{{GuildID: "g1", Volume: 40, UpdatedAt: at}}
	require.NoError(t, SaveVolumes(want))

	got, err := LoadVolumes()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
