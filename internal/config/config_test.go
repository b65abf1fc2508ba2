package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PLAYERHOOKS_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "playerhooks", "playerhooks.db"), cfg.Database.Path)
	require.Equal(t, 100, cfg.Player.DefaultVolume)
	require.Equal(t, 200, cfg.Player.MaxVolume)
	require.Empty(t, cfg.Player.Guilds)
	require.Empty(t, cfg.Control.ListenAddr)
	require.Equal(t, 5, cfg.Control.VolumeStep)
	require.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[player]
default_volume = 60
max_volume = 150

[[player.guilds]]
id = "111"
name = "Lounge"

[[player.guilds]]
id = "222"
name = "Karaoke"

[control]
listen_addr = "127.0.0.1:7070"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("PLAYERHOOKS_CONFIG", path)
	t.Setenv("PLAYERHOOKS_CONTROL_VOLUME_STEP", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 60, cfg.Player.DefaultVolume)
	require.Equal(t, 150, cfg.Player.MaxVolume)
	require.Equal(t, []GuildConfig{{ID: "111", Name: "Lounge"}, {ID: "222", Name: "Karaoke"}}, cfg.Player.Guilds)
	require.Equal(t, "127.0.0.1:7070", cfg.Control.ListenAddr)
	require.Equal(t, 10, cfg.Control.VolumeStep)
	require.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoadRejectsBadVolumes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[player]\ndefault_volume = 300\nmax_volume = 200\n"), 0o600))
	t.Setenv("PLAYERHOOKS_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("PLAYERHOOKS_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	_, err := Load()
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("PLAYERHOOKS_CONFIG", path)

	want := Config{
		Database: DatabaseConfig{Path: "/tmp/p.db", Migrations: "migrations"},
		Player: PlayerConfig{
			DefaultVolume: 80,
			MaxVolume:     120,
			Guilds:        []GuildConfig{{ID: "1", Name: "One"}},
		},
		Control: ControlConfig{ListenAddr: ":9000", VolumeStep: 3},
		Log:     LogConfig{Level: "warn"},
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
