package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Player   PlayerConfig
	Control  ControlConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path       string
	Migrations string
}

// PlayerConfig holds volume bounds and the guilds to open queues for.
type PlayerConfig struct {
	DefaultVolume int `mapstructure:"default_volume"`
	MaxVolume     int `mapstructure:"max_volume"`
	Guilds        []GuildConfig
}

type GuildConfig struct {
	ID   string
	Name string
}

// ControlConfig holds websocket control settings. An empty ListenAddr
// disables the server.
type ControlConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	VolumeStep int    `mapstructure:"volume_step"`
}

type LogConfig struct {
	Level string
}

// SlogLevel maps Level onto slog levels, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration from file and env. Env var overrides use prefix PLAYERHOOKS_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "playerhooks", "playerhooks.db"))
	v.SetDefault("database.migrations", "internal/database/migrations")
	v.SetDefault("player.default_volume", 100)
	v.SetDefault("player.max_volume", 200)
	v.SetDefault("player.guilds", []map[string]string{})
	v.SetDefault("control.listen_addr", "")
	v.SetDefault("control.volume_step", 5)
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PLAYERHOOKS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "playerhooks"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PLAYERHOOKS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Player.MaxVolume <= 0 {
		return Config{}, fmt.Errorf("player.max_volume must be positive, got %d", c.Player.MaxVolume)
	}
	if c.Player.DefaultVolume < 0 || c.Player.DefaultVolume > c.Player.MaxVolume {
		return Config{}, fmt.Errorf("player.default_volume %d outside 0..%d", c.Player.DefaultVolume, c.Player.MaxVolume)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("PLAYERHOOKS_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "playerhooks", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	guilds := make([]map[string]any, 0, len(cfg.Player.Guilds))
	for _, g := range cfg.Player.Guilds {
		guilds = append(guilds, map[string]any{"id": g.ID, "name": g.Name})
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("player.default_volume", cfg.Player.DefaultVolume)
	v.Set("player.max_volume", cfg.Player.MaxVolume)
	v.Set("player.guilds", guilds)
	v.Set("control.listen_addr", cfg.Control.ListenAddr)
	v.Set("control.volume_step", cfg.Control.VolumeStep)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
