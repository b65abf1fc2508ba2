package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/playerhooks/internal/config"
	"github.com/jask/playerhooks/internal/control"
	"github.com/jask/playerhooks/internal/database"
	"github.com/jask/playerhooks/internal/database/repository"
	"github.com/jask/playerhooks/internal/hooks"
	"github.com/jask/playerhooks/internal/player"
	"github.com/jask/playerhooks/internal/prefs"
	"github.com/jask/playerhooks/internal/registry"
	"github.com/jask/playerhooks/internal/service"
	"github.com/jask/playerhooks/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// the TUI owns stdout, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrationsWithDB(db, cfg.Database.Migrations); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	guilds := make([]repository.Guild, 0, len(cfg.Player.Guilds))
	for _, g := range cfg.Player.Guilds {
		guilds = append(guilds, repository.Guild{ID: database.GuildID(g.ID, g.Name), Name: g.Name})
	}

	// services
	volumeSvc := &service.VolumeService{
		Guilds:  repository.NewGuildRepo(db),
		Volumes: repository.NewVolumeRepo(db),
		History: repository.NewHistoryRepo(db),
		Logger:  logger,
	}
	maintenance := &service.MaintenanceService{DB: db}

	// the prefs snapshot fills in volumes the db lost
	snapshot, err := prefs.LoadVolumes()
	if err != nil {
		logger.Warn("load volume snapshot", "err", err)
	}
	n, err := volumeSvc.Restore(ctx, db, guilds, cfg.Player.DefaultVolume, snapshot)
	if err != nil {
		log.Fatalf("restore volumes: %v", err)
	}
	if n > 0 {
		logger.Info("restored volumes from snapshot", "count", n)
	}

	p := player.New(
		player.WithDefaultVolume(cfg.Player.DefaultVolume),
		player.WithMaxVolume(cfg.Player.MaxVolume),
		player.WithLogger(logger),
	)
	volumeSvc.Attach(ctx, p)
	for _, g := range guilds {
		p.Nodes().Create(player.Guild{ID: g.ID, Name: g.Name})
	}

	reg := registry.New[player.Instance](logger)
	reg.Register(p.ID(), p)
	h := hooks.New(reg)
	h.Bind(p)

	if cfg.Control.ListenAddr != "" {
		srv := control.NewServer(h, p, control.WithLogger(logger), control.WithStep(cfg.Control.VolumeStep))
		go func() {
			if err := srv.Run(ctx, cfg.Control.ListenAddr); err != nil {
				logger.Error("control server stopped", "err", err)
			}
		}()
	}

	prog := tea.NewProgram(tui.New(ctx, cfg, h, p, tui.Services{Volume: volumeSvc, Maintenance: maintenance}),
		tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
