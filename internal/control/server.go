// Package control serves guild volume commands over a websocket.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jask/playerhooks/internal/hookctx"
	"github.com/jask/playerhooks/internal/hooks"
	"github.com/jask/playerhooks/internal/player"
)

const defaultStep = 5

// Server applies Requests through the hook layer. Each command runs inside a
// hooks context for its guild, and writes hold the guild's hooks lock so
// relative adjustments from other connections or the TUI are not lost.
type Server struct {
	hooks    *hooks.Hooks
	player   *player.Player
	logger   *slog.Logger
	step     int
	upgrader websocket.Upgrader
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithStep sets the amount "up" and "down" move the volume by.
func WithStep(step int) Option {
	return func(s *Server) {
		if step > 0 {
			s.step = step
		}
	}
}

// WithCheckOrigin replaces the upgrader's origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// NewServer creates a Server. p is used to look guilds up by id so the hooks
// context carries the full guild.
func NewServer(h *hooks.Hooks, p *player.Player, opts ...Option) *Server {
	s := &Server{
		hooks:  h,
		player: p,
		logger: slog.Default(),
		step:   defaultStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeHTTP upgrades the connection and answers one Response per Request
// until the client goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("control upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	s.logger.Info("control client connected", "remote", r.RemoteAddr)

	ctx := r.Context()
	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("control read failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		resp := s.Handle(ctx, req)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("control write failed", "remote", r.RemoteAddr, "err", err)
			return
		}
	}
}

// Handle applies one request.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	resp := Response{Op: req.Op, Guild: req.Guild}
	update, err := s.update(req)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	q, ok := s.player.Nodes().Resolve(player.GuildID(req.Guild))
	if !ok {
		err := fmt.Errorf("%w %q", ErrUnknownGuild, req.Guild)
		if g, ok := s.player.Nodes().Suggest(req.Guild); ok {
			err = fmt.Errorf("%w (did you mean %s?)", err, g)
		}
		resp.Error = err.Error()
		return resp
	}

	if update != nil {
		unlock := s.hooks.LockGuild(q)
		defer unlock()
	}

	err = hookctx.Provide(ctx, hookctx.HooksCtx{Guild: q.Guild()}, func(ctx context.Context) error {
		vol, err := s.hooks.UseVolume(ctx, nil)
		if err != nil {
			return err
		}
		if update != nil {
			applied, resolved := vol.Set(update)
			if !resolved {
				return fmt.Errorf("%w %q", ErrUnknownGuild, req.Guild)
			}
			resp.OK = applied
		}
		v, ok := vol.Get()
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownGuild, req.Guild)
		}
		if update == nil {
			resp.OK = true
		}
		resp.Volume = v
		return nil
	})
	if err != nil {
		resp.OK = false
		resp.Error = err.Error()
	}
	if update != nil {
		s.logger.Debug("control volume change", "guild", req.Guild, "op", req.Op, "volume", resp.Volume, "ok", resp.OK)
	}
	return resp
}

// update maps a request onto a volume update. A nil update means read only.
func (s *Server) update(req Request) (hooks.VolumeUpdate, error) {
	switch req.Op {
	case OpGet:
		return nil, nil
	case OpSet:
		if req.Volume == nil {
			return nil, fmt.Errorf("%w: set needs volume", ErrBadRequest)
		}
		return hooks.Literal(*req.Volume), nil
	case OpAdjust:
		if req.Delta == nil {
			return nil, fmt.Errorf("%w: adjust needs delta", ErrBadRequest)
		}
		return hooks.Shift(*req.Delta, s.player.MaxVolume()), nil
	case OpUp:
		return hooks.Shift(s.step, s.player.MaxVolume()), nil
	case OpDown:
		return hooks.Shift(-s.step, s.player.MaxVolume()), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, req.Op)
	}
}

// Run serves the control socket at /ws on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("control server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
