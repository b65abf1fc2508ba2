package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/playerhooks/internal/config"
	"github.com/jask/playerhooks/internal/database/repository"
	"github.com/jask/playerhooks/internal/hookctx"
	"github.com/jask/playerhooks/internal/hooks"
	"github.com/jask/playerhooks/internal/player"
	"github.com/jask/playerhooks/internal/prefs"
	"github.com/jask/playerhooks/internal/service"
)

const (
	barWidth     = 24
	historyLimit = 8
)

// App is a volume mixer over every queue of one player.
type App struct {
	ctx      context.Context
	hooks    *hooks.Hooks
	player   *player.Player
	services Services
	step     int
	state    appState
	modal    modalState
	queues   []queueRow
	cursor   int
	history  []repository.VolumeChange
	muted    map[string]int // guild id -> volume before mute
	status   string
}

type Services struct {
	Volume      *service.VolumeService
	Maintenance *service.MaintenanceService
}

type queueRow struct {
	Guild  player.Guild
	Volume int
}

type appState string

const (
	viewMixer   appState = "mixer"
	viewHistory appState = "history"
)

type modalState string

const (
	modalNone         modalState = ""
	modalConfirmReset modalState = "confirmReset"
)

func New(ctx context.Context, cfg config.Config, h *hooks.Hooks, p *player.Player, services Services) *App {
	step := cfg.Control.VolumeStep
	if step <= 0 {
		step = 5
	}
	return &App{
		ctx:      ctx,
		hooks:    h,
		player:   p,
		services: services,
		step:     step,
		state:    viewMixer,
		muted:    make(map[string]int),
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadQueues()
}

func (a *App) loadQueues() tea.Cmd {
	return func() tea.Msg {
		all := a.player.Nodes().All()
		rows := make([]queueRow, 0, len(all))
		for _, q := range all {
			rows = append(rows, queueRow{Guild: q.Guild(), Volume: q.Volume()})
		}
		return queuesMsg(rows)
	}
}

func (a *App) loadHistory(guildID string) tea.Cmd {
	return func() tea.Msg {
		if a.services.Volume == nil {
			return historyMsg(nil)
		}
		list, err := a.services.Volume.Recent(a.ctx, guildID, historyLimit)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(list)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "up", "k":
			if a.cursor > 0 {
				a.cursor--
			}
			return a, a.refreshHistory()
		case "down", "j":
			if a.cursor < len(a.queues)-1 {
				a.cursor++
			}
			return a, a.refreshHistory()
		case "right", "l", "+":
			if row, ok := a.selected(); ok {
				return a, a.volumeCmd(row.Guild, a.shift(a.step))
			}
		case "left", "h", "-":
			if row, ok := a.selected(); ok {
				return a, a.volumeCmd(row.Guild, a.shift(-a.step))
			}
		case "m":
			if row, ok := a.selected(); ok {
				return a, a.toggleMute(row)
			}
		case "v":
			if a.state == viewHistory {
				a.state = viewMixer
				return a, nil
			}
			a.state = viewHistory
			return a, a.refreshHistory()
		case "s":
			return a, a.snapshotCmd()
		case "r":
			return a, a.loadQueues()
		case "x":
			a.modal = modalConfirmReset
		}
	case queuesMsg:
		a.queues = []queueRow(m)
		if a.cursor >= len(a.queues) {
			a.cursor = 0
		}
	case historyMsg:
		a.history = []repository.VolumeChange(m)
	case volumeChangedMsg:
		a.status = fmt.Sprintf("%s volume %d", m.guild, m.volume)
		return a, tea.Batch(a.loadQueues(), a.refreshHistory())
	case resetDoneMsg:
		// live queues keep their volume, so muted rows can still be restored
		a.history = nil
		a.status = "stored volumes cleared"
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y":
		a.modal = modalNone
		return a, a.resetCmd()
	case "n", "esc":
		a.modal = modalNone
	}
	return a, nil
}

func (a *App) selected() (queueRow, bool) {
	if a.cursor < 0 || a.cursor >= len(a.queues) {
		return queueRow{}, false
	}
	return a.queues[a.cursor], true
}

func (a *App) refreshHistory() tea.Cmd {
	if a.state != viewHistory {
		return nil
	}
	row, ok := a.selected()
	if !ok {
		return nil
	}
	return a.loadHistory(row.Guild.ID)
}

func (a *App) shift(delta int) hooks.VolumeUpdate {
	return hooks.Shift(delta, a.player.MaxVolume())
}

func (a *App) toggleMute(row queueRow) tea.Cmd {
	if prev, ok := a.muted[row.Guild.ID]; ok {
		delete(a.muted, row.Guild.ID)
		return a.volumeCmd(row.Guild, hooks.Literal(prev))
	}
	a.muted[row.Guild.ID] = row.Volume
	return a.volumeCmd(row.Guild, hooks.Literal(0))
}

// volumeCmd applies u to the guild's queue from inside a hooks context for
// that guild. Commands run on their own goroutines, so the write holds the
// guild's hooks lock.
func (a *App) volumeCmd(g player.Guild, u hooks.VolumeUpdate) tea.Cmd {
	return func() tea.Msg {
		unlock := a.hooks.LockGuild(g)
		defer unlock()

		var (
			applied, resolved bool
			volume            int
		)
		err := hookctx.Provide(a.ctx, hookctx.HooksCtx{Guild: g}, func(ctx context.Context) error {
			vol, err := a.hooks.UseVolume(ctx, nil)
			if err != nil {
				return err
			}
			applied, resolved = vol.Set(u)
			volume, _ = vol.Get()
			return nil
		})
		if err != nil {
			return errMsg{err}
		}
		if !resolved {
			return statusMsg("no queue for " + g.String())
		}
		if !applied {
			return statusMsg(fmt.Sprintf("%s rejected volume change", g))
		}
		return volumeChangedMsg{guild: g, volume: volume}
	}
}

func (a *App) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		if a.services.Volume == nil {
			return errMsg{fmt.Errorf("volume service not configured")}
		}
		vols, err := a.services.Volume.Snapshot(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		if err := prefs.SaveVolumes(vols); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("saved %d volumes", len(vols)))
	}
}

func (a *App) resetCmd() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if a.services.Maintenance == nil {
				return errMsg{fmt.Errorf("maintenance not configured")}
			}
			if err := a.services.Maintenance.Reset(a.ctx); err != nil {
				return errMsg{err}
			}
			return resetDoneMsg{}
		},
		a.loadQueues(),
	)
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewHistory:
		body = a.renderHistory()
	default:
		body = a.renderMixer()
	}
	if a.modal == modalConfirmReset {
		body += "\n\n" + titleStyle.Render("Clear stored volumes?") + "\nLive queues keep their volume.\n[y] Yes  [n] No"
	}
	return body
}

func (a *App) renderMixer() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Mixer") + "\n")
	if len(a.queues) == 0 {
		b.WriteString(dimStyle.Render("no queues") + "\n")
	}
	for i, row := range a.queues {
		marker := " "
		if i == a.cursor {
			marker = ">"
		}
		label := fmt.Sprintf("%-24s", truncate(row.Guild.String(), 24))
		if i == a.cursor {
			label = selectedStyle.Render(label)
		}
		mute := ""
		if _, ok := a.muted[row.Guild.ID]; ok {
			mute = dimStyle.Render(" muted")
		}
		fmt.Fprintf(&b, "%s %s %s %3d%s\n", marker, label, volumeBar(row.Volume, a.player.MaxVolume()), row.Volume, mute)
	}
	b.WriteString("[←/→] Volume  [m] Mute  [v] History  [s] Save snapshot  [x] Clear stored  [q] Quit")
	if a.status != "" {
		b.WriteString("\n" + a.status)
	}
	return b.String()
}

func (a *App) renderHistory() string {
	row, ok := a.selected()
	if !ok {
		return titleStyle.Render("History") + "\n" + dimStyle.Render("no queue selected") + "\n[v] Back"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("History - "+row.Guild.String()) + "\n")
	if len(a.history) == 0 {
		b.WriteString(dimStyle.Render("no changes recorded") + "\n")
	}
	for _, c := range a.history {
		fmt.Fprintf(&b, "%s  %3d -> %3d\n", c.CreatedAt.Local().Format("2006-01-02 15:04:05"), c.OldVolume, c.NewVolume)
	}
	b.WriteString("[↑/↓] Guild  [←/→] Volume  [v] Mixer  [q] Quit")
	if a.status != "" {
		b.WriteString("\n" + a.status)
	}
	return b.String()
}

func volumeBar(volume, max int) string {
	if max <= 0 {
		max = player.MaxVolume
	}
	filled := volume * barWidth / max
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

type queuesMsg []queueRow

type historyMsg []repository.VolumeChange

type volumeChangedMsg struct {
	guild  player.Guild
	volume int
}

type resetDoneMsg struct{}

type statusMsg string

type errMsg struct{ error }

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)
