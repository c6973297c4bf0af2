package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/srv/status"
	"strings"
	"time"
)

const (
	defaultWidth = 60
	minWidth     = 20
	barCount     = 48
)

var barRunes = []rune("▁▂▃▄▅▆▇█")

var playFrames = []string{"▮ ", "▯ ", "▮ "}

// Model is the now playing screen, fed by a status watcher.
type Model struct {
	snapshots  <-chan status.Snapshot
	tickRate   time.Duration
	nowPlaying *apimodel.NowPlaying
	now        time.Time
	width      int
	spinner    spinner.Model
	quitting   bool
}

// Messages
type snapshotMsg status.Snapshot
type watchClosedMsg struct{}
type tickMsg time.Time

func NewModel(snapshots <-chan status.Snapshot, tickRate time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle

	return Model{
		snapshots: snapshots,
		tickRate:  tickRate,
		now:       time.Now(),
		spinner:   s,
	}
}

// Commands
func (m Model) waitSnapshot() tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-m.snapshots
		if !ok {
			return watchClosedMsg{}
		}
		return snapshotMsg(snapshot)
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitSnapshot(), m.tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case snapshotMsg:
		m.nowPlaying = msg.NowPlaying
		return m, m.waitSnapshot()
	case watchClosedMsg:
		m.quitting = true
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		return m, m.tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return InfoStyle.Render("Exiting...") + "\n"
	}

	width := m.width - 4
	if m.width == 0 {
		width = defaultWidth
	}
	width = max(width, minWidth)

	if m.nowPlaying == nil {
		return Panel(Yellow, width).
			Padding(1, 2).
			Render(InfoStyle.Render(m.spinner.View() + " Waiting for now_playing.json...")) + "\n"
	}

	title := m.nowPlaying.Title
	if title == "" {
		title = "Unknown"
	}
	selectedBy := m.nowPlaying.SelectedBy
	if selectedBy == "" {
		selectedBy = "Unknown"
	}

	frame := playFrames[int(m.now.UnixMilli()/500)%len(playFrames)]
	info := strings.Join([]string{
		"⏱ " + status.FormatElapsed(m.nowPlaying.Elapsed(m.now)),
		"🎧 " + selectedBy,
		frame + "Playing",
	}, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		Panel(Cyan, width).Padding(1, 2).Render(TitleStyle.Render(title)),
		Panel(Green, width).Render(BarsStyle.Render(pulseBars(m.now, min(barCount, width-2)))),
		Panel(Yellow, width).Render(InfoStyle.Render(info)),
		HelpStyle.Render("q: quit"),
	) + "\n"
}

func pulseBars(now time.Time, count int) string {
	var sb strings.Builder
	for _, level := range status.PulseLevels(now, count) {
		sb.WriteRune(barRunes[int(level*float64(len(barRunes)-1))])
	}
	return sb.String()
}
