package tui

import (
	"context"
	"errors"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jypelle/piradio/internal/srv/status"
	"github.com/sirupsen/logrus"
	"time"
)

const refreshRate = 100 * time.Millisecond

// Run shows the now playing file in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, filename string, pollInterval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := status.NewWatcher(filename, pollInterval)
	logrus.Debugf("Watching %s", filename)

	p := tea.NewProgram(NewModel(watcher.Watch(ctx), refreshRate), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
