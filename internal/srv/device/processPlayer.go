package device

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// ProcessPlayer delegates playback to an external player, one process per track.
type ProcessPlayer struct {
	lock        sync.Mutex
	command     []string
	stopTimeout time.Duration
	currentCmd  *exec.Cmd
}

func NewProcessPlayer(command []string, stopTimeout time.Duration) *ProcessPlayer {
	return &ProcessPlayer{
		command:     append([]string{}, command...),
		stopTimeout: stopTimeout,
	}
}

func (d *ProcessPlayer) Name() string {
	return filepath.Base(d.command[0])
}

func (d *ProcessPlayer) Play(ctx context.Context, filename string) error {
	args := append(append([]string{}, d.command[1:]...), filename)
	cmd := exec.Command(d.command[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPlaybackStart, d.Name(), err)
	}

	d.lock.Lock()
	d.currentCmd = cmd
	d.lock.Unlock()
	defer func() {
		d.lock.Lock()
		if d.currentCmd == cmd {
			d.currentCmd = nil
		}
		d.lock.Unlock()
	}()

	err := WaitProcess(ctx, cmd, d.stopTimeout)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s exited: %w", d.Name(), err)
	}
	return nil
}

func (d *ProcessPlayer) IsRunning() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.currentCmd != nil
}

func (d *ProcessPlayer) Close() error {
	return nil
}
