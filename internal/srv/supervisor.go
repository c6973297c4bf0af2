package srv

import (
	"context"
	"fmt"
	"github.com/jypelle/piradio/internal/srv/device"
	"github.com/sirupsen/logrus"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Supervisor runs the playback daemon beside a companion process, usually the display.
// When either one ends, the other one is stopped.
type Supervisor struct {
	command     []string
	stopTimeout time.Duration
}

func NewSupervisor(command []string, stopTimeout time.Duration) *Supervisor {
	return &Supervisor{command: command, stopTimeout: stopTimeout}
}

// Run calls run with a context canceled when the companion exits.
func (s *Supervisor) Run(ctx context.Context, run func(ctx context.Context) error) error {
	cmd := exec.Command(s.command[0], s.command[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logrus.Infof("Start companion: %s", strings.Join(s.command, " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("unable to start companion: %w", err)
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	companionCtx, stopCompanion := context.WithCancel(context.Background())
	defer stopCompanion()

	companionDone := make(chan error, 1)
	go func() {
		err := device.WaitProcess(companionCtx, cmd, s.stopTimeout)
		if companionCtx.Err() == nil {
			logrus.Infof("Companion exited (%v), stopping", err)
			cancelRun()
		}
		companionDone <- err
	}()

	err := run(runCtx)

	logrus.Infof("Stop companion")
	stopCompanion()
	<-companionDone
	return err
}
