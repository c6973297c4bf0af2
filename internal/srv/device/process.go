package device

import (
	"context"
	"github.com/sirupsen/logrus"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// WaitProcess waits for a started command. When ctx is done first, the process gets SIGTERM,
// then is killed once stopTimeout is over, and ctx.Err() is returned.
func WaitProcess(ctx context.Context, cmd *exec.Cmd, stopTimeout time.Duration) error {
	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	select {
	case err := <-exited:
		return err
	case <-ctx.Done():
		terminate(cmd, exited, stopTimeout)
		return ctx.Err()
	}
}

func terminate(cmd *exec.Cmd, exited chan error, stopTimeout time.Duration) {
	name := filepath.Base(cmd.Path)
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		logrus.Debugf("Unable to signal %s: %v", name, err)
	} else {
		select {
		case <-exited:
			return
		case <-time.After(stopTimeout):
			logrus.Warnf("%s still running after %s, killing it", name, stopTimeout)
		}
	}
	if err := cmd.Process.Kill(); err != nil {
		logrus.Errorf("Failed to kill process: %v", err)
	}
	<-exited
}
