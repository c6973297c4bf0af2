package config

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ConfigureLogging sets the logrus level, format and output.
// The returned closer releases the log file, if any.
func ConfigureLogging(debugMode bool, logParam LogParam) (io.Closer, error) {
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	level := logrus.InfoLevel
	if logParam.Level != "" {
		var err error
		level, err = logrus.ParseLevel(logParam.Level)
		if err != nil {
			return nil, err
		}
	}
	logrus.SetLevel(level)

	if debugMode {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Debugf("Debug mode activated")
	}

	if logParam.File == "" {
		logrus.SetOutput(os.Stderr)
		return noFile{}, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   logParam.File,
		MaxSize:    logParam.MaxSizeMB,
		MaxBackups: logParam.MaxBackups,
		MaxAge:     logParam.MaxAgeDays,
		Compress:   logParam.Compress,
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator, nil
}

// DetachLogging sends the logs to a rotated file only, leaving the terminal to a full screen display.
// logParam.File is used when set, defaultFile otherwise.
func DetachLogging(logParam LogParam, defaultFile string) (io.Closer, error) {
	filename := logParam.File
	if filename == "" {
		filename = defaultFile
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    logParam.MaxSizeMB,
		MaxBackups: logParam.MaxBackups,
		MaxAge:     logParam.MaxAgeDays,
		Compress:   logParam.Compress,
	}
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	logrus.SetOutput(rotator)
	return rotator, nil
}

type noFile struct{}

func (noFile) Close() error { return nil }
