// Package log writes diagnostics to a daily file through logrus.
//
// Nothing is written unless logs.write is enabled; every call is then a no-op.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/key"
	"github.com/lnget-cli/lnget/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var enabled bool

// Setup opens today's log file and applies the configured format and level.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return nil
}

// Enabled reports whether log output is being written.
func Enabled() bool {
	return enabled
}

func Error(args ...interface{}) {
	if enabled {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}

func Warn(args ...interface{}) {
	if enabled {
		logrus.Warn(args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}

func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}

func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}

func Debug(args ...interface{}) {
	if enabled {
		logrus.Debug(args...)
	}
}

func Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
