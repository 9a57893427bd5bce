// Package logging builds the process-wide logrus logger from CLI settings.
package logging

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

// Options select the level and destinations of the logger.
type Options struct {
	Verbosity int       // 0: fatal only, 1: error, 2: warning, 3: info, 4: debug
	Output    io.Writer // defaults to os.Stderr
	File      string    // optional log file, appended to
	Syslog    bool      // also send entries to the local syslog daemon
}

// NullLogger discards everything.
var NullLogger = &log.Logger{
	Out:       io.Discard,
	Formatter: new(log.TextFormatter),
	Hooks:     make(log.LevelHooks),
	Level:     log.PanicLevel,
}

var levels = map[int]log.Level{
	0: log.FatalLevel,
	1: log.ErrorLevel,
	2: log.WarnLevel,
	3: log.InfoLevel,
	4: log.DebugLevel,
}

// LevelForVerbosity maps a 0..4 verbosity onto a logrus level. Unknown
// values fall back to info.
func LevelForVerbosity(v int) log.Level {
	if level, ok := levels[v]; ok {
		return level
	}
	return log.InfoLevel
}

// New returns a configured logger and a close function for any file it opened.
func New(opts Options) (*log.Logger, func() error, error) {
	logger := log.New()
	logger.SetLevel(LevelForVerbosity(opts.Verbosity))
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	})

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		closer = f.Close
	}
	logger.SetOutput(out)

	if opts.Syslog {
		hook, err := newSyslogHook()
		if err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("syslog: %w", err)
		}
		logger.AddHook(hook)
	}

	logger.Infof("Logging set to %s", logger.GetLevel())
	return logger, closer, nil
}
