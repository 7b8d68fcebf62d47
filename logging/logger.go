// Package logging builds the zap logger shared by the node server: a
// console core for humans and a rotated JSON file core for tooling.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New. Zero values are usable: info level, production
// console encoding, no log file.
type Options struct {
	// Level is the initial minimum level. It can be changed later through
	// Logger.SetLevel or Logger.LevelHandler.
	Level zapcore.Level

	// Development switches the console to colored, human-readable output.
	Development bool

	// FilePath enables the JSON file core when non-empty.
	FilePath string

	// File tunes rotation of FilePath. Zero fields fall back to defaults.
	File FileWriterConfig

	// Console replaces os.Stdout, mostly for tests.
	Console io.Writer
}

// Logger wraps a zap.Logger together with the atomic level that gates it.
//
// Example:
//
//	logger, err := logging.New(logging.Options{Level: logging.InfoLevel, FilePath: "app.log"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Zap().Info("server started", zap.String("addr", addr))
type Logger struct {
	zap         *zap.Logger
	level       zap.AtomicLevel
	development bool
	logFilePath string
}

// New creates a Logger from opts.
func New(opts Options) (*Logger, error) {
	level := zap.NewAtomicLevelAt(opts.Level)

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	consoleWriter := zapcore.Lock(zapcore.AddSync(console))

	var core zapcore.Core
	if opts.FilePath != "" {
		if err := ensureWritable(opts.FilePath); err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", opts.FilePath, err)
		}
		fileWriter := NewFileWriterWithConfig(opts.FilePath, opts.File)
		core = NewMultiCoreWithWriters(level, consoleWriter, fileWriter, opts.Development)
	} else {
		core = NewConsoleCore(level, consoleWriter, opts.Development)
	}

	zapOpts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if opts.Development {
		zapOpts = append(zapOpts, zap.Development())
	}

	return &Logger{
		zap:         zap.New(core, zapOpts...),
		level:       level,
		development: opts.Development,
		logFilePath: opts.FilePath,
	}, nil
}

// ensureWritable fails early when the log file cannot be opened, since
// lumberjack only reports that on the first write.
func ensureWritable(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Zap returns the underlying zap.Logger. Components receive this value.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Sugar returns a sugared view of the logger.
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.zap.Sugar()
}

// Named returns a child zap.Logger for a component.
func (l *Logger) Named(name string) *zap.Logger {
	return l.zap.Named(name)
}

// Level returns the current minimum level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// SetLevel changes the minimum level of every core at once.
func (l *Logger) SetLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

// LevelHandler exposes the level over HTTP: GET reports it and PUT with
// {"level":"debug"} changes it.
func (l *Logger) LevelHandler() zap.AtomicLevel {
	return l.level
}

// IsDevelopment returns true if the console uses development encoding.
func (l *Logger) IsDevelopment() bool {
	return l.development
}

// LogFilePath returns the path to the log file, or "" when file output is off.
func (l *Logger) LogFilePath() string {
	return l.logFilePath
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	if err := l.zap.Sync(); err != nil && l.logFilePath != "" {
		return err
	}
	return nil
}
