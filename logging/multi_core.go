package logging

import (
	"go.uber.org/zap/zapcore"
)

// NewConsoleCore creates a single core writing to the console. Development
// mode uses the colored console encoder, production mode uses JSON.
func NewConsoleCore(level zapcore.LevelEnabler, writer zapcore.WriteSyncer, isDev bool) zapcore.Core {
	var encoder zapcore.Encoder
	if isDev {
		encoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		encoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}
	return zapcore.NewCore(encoder, writer, level)
}

// NewMultiCoreWithWriters creates a core that tees to a console writer and
// a file writer. The file side always gets JSON. Both sides share level, so
// an AtomicLevel moves them together.
//
// Example:
//
//	var buf bytes.Buffer
//	core := NewMultiCoreWithWriters(zapcore.DebugLevel, zapcore.AddSync(os.Stdout), zapcore.AddSync(&buf), true)
//	logger := zap.New(core)
func NewMultiCoreWithWriters(level zapcore.LevelEnabler, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(NewEncoderConfig()),
		fileWriter,
		level,
	)
	return zapcore.NewTee(NewConsoleCore(level, consoleWriter, isDev), fileCore)
}
