// Package logger provides the leveled diagnostic log used across
// the generator. Entries go through a zap core with a console
// encoder.
package logger

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/refaktor/newtypegen/textutils"
)

type LogLevel int

const (
	INFO  LogLevel = 0
	WARN  LogLevel = 1
	ERROR LogLevel = 2
	FATAL LogLevel = 99
)

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		panic(fmt.Sprintf("invalid log level: %v", int(l)))
	}
}

// Logger writes leveled messages. The zero value discards
// everything.
type Logger struct {
	// Prefix is written in front of each message, e.g. the name
	// of the type being bound.
	Prefix string

	z     *zap.Logger
	level zap.AtomicLevel
}

// New returns a Logger writing entries at or above minLevel to w.
// Writes to w are serialized, so the Logger may be shared between
// goroutines.
func New(w io.Writer, minLevel LogLevel) *Logger {
	level := zap.NewAtomicLevelAt(minLevel.zapLevel())
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      encodeLevel,
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
	})
	return &Logger{
		z:     zap.New(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level)),
		level: level,
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.WarnLevel:
		enc.AppendString("WARNING:")
	default:
		enc.AppendString(l.CapitalString() + ":")
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{}
}

// SetMinLevel changes the threshold of l and of all loggers
// derived from it with [Logger.With].
func (l *Logger) SetMinLevel(level LogLevel) {
	if l.z == nil {
		return
	}
	l.level.SetLevel(level.zapLevel())
}

// With returns a copy of l with prefix appended to its prefix.
func (l *Logger) With(prefix string) *Logger {
	res := *l
	if res.Prefix != "" {
		res.Prefix += " " + prefix
	} else {
		res.Prefix = prefix
	}
	return &res
}

// Log formats and writes a message. Multi-line messages start on
// their own line and are indented. A FATAL message exits the
// process after writing.
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if l == nil || l.z == nil {
		return
	}
	ce := l.z.Check(level.zapLevel(), "")
	if ce == nil {
		return
	}
	var b strings.Builder
	if l.Prefix != "" {
		b.WriteString(l.Prefix)
		b.WriteString(":")
	}
	s := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	if strings.Contains(s, "\n") {
		b.WriteString("\n")
		s = textutils.IndentString(s, "  ", 1)
	} else if l.Prefix != "" {
		b.WriteString(" ")
	}
	b.WriteString(s)
	ce.Message = b.String()
	ce.Write()
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	if l == nil || l.z == nil {
		return nil
	}
	return l.z.Sync()
}
