// Package zerolog adapts github.com/rs/zerolog to logger.Logger
package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the console or JSON writer
type Options struct {
	Level      string
	TimeFormat string
	Colored    bool
	JSON       bool
	Out        io.Writer
}

// New builds a zerolog logger wrapped in the adapter
func New(opts Options) (*Adapter, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level := opts.Level
	if level == "" {
		level = zerolog.LevelInfoValue
	}

	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	zerolog.SetGlobalLevel(logLevel)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if !opts.JSON {
		out = consoleWriter(out, opts.TimeFormat, opts.Colored)
	}

	log := zerolog.New(out).
		Level(logLevel).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()

	return NewAdapter(&log), nil
}

func consoleWriter(out io.Writer, timeFormat string, colored bool) zerolog.ConsoleWriter {
	if timeFormat == "" {
		timeFormat = time.DateTime
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !colored,
		TimeFormat: timeFormat,
	}

	if colored {
		writer.FormatLevel = formatLevel
		writer.FormatMessage = formatMessage
		writer.FormatCaller = formatCaller
		writer.FormatTimestamp = func(i any) string {
			return formatTimestamp(i, timeFormat)
		}
	}

	return writer
}

func formatLevel(i any) string {
	level, _ := i.(string)

	switch level {
	case zerolog.LevelTraceValue, zerolog.LevelDebugValue:
		return term.Cyanf("[%s]", strings.ToUpper(level[:3]))
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WRN]")
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return term.Redf("[%s]", strings.ToUpper(level[:3]))
	default:
		return term.Whitef("[???]")
	}
}

func formatMessage(i any) string {
	const width = 64

	msg, ok := i.(string)
	if !ok || msg == "" {
		return ">"
	}

	if len(msg) < width {
		msg += strings.Repeat(" ", width-len(msg))
	}

	return term.Whitef("> %s", msg)
}

func formatCaller(i any) string {
	name, ok := i.(string)
	if !ok || name == "" {
		return ""
	}

	return term.Yellowf("[%-22s]", filepath.Base(name))
}

func formatTimestamp(i any, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}

	if ts, err := time.ParseInLocation(time.RFC3339, raw, time.Local); err == nil {
		raw = ts.In(time.Local).Format(layout)
	}

	return term.Cyanf("[%s]", raw)
}
