// Package logging sets up the process-local structured logger used by
// cmd/bridged and by the node handle's own diagnostics. It is
// distinct from the wire-level Log the node handle publishes to the
// host middleware (internal/node's Log/Debug/Info/Warn/Error/Fatal) —
// this is what the operator of the bridge process sees on their own
// console.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config selects the logger's verbosity and color behavior.
type Config struct {
	// Level is one of trace, debug, info, warn, error, disabled.
	// An unrecognized value falls back to info.
	Level string
	// NoColor forces plain output even on a color-capable terminal.
	NoColor bool
}

// New builds a console logger per cfg. Color is only enabled when
// stdout is an actual terminal, matching the usual CLI convention of
// not polluting redirected output with ANSI escapes.
func New(cfg Config) zerolog.Logger {
	level, ok := parseLevel(cfg.Level)
	if !ok {
		level = zerolog.InfoLevel
	}
	noColor := cfg.NoColor || !isatty.IsTerminal(os.Stdout.Fd())
	writer := zerolog.ConsoleWriter{Out: consoleOut(noColor), NoColor: noColor, TimeFormat: "15:04:05.000"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func consoleOut(noColor bool) io.Writer {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		return os.Stdout
	}
	return colorable.NewColorableStdout()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "", "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
