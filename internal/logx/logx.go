// Package logx is the single diagnostic logging facility used by every
// package in this module (spec.md §7). It wraps log/slog, the approach
// soypat-glgl's glgl.EnableDebugOutput takes for routing GL debug-callback
// messages, and adds the two extra levels (VERBOSE, DEBUG) spec.md
// requires below slog's own Debug level.
package logx

import (
	"context"
	"log/slog"
	"os"
)

// Level is one of the five diagnostic levels spec.md §7 names.
type Level int

const (
	Verbose Level = iota
	Debug
	Info
	Warning
	Error
)

func (l Level) slog() slog.Level {
	switch l {
	case Verbose:
		return slog.LevelDebug - 4
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (l Level) String() string {
	switch l {
	case Verbose:
		return "VERBOSE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	default:
		return "ERROR"
	}
}

var std = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: Verbose.slog()}))

// SetMinLevel sets the minimum level logged by the package-level logger.
func SetMinLevel(l Level) {
	std = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l.slog()}))
}

// Logf logs msg at the given level with structured context pairs.
// Context pairs follow slog's key/value convention (e.g. "label", lbl).
func Logf(l Level, msg string, args ...any) {
	std.Log(context.Background(), l.slog(), msg, args...)
}

// Debugable reports whether VALIDATION+ERROR classified messages should
// abort the process; spec.md §7 requires this in debug builds.
var AbortOnValidationError bool

// DebugCallback is the shape of a native debug-message sink (GL's
// glDebugMessageCallback, Vulkan's VK_EXT_debug_utils messenger). cls
// distinguishes "VALIDATION" from other message classes; native backends
// pass through whatever classification their API exposes.
func DebugCallback(level Level, cls, source, msg string) {
	Logf(level, msg, "class", cls, "source", source)
	if AbortOnValidationError && level == Error && cls == "VALIDATION" {
		panic("logx: VALIDATION+ERROR message, aborting (debug build)")
	}
}
