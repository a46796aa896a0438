// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("session created", slog.Bool("simplify", true))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden. The
// package-level logger used by [Info], [Error] and friends is reconfigured
// the same way with [Config].
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level are
// discarded. Trace is used for per-node detail such as reference
// resolution and parse cache lookups.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. With [WithPretty], JSON records are indented and text
// records are colorized with lipgloss when written to a terminal.
//
// # Zero Value
//
// The zero [Logger] discards everything, so types that hold a Logger need
// no initialization to be usable.
package log
