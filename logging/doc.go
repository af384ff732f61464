// Package logging provides a minimal logging interface and adapters for the
// narrative engine.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn,
// Error) that lore, narrator and the game façade use for observability. Every
// component receives its logger through options; there is no process-wide
// logging state. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - StructuredLogger with component/session context and domain helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	game := talereboot.New(keeper, modelFactory, func(o *talereboot.Options) { o.Logger = logger })
//
// Arguments after the message are slog style key/value pairs.
package logging
