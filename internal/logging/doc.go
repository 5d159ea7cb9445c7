// Package logging provides structured logging for upnpctl.
//
// This package wraps a zap logger with convenience functions for the
// patterns used throughout the control point: SSDP datagrams, HTTP
// exchanges with devices and SOAP invocation states.
//
// # Log Levels
//
//   - Debug: datagram dumps, HTTP exchanges, SOAP state transitions
//   - Info: discovery sessions, server lifecycle
//   - Warn: per-interface discovery failures, dropped responses
//   - Error: fatal issues (startup failures)
//
// # Silent by Default
//
// The logger is a no-op until Initialize is called with a level or the
// UPNPCTL_LOG_LEVEL environment variable is set. Library components accept
// an optional *zap.Logger and fall back to the global one via Or, so
// embedding applications can route logs wherever they like:
//
//	engine := discovery.NewEngine()
//	engine.Logger = myLogger.Named("ssdp")
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Output goes to stderr in console format so that stdout stays clean for
// JSON output from the CLI.
package logging
