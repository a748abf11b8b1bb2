package sim

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs so the hot loop does not pay
// for building log attributes when they would be dropped.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables per-tick debug logging.
// Called from main after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether per-tick debug logging is on:
//
//	if sim.IsDebugEnabled() {
//	    slog.Debug("tick", "state", snapshot)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
