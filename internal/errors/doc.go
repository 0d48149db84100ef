// Package errors provides structured, coded error values for anchor.
//
// Every diagnostic the runtime can raise or log has a registered code
// (e.g. "E002") that maps to:
//   - A category (runtime, reconcile, hydration, config)
//   - A short message
//   - A longer explanation
//
// Errors carry an optional wrapped cause so callers can match public
// sentinels with errors.Is while logs keep the coded form.
//
// # Error Codes
//
//	E001-E009  runtime (signals, computed, effects, owners)
//	E020-E029  reconciliation primitives
//	E040-E049  hydration
//	E120-E129  configuration
//
// # Usage
//
//	err := errors.New("E002").
//	    WithDetail("effect re-ran 100 times in one cascade").
//	    Wrap(reactive.ErrEffectConvergence)
//
//	logger.Error(err.Message, "code", err.Code, "error", err)
package errors
