package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E009)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Write to computed signal",
		Detail:   "Computed values are derived from other signals and cannot be written. Write to one of its dependencies instead.",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Effect did not converge",
		Detail:   "The effect kept re-triggering itself and hit the iteration cap. It was left in its last computed state.",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Subscriber callback failed",
		Detail:   "A signal subscriber panicked during notification. The remaining subscribers were still notified.",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Owner cleanup failed",
		Detail:   "One or more cleanup functions panicked while the owner was being disposed.",
	},
	"E005": {
		Category: CategoryRuntime,
		Message:  "Registered signal type mismatch",
		Detail:   "A signal key was registered again with a different value type.",
	},
	"E006": {
		Category: CategoryRuntime,
		Message:  "Duplicate signal key",
		Detail:   "A signal with this key is already registered in the session. The existing signal was returned.",
	},
	"E007": {
		Category: CategoryRuntime,
		Message:  "Restored signal value rejected",
		Detail:   "The hydration payload value for this key could not be decoded into the signal's type. The initial value was kept.",
	},
	"E008": {
		Category: CategoryRuntime,
		Message:  "Unknown signal key",
		Detail:   "No signal is registered under this key in the session.",
	},

	// ============================================
	// Reconciliation Errors (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryReconcile,
		Message:  "Missing render function",
		Detail:   "For and Index require a Children render function.",
	},
	"E021": {
		Category: CategoryReconcile,
		Message:  "Error captured by boundary",
		Detail:   "The boundary's children panicked while rendering. The fallback is shown.",
	},

	// ============================================
	// Hydration Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: node kind differs",
		Detail:   "The server-rendered node kind doesn't match what the client built.",
	},
	"E041": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: text content differs",
		Detail:   "The server-rendered text doesn't match what the client built.",
	},
	"E042": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: element tag differs",
		Detail:   "The server-rendered element tag doesn't match what the client built.",
	},
	"E043": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: child count differs",
		Detail:   "The server-rendered node has a different number of significant children than the client tree.",
	},
	"E044": {
		Category: CategoryHydration,
		Message:  "Invalid hydration payload",
		Detail:   "The hydration payload could not be decoded or has an unsupported version. Signal values were not restored.",
	},
	"E045": {
		Category: CategoryHydration,
		Message:  "Hydration failed",
		Detail:   "Hydration panicked. The server tree was discarded and the client tree mounted.",
	},
	"E046": {
		Category: CategoryHydration,
		Message:  "Server render failed",
		Detail:   "The application factory panicked while rendering on the server. No markup was produced.",
	},

	// ============================================
	// Live Transport Errors (E060-E069)
	// ============================================

	"E060": {
		Category: CategoryLive,
		Message:  "Malformed live message",
		Detail:   "A client message was not a JSON object with a key and a value.",
	},
	"E061": {
		Category: CategoryLive,
		Message:  "Live session closed",
		Detail:   "The session was already closed when the write arrived.",
	},
	"E062": {
		Category: CategoryLive,
		Message:  "Live connection failed",
		Detail:   "The WebSocket connection could not be upgraded or a frame could not be written.",
	},

	// ============================================
	// Configuration Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "anchor.json could not be read or parsed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No anchor.json was found in the project directory.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field has a value outside its allowed range.",
	},

	// ============================================
	// CLI Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Cannot read input markup",
		Detail:   "The server markup passed to hydrate could not be read or parsed.",
	},
}
