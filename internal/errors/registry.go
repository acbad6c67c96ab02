package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Reactivity and render diagnostics (R100-R199)
	// ============================================

	"R101": {
		Category: CategoryRender,
		Message:  "Render source is not a function",
		Detail:   "The component declares neither a Render function nor a Setup that returns one. It renders nothing.",
	},
	"R102": {
		Category: CategoryReactivity,
		Message:  "Write to read-only computed",
		Detail:   "The computed value was created without a setter. The write was ignored.",
	},
	"R103": {
		Category: CategoryReactivity,
		Message:  "Invalid watch source",
		Detail:   "A watch source must be a reactive object, a ref, or a getter function.",
	},
	"R104": {
		Category: CategoryRender,
		Message:  "Write to read-only prop",
		Detail:   "Component props are owned by the parent. The write was ignored.",
	},
	"R105": {
		Category: CategoryRender,
		Message:  "Teleport target not found",
		Detail:   "The teleport 'to' prop did not resolve to a host node. Its children were not mounted.",
	},
	"R106": {
		Category: CategoryRender,
		Message:  "Unsupported setup result",
		Detail:   "Setup must return a render function or a map of state.",
	},
	"R107": {
		Category: CategoryScheduler,
		Message:  "Flush pass limit exceeded",
		Detail:   "Jobs kept re-queueing themselves during a flush. The remaining jobs were dropped.",
	},
	"R108": {
		Category: CategoryScheduler,
		Message:  "Job panicked",
		Detail:   "A queued job panicked. The panic was isolated and the remaining jobs of the flush still ran.",
	},
	"R109": {
		Category: CategoryRender,
		Message:  "Ref binding type mismatch",
		Detail:   "The value bound to a vnode ref could not be stored in the ref's type.",
	},

	// ============================================
	// Protocol errors (P100-P199)
	// ============================================

	"P101": {
		Category: CategoryProtocol,
		Message:  "Unknown mutation opcode",
		Detail:   "The frame contained an opcode this decoder does not understand.",
	},

	// ============================================
	// Config errors (C120-C139)
	// ============================================

	"C120": {
		Category: CategoryConfig,
		Message:  "Failed to read configuration",
		Detail:   "reactor.json exists but could not be read or parsed.",
	},
	"C121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No reactor.json was found in the project directory.",
	},
	"C122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field is out of range.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
