package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vango.dev/docs/vcommit/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Commit Errors (E100-E119)
	// ============================================

	"E101": {
		Category: CategoryCommit,
		Message:  "No mount parent for placement",
		Detail:   "A node needed to be placed but neither the caller nor any ancestor resolved to a platform node. The node's placement was abandoned; its siblings are still committed.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryCommit,
		Message:  "Placement rejected by document",
		Detail:   "The document refused to insert the node, usually because the target would become its own ancestor.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryCommit,
		Message:  "Commit pass cancelled",
		Detail:   "The context was cancelled before the pass started. Passes are never aborted midway.",
		DocURL:   docBase + "E103",
	},
	"E104": {
		Category: CategoryCommit,
		Message:  "Commit pass already running",
		Detail:   "Commit was called while another pass on the same runtime was draining, usually from inside a lifecycle callback. Request an update instead.",
		DocURL:   docBase + "E104",
	},

	// ============================================
	// Protocol Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryProtocol,
		Message:  "Invalid journal frame",
		Detail:   "The frame header or payload could not be decoded as a mutation journal.",
		DocURL:   docBase + "E140",
	},
	"E141": {
		Category: CategoryProtocol,
		Message:  "Unknown mutation op",
		Detail:   "The journal contains a mutation op this decoder does not understand.",
		DocURL:   docBase + "E141",
	},

	// ============================================
	// Scenario Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryScenario,
		Message:  "Invalid scenario file",
		Detail:   "The scenario could not be parsed as YAML or JSON.",
		DocURL:   docBase + "E160",
	},
	"E161": {
		Category: CategoryScenario,
		Message:  "Invalid scenario node",
		Detail:   "A scenario node must have exactly one of tag, text, component or func.",
		DocURL:   docBase + "E161",
	},
	"E162": {
		Category: CategoryScenario,
		Message:  "Duplicate scenario node id",
		Detail:   "Node ids identify a node across passes and must be unique within a pass.",
		DocURL:   docBase + "E162",
	},
	"E163": {
		Category: CategoryScenario,
		Message:  "Unknown scenario node id",
		Detail:   "A deletion, setState or dispatch entry names a node id the committed tree does not contain.",
		DocURL:   docBase + "E163",
	},
	"E164": {
		Category: CategoryScenario,
		Message:  "Deleted node still in tree",
		Detail:   "A pass lists a node id under delete but its tree still contains that id.",
		DocURL:   docBase + "E164",
	},
	"E165": {
		Category: CategoryScenario,
		Message:  "Container not found",
		Detail:   "The base document has no element with the configured container id.",
		DocURL:   docBase + "E165",
	},

	// ============================================
	// Config Errors (E180-E189)
	// ============================================

	"E180": {
		Category: CategoryConfig,
		Message:  "Invalid vcommit.json",
		Detail:   "The configuration file contains invalid JSON.",
		DocURL:   docBase + "E180",
	},
	"E181": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field has a value outside its allowed range.",
		DocURL:   docBase + "E181",
	},
	"E182": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No vcommit.json was found in the directory or any of its parents.",
		DocURL:   docBase + "E182",
	},

	// ============================================
	// Archive Errors (E190-E199)
	// ============================================

	"E190": {
		Category: CategoryArchive,
		Message:  "Archive write failed",
		Detail:   "The pass journal could not be written to the archive store.",
		DocURL:   docBase + "E190",
	},
	"E191": {
		Category: CategoryArchive,
		Message:  "Invalid archive location",
		Detail:   "Archive locations are a directory path or s3://bucket/prefix.",
		DocURL:   docBase + "E191",
	},

	// ============================================
	// CLI Errors (E200-E209)
	// ============================================

	"E200": {
		Category: CategoryCLI,
		Message:  "Missing scenario file",
		Detail:   "The command requires a scenario file argument.",
		DocURL:   docBase + "E200",
	},
	"E201": {
		Category: CategoryCLI,
		Message:  "No scenario matched",
		Detail:   "The pattern did not match any scenario file.",
		DocURL:   docBase + "E201",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
