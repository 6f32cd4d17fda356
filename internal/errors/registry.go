package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	DocURL   string
}

const docBase = "https://vango.dev/docs/bower/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Asset Errors (B001-B009)
	// ============================================

	"B001": {
		Category: CategoryAsset,
		Message:  "Path escapes the asset root",
		DocURL:   docBase + "B001",
	},
	"B002": {
		Category: CategoryAsset,
		Message:  "Asset not found",
		DocURL:   docBase + "B002",
	},
	"B003": {
		Category: CategoryManifest,
		Message:  "Malformed package manifest",
		DocURL:   docBase + "B003",
	},
	"B004": {
		Category: CategoryAsset,
		Message:  "Asset root unreadable",
		DocURL:   docBase + "B004",
	},

	// ============================================
	// Config Errors (B010-B019)
	// ============================================

	"B010": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		DocURL:   docBase + "B010",
	},
	"B011": {
		Category: CategoryConfig,
		Message:  "Invalid URL prefix",
		DocURL:   docBase + "B011",
	},
	"B012": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		DocURL:   docBase + "B012",
	},

	// ============================================
	// Routing Errors (B020-B029)
	// ============================================

	"B020": {
		Category: CategoryRouting,
		Message:  "Could not build URL",
		DocURL:   docBase + "B020",
	},

	// ============================================
	// CLI Errors (B030-B039)
	// ============================================

	"B030": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		DocURL:   docBase + "B030",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
