package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (E100-E119)

	"E101": {
		Category: CategoryConfig,
		Message:  "Config file not found",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Config file not writable",
	},

	// Server (E120-E139)

	"E120": {
		Category: CategoryServer,
		Message:  "Cannot listen on address",
		Detail:   "The server could not bind its listening socket.",
	},
	"E121": {
		Category: CategoryServer,
		Message:  "Server stopped unexpectedly",
	},

	// CLI (E140-E159)

	"E140": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
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
