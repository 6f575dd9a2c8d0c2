// Package errors provides structured, actionable error messages for the
// monolith command.
//
// Each error has a code (e.g., "E102") that maps to a short message, an
// optional detail and a category. Errors caused by the config file carry the
// file location and the surrounding lines so the terminal output points at
// the offending line.
//
// # Usage
//
//	err := errors.New("E102").
//	    WithLocationFromError(path, yamlErr).
//	    WithSuggestion("Check that monolith.yaml is valid YAML")
//
//	errors.Fprint(os.Stderr, err)
//	// Output:
//	// ERROR E102: Invalid config file
//	//
//	//   monolith.yaml:3
//	//
//	//        2 │ server:
//	//   →    3 │   address: :8080: bad
//	//        4 │ session:
//	//
//	//   Hint: Check that monolith.yaml is valid YAML
package errors
