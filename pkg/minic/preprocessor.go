package minic

import (
	"regexp"
)

// macroReference matches the host framework's $(name) macro syntax for
// model variables and parameters embedded in code fragments.
var macroReference = regexp.MustCompile(`\$\(([_a-zA-Z][a-zA-Z0-9]*)\)`)

// Preprocess rewrites $(name) macro references to bare identifiers so the
// scanner sees ordinary variables. Function-style references with arguments
// are left untouched.
func Preprocess(src string) string {
	return macroReference.ReplaceAllString(src, "$1")
}
