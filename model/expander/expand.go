// Package expander substitutes {{name}} placeholders inside parameter values
// using a workflow's current variables. Placeholders that do not resolve are
// left in place as literal text so that a missing variable never fails an
// execution.
package expander

import "strings"

// Expand replaces every {{name}} placeholder in value with the matching entry
// from the supplied variables. A single value may contain multiple
// placeholders; each is resolved independently.
func Expand(value string, from map[string]string) string {
	if value == "" || !strings.Contains(value, "{{") {
		return value
	}

	var b strings.Builder
	rest := value
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end == -1 {
			b.WriteString(rest)
			break
		}
		name := rest[start+2 : start+2+end]
		b.WriteString(rest[:start])
		if replacement, ok := from[name]; ok {
			b.WriteString(replacement)
		} else {
			// unresolved placeholder stays literal
			b.WriteString(rest[start : start+2+end+2])
		}
		rest = rest[start+2+end+2:]
	}
	return b.String()
}

// ExpandParams returns a copy of params with every value expanded. The input
// map is never mutated.
func ExpandParams(params map[string]string, from map[string]string) map[string]string {
	if len(params) == 0 {
		return map[string]string{}
	}
	result := make(map[string]string, len(params))
	for key, value := range params {
		result[key] = Expand(value, from)
	}
	return result
}
