package meta

import (
	"os"
	"strings"
	"unicode"
)

// expandEnvExpr substitutes ${env.KEY} expressions in diagram text with the
// value of the KEY environment variable; unset keys expand to "". Invalid
// key characters leave the expression prefix literal and scanning resumes
// right after it.
func expandEnvExpr(value string) string {
	const prefix = "${env."
	var out strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], prefix)
		if idx < 0 {
			out.WriteString(value[i:])
			break
		}
		out.WriteString(value[i : i+idx])
		keyStart := i + idx + len(prefix)
		keyEnd := strings.IndexByte(value[keyStart:], '}')
		if keyEnd < 0 {
			// no closing brace; keep the rest literal
			out.WriteString(value[i+idx:])
			break
		}
		key := value[keyStart : keyStart+keyEnd]
		if !validEnvKey(key) {
			out.WriteString(value[i+idx : keyStart])
			i = keyStart
			continue
		}
		out.WriteString(os.Getenv(key))
		i = keyStart + keyEnd + 1
	}
	return out.String()
}

func validEnvKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
