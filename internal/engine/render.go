package engine

import "strings"

// Render joins an output line sequence into final text: lines separated by
// single newlines with exactly one trailing newline. Lines pass through
// byte-for-byte, so non-ASCII literal content is reproduced exactly. An
// empty sequence renders as the empty string.
func Render(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
