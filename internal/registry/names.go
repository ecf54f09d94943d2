package registry

import (
	"strings"
	"unicode"
)

const maxNameLen = 128

// displayName picks the label shown for a process. An empty name falls back
// to the command itself. Control characters become spaces and the result is
// cut to maxNameLen runes so any name fits on one line.
func displayName(raw, command string) string {
	name := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, raw))
	if name == "" {
		return command
	}
	if runes := []rune(name); len(runes) > maxNameLen {
		name = strings.TrimRightFunc(string(runes[:maxNameLen]), unicode.IsSpace)
	}
	return name
}
