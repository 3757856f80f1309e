package shell

import "strings"

// SplitAndCommands splits line on the literal two-byte "&&" separator,
// trimming ASCII whitespace from each side. A single "&" is never treated
// as a separator — grounded on the original source's custom_strtok_r/
// process_command_with_and, which searches for the literal "&&" substring
// and consumes both bytes.
//
// An empty resulting segment (consecutive or trailing "&&") is dropped,
// matching trim() + the `*cmd != '\0'` guard in process_command_with_and.
func SplitAndCommands(line string) []string {
	parts := strings.Split(line, "&&")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
