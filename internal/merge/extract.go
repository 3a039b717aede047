package merge

import "strings"

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// occurrence is one physical placeholder token in a template
type occurrence struct {
	name  string
	start int // offset of the opening delimiter
	end   int // offset just past the closing delimiter
}

// Extract returns the distinct placeholder names in template, in
// first-occurrence order. Names are the text between {{ and }} with
// leading and trailing whitespace trimmed. An unterminated {{ is not a
// placeholder and contributes nothing.
func Extract(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, occ := range scan(template) {
		if seen[occ.name] {
			continue
		}
		seen[occ.name] = true
		names = append(names, occ.name)
	}
	return names
}

// HasUnterminated reports whether template opens a placeholder it never
// closes. Callers validating user input reject such templates before any
// merge runs; the merge engine itself treats the dangling tail as literal
// text.
func HasUnterminated(template string) bool {
	idx := strings.LastIndex(template, openDelim)
	if idx < 0 {
		return false
	}
	return !strings.Contains(template[idx:], closeDelim)
}

// scan locates every physical placeholder occurrence in template, in
// template order. Occurrences never overlap; a {{ without a matching }}
// ends the scan, leaving the tail as literal text.
func scan(template string) []occurrence {
	var occs []occurrence
	pos := 0
	for {
		open := strings.Index(template[pos:], openDelim)
		if open < 0 {
			break
		}
		open += pos
		end := strings.Index(template[open+len(openDelim):], closeDelim)
		if end < 0 {
			break
		}
		end += open + len(openDelim)
		occs = append(occs, occurrence{
			name:  strings.TrimSpace(template[open+len(openDelim) : end]),
			start: open,
			end:   end + len(closeDelim),
		})
		pos = end + len(closeDelim)
	}
	return occs
}
