package candidate

import "strings"

// FromLine builds a Candidate from one line of line-delimited input (spec
// §6.2): fields are the line split by delimiter, the haystack projection
// is restricted to the fields selector names, and the full original line
// is carried as Extra verbatim.
func FromLine(line string, delimiter string, selector *Selector) *Candidate {
	parts := strings.Split(line, delimiter)
	searchable := make(map[int]bool, len(parts))
	for _, i := range selector.Select(len(parts)) {
		searchable[i] = true
	}
	entries := make([]Field, len(parts))
	for i, p := range parts {
		entries[i] = Field{Text: p, Active: searchable[i]}
	}
	return New(entries, nil, nil, line)
}
