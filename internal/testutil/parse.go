package testutil

import (
	"strconv"
	"strings"
)

// clause is one parsed ViewFilter string.
type clause struct {
	slot  int
	kind  string
	not   bool
	clear bool
	args  []string
}

// parseViewFilter parses a rendered [ViewFilter(...)] string. The
// second return is false when the string is not well-formed, which the
// fake reports the way the real server does: SetFilter returns false.
func parseViewFilter(s string) (clause, bool) {
	inner, ok := stripForm(s, "ViewFilter")
	if !ok {
		return clause{}, false
	}
	args := splitArgs(inner)
	if len(args) < 2 {
		return clause{}, false
	}
	slot, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || slot < 1 || slot > 8 {
		return clause{}, false
	}
	if strings.EqualFold(strings.TrimSpace(args[1]), "Clear") {
		return clause{slot: slot, clear: true}, true
	}
	if len(args) < 3 {
		return clause{}, false
	}
	c := clause{
		slot: slot,
		kind: strings.TrimSpace(args[1]),
		args: args[3:],
	}
	switch strings.TrimSpace(args[2]) {
	case "":
		c.not = false
	case "Not":
		c.not = true
	default:
		return clause{}, false
	}
	switch c.kind {
	case "F", "CTI", "CTCF", "CTCTI":
		return c, true
	default:
		return clause{}, false
	}
}

// parseViewSort parses a rendered [ViewSort(...)] string into column
// and direction pairs.
func parseViewSort(s string) ([]sortKey, bool) {
	inner, ok := stripForm(s, "ViewSort")
	if !ok {
		return nil, false
	}
	var keys []sortKey
	for _, part := range splitArgs(inner) {
		part = strings.TrimSpace(part)
		var key sortKey
		switch {
		case strings.HasSuffix(part, " Descending"):
			key = sortKey{column: strings.TrimSuffix(part, " Descending"), descending: true}
		case strings.HasSuffix(part, " Ascending"):
			key = sortKey{column: strings.TrimSuffix(part, " Ascending")}
		default:
			return nil, false
		}
		if key.column == "" {
			return nil, false
		}
		keys = append(keys, key)
	}
	return keys, len(keys) > 0
}

// parseViewConjunction parses a rendered [ViewConjunction(...)] string.
func parseViewConjunction(s string) ([]string, bool) {
	inner, ok := stripForm(s, "ViewConjunction")
	if !ok {
		return nil, false
	}
	var conjunctions []string
	for _, part := range splitArgs(inner) {
		part = strings.TrimSpace(part)
		if part != "And" && part != "Or" {
			return nil, false
		}
		conjunctions = append(conjunctions, part)
	}
	return conjunctions, len(conjunctions) > 0
}

// stripForm removes the "[Name(" prefix and ")]" suffix.
func stripForm(s, name string) (string, bool) {
	prefix := "[" + name + "("
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, ")]") {
		return "", false
	}
	return s[len(prefix) : len(s)-2], true
}

// splitArgs splits on top-level commas, honoring double-quoted
// arguments with doubled embedded quotes. Quoted arguments are
// returned unquoted.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && inQuote:
			if i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuote = false
		case r == '"':
			inQuote = true
		case r == ',' && !inQuote:
			args = append(args, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	args = append(args, current.String())
	return args
}
