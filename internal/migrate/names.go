package migrate

import "strings"

// joinAuthors collapses a V1 author list into the single V2 author string:
// names joined with ", ", an empty list becomes "unknown".
func joinAuthors(authors []string) string {
	if len(authors) == 0 {
		return "unknown"
	}
	joined := authors[0]
	for _, name := range authors[1:] {
		joined += ", " + name
	}
	return joined
}

// sortAuthor derives the sortable form of the first author in a
// comma-separated author string: the last space-separated token of that
// name moves to the front, e.g. "Ronald McDonald" -> "McDonald, Ronald".
// A single-token name is returned unchanged, as is an empty string.
func sortAuthor(author string) string {
	first, ok := firstSegment(author, ",")
	if !ok {
		return ""
	}
	parts := strings.Fields(first)
	if len(parts) == 1 {
		return parts[0]
	}
	last := parts[len(parts)-1]
	return last + ", " + strings.Join(parts[:len(parts)-1], " ")
}

// splitName breaks one author name into its (lastName, firstName) pair:
// the last whitespace-separated token is the last name, everything before
// it the first name. A name with no tokens maps to ("Unknown", "").
func splitName(name string) (lastName, firstName string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "Unknown", ""
	case 1:
		return parts[0], ""
	default:
		return parts[len(parts)-1], strings.Join(parts[:len(parts)-1], " ")
	}
}

// splitAuthors splits a comma-separated author string into individual
// names, dropping empty segments.
func splitAuthors(author string) []string {
	var names []string
	for _, segment := range strings.Split(author, ",") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		names = append(names, segment)
	}
	return names
}

func firstSegment(s, sep string) (string, bool) {
	for _, segment := range strings.Split(s, sep) {
		if strings.TrimSpace(segment) != "" {
			return segment, true
		}
	}
	return "", false
}
