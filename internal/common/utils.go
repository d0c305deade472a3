package common

import "strings"

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// LeadingSegment returns the part of a display name before its first comma,
// trimmed. The whole (trimmed) name is returned when that part is empty.
func LeadingSegment(name string) string {
	head, _, _ := strings.Cut(name, ",")
	if head = strings.TrimSpace(head); head != "" {
		return head
	}
	return strings.TrimSpace(name)
}
