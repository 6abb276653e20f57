package service

import "strings"

// containsFold reports whether s contains substr, case-insensitively.
// An empty substr always matches.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// anyContainsFold reports whether any of the fields contains substr,
// case-insensitively.
func anyContainsFold(substr string, fields ...string) bool {
	if substr == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, substr) {
			return true
		}
	}
	return false
}
