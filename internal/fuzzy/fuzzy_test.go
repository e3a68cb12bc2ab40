package fuzzy

import "testing"

func TestMatcher(t *testing.T) {
	tests := []struct {
		search   string
		content  string
		expected bool
	}{
		{"", "anything", true},
		{"   ", "anything", true},
		{"disk", "disk failure", true},
		{"dskfl", "disk failure", true},
		{"failure", "disk failure", true},
		{"xyz", "disk failure", false},
		{"eruliaf", "disk failure", false},
		{"disk", "", false},
	}

	var m Matcher
	for _, tt := range tests {
		t.Run(tt.search+"/"+tt.content, func(t *testing.T) {
			if got := m.Match(tt.search, tt.content); got != tt.expected {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.search, tt.content, got, tt.expected)
			}
		})
	}
}
