// Package fuzzy provides the search capability entries are matched with.
package fuzzy

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Matcher matches when every character of the search text appears in the
// content in order. An empty or blank search matches everything.
type Matcher struct{}

// Match implements model.Matcher.
func (Matcher) Match(search, content string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	return len(fuzzy.Find(search, []string{content})) > 0
}
