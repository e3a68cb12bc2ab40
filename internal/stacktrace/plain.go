package stacktrace

import (
	"regexp"
	"strings"
)

var markupTag = regexp.MustCompile(`<[^>]*>`)

// Plain strips the rich-text markup from a rendered trace, leaving lines
// like "Method | file.go [42]".
func Plain(trace string) string {
	if trace == "" {
		return ""
	}
	return strings.TrimRight(markupTag.ReplaceAllString(trace, ""), "\n")
}
