package app

import (
	"regexp"
	"strings"
)

// Traced statements are flattened to one line and capped so span payloads
// stay small.
const tracedQueryLimit = 512

var sqlWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	flat := sqlWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(flat) > tracedQueryLimit {
		flat = flat[:tracedQueryLimit] + "..."
	}
	return flat
}
