// Keys are listed by glob patterns (the Redis KEYS command); the following module implements glob matching.

package scan

import (
	"fmt"
	"iter"
	"strings"

	"v.io/v23/glob"
)

// MatchGlob filters `keys` down to the ones matching the glob `pattern`.
// A key is matched as a single segment, so patterns must be non-empty and can't contain '/'.
func MatchGlob(pattern string, keys iter.Seq[string]) (iter.Seq[string], error) {
	if pattern == "" || strings.Contains(pattern, "/") {
		return nil, fmt.Errorf("invalid pattern '%s': expected a non-empty pattern without '/'", pattern)
	}
	parsedPattern, err := glob.Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}
	return func(yield func(string) bool) {
		for key := range keys {
			if parsedPattern.Head().Match(key) {
				if !yield(key) {
					return
				}
			}
		}
	}, nil
}
