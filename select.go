package zip

import (
	"iter"

	"github.com/bmatcuk/doublestar/v4"
)

// Select returns a read-only iterator over every entry whose name matches
// the given doublestar glob pattern (e.g. "*.txt" or "assets/**/*.png").
// A malformed pattern yields no entries.
func (a *Archive) Select(pattern string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range a.entries {
			ok, err := doublestar.Match(pattern, e.Name)
			if err != nil || !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
