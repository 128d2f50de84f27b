package history

import "github.com/sahilm/fuzzy"

type matchSource List

func (m matchSource) String(i int) string { return m[i].ShortURL + " " + m[i].LongURL }
func (m matchSource) Len() int            { return len(m) }

// Match fuzzy-filters l by pattern, best match first. An empty pattern
// returns l unchanged.
func Match(l List, pattern string) List {
	if pattern == "" {
		return l
	}
	matches := fuzzy.FindFrom(pattern, matchSource(l))
	out := make(List, 0, len(matches))
	for _, m := range matches {
		out = append(out, l[m.Index])
	}
	return out
}
