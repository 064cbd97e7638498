package assemble

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// anchorFor derives a stable anchor id from a recipe name. The id is a
// readable slug plus a short name hash, so equal names always produce equal
// base ids run-to-run.
func anchorFor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("recipe-%s-%08x", slugify(name), h.Sum32())
}

// slugify lowercases the name and collapses everything that isn't a letter
// or digit into single hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "untitled"
	}
	if len(s) > 48 {
		s = s[:48]
	}
	return s
}

// anchorSet hands out unique anchor ids. Same-named recipes would collide
// on the name-derived id alone, so duplicates get an ordinal suffix. The
// suffix depends only on the walk order, which is fixed by the final sort,
// so ids stay deterministic.
type anchorSet struct {
	used map[string]int
}

func newAnchorSet() *anchorSet {
	return &anchorSet{used: make(map[string]int)}
}

func (a *anchorSet) assign(name string) string {
	id := anchorFor(name)
	n := a.used[id]
	a.used[id] = n + 1
	if n == 0 {
		return id
	}
	return fmt.Sprintf("%s-%d", id, n+1)
}
