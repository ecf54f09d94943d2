package registry

import (
	"sort"
	"strings"
	"time"
)

func now() time.Time {
	return time.Now().UTC()
}

// norm trims, drops empties and de-duplicates labels, returning them sorted.
func norm(xs []string) []string {
	set := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		set[x] = struct{}{}
	}
	return setToSlice(set)
}

func setToSlice(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func addToIndex(idx map[string]map[string]struct{}, key, id string) {
	if _, ok := idx[key]; !ok {
		idx[key] = make(map[string]struct{})
	}
	idx[key][id] = struct{}{}
}

func removeFromIndex(idx map[string]map[string]struct{}, key, id string) {
	delete(idx[key], id)
	if len(idx[key]) == 0 {
		delete(idx, key)
	}
}
