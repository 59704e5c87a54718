package session

import (
	"strings"

	"github.com/samber/lo"
)

// MergeKeywords appends the entries of incoming that are not already in
// existing. It returns the merged list and the entries that were added.
// Merging the same input twice adds nothing the second time.
func MergeKeywords(existing, incoming []string) (merged, added []string) {
	seen := lo.SliceToMap(existing, func(k string) (string, struct{}) { return k, struct{}{} })
	merged = append([]string{}, existing...)
	added = []string{}
	for _, k := range incoming {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, k)
		added = append(added, k)
	}
	return merged, added
}
