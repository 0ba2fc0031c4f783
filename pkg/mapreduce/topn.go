package mapreduce

import (
	"fmt"
	"sort"
)

// TopN returns the n most frequent keys formatted as "key:count".
// Ties are broken alphabetically so output is stable.
func TopN(counts map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	ss := make([]kv, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, kv{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	top := make([]string, limit)
	for i := 0; i < limit; i++ {
		top[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}
	return top
}
