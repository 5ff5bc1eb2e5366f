package hull

import "slices"

// ridgeTable counts ridges (sorted index tuples of a fixed width) seen while
// scanning the visible facets of one insertion. Ridge indices live in one
// flat arena and buckets chain ridge ids by hash, so counting a ridge never
// allocates a per-ridge collection. The table is reset and reused for every
// insertion.
type ridgeTable struct {
	width   int
	arena   []int
	counts  []int
	chain   []int
	buckets map[uint64]int
}

func (t *ridgeTable) reset(width int) {
	t.width = width
	t.arena = t.arena[:0]
	t.counts = t.counts[:0]
	t.chain = t.chain[:0]
	if t.buckets == nil {
		t.buckets = make(map[uint64]int)
	} else {
		clear(t.buckets)
	}
}

// add records one occurrence of ridge, which must be sorted and t.width
// long, and returns its count so far.
func (t *ridgeTable) add(ridge []int) int {
	h := hashRidge(ridge)
	head, ok := t.buckets[h]
	if !ok {
		head = -1
	}
	for id := head; id >= 0; id = t.chain[id] {
		if slices.Equal(t.ridge(id), ridge) {
			t.counts[id]++
			return t.counts[id]
		}
	}

	id := len(t.counts)
	t.arena = append(t.arena, ridge...)
	t.counts = append(t.counts, 1)
	t.chain = append(t.chain, head)
	t.buckets[h] = id
	return 1
}

// len returns the number of distinct ridges, in first-seen order.
func (t *ridgeTable) len() int {
	return len(t.counts)
}

func (t *ridgeTable) ridge(id int) []int {
	return t.arena[id*t.width : (id+1)*t.width]
}

func (t *ridgeTable) count(id int) int {
	return t.counts[id]
}

// hashRidge is FNV-1a over the ridge indices.
func hashRidge(ridge []int) uint64 {
	h := uint64(14695981039346656037)
	for _, v := range ridge {
		h ^= uint64(v)
		h *= 1099511628211
	}
	return h
}
