package extractors

import (
	"iter"
	"strconv"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// idTable indexes one or more blocks keyed by numeric id. Blocks are read
// in order; a repeated id takes the value of its last occurrence and keeps
// the position of its first. Keys that are not integers are ignored.
type idTable struct {
	ids  []int64
	byID map[int64]domain.Node
}

func newIDTable(blocks ...domain.Node) idTable {
	size := 0
	for _, b := range blocks {
		size += b.Len()
	}
	t := idTable{byID: make(map[int64]domain.Node, size)}
	for _, block := range blocks {
		for key, value := range block.Entries() {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				continue
			}
			if _, seen := t.byID[id]; !seen {
				t.ids = append(t.ids, id)
			}
			t.byID[id] = value
		}
	}
	return t
}

// Get returns the entry for id.
func (t idTable) Get(id int64) (domain.Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Len returns the number of distinct ids.
func (t idTable) Len() int { return len(t.ids) }

// Mappings yields entries whose value is a block, in table order. Deleted
// entries such as 12=none are skipped.
func (t idTable) Mappings() iter.Seq2[int64, domain.Node] {
	return func(yield func(int64, domain.Node) bool) {
		for _, id := range t.ids {
			n := t.byID[id]
			if !n.IsMapping() {
				continue
			}
			if !yield(id, n) {
				return
			}
		}
	}
}
