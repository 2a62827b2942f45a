package persist

import "sort"

// RowUpdate is one field-level change against the remote compiled text.
// A tombstone deletes the remote field for a row index that no longer
// compiles to anything.
type RowUpdate struct {
	Index     int
	Text      string
	Tombstone bool
}

// DiffRows compares two compiled states and returns the minimal update
// set, ordered by index. Identical states produce nil, which is what
// keeps a no-op edit burst from touching the remote at all.
func DiffRows(prev, cur map[int]string) []RowUpdate {
	var out []RowUpdate
	for idx, txt := range cur {
		if p, ok := prev[idx]; !ok || p != txt {
			out = append(out, RowUpdate{Index: idx, Text: txt})
		}
	}
	for idx := range prev {
		if _, ok := cur[idx]; !ok {
			out = append(out, RowUpdate{Index: idx, Tombstone: true})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
