package domain

import (
	"fmt"
	"slices"
)

// SortKey selects one of the client-side orderings.
type SortKey string

const (
	SortNone      SortKey = ""
	SortSizeAsc   SortKey = "size-asc"
	SortSizeDesc  SortKey = "size-desc"
	SortLikesDesc SortKey = "likes-desc"
)

// ParseSortKey validates a raw sort key.
func ParseSortKey(raw string) (SortKey, error) {
	switch k := SortKey(raw); k {
	case SortNone, SortSizeAsc, SortSizeDesc, SortLikesDesc:
		return k, nil
	default:
		return SortNone, fmt.Errorf("%w: %q", ErrInvalidSortKey, raw)
	}
}

// SortLandmarks returns a reordered copy of records. SortNone returns the records in
// their input order. All orderings are stable.
func SortLandmarks(records []Landmark, key SortKey) []Landmark {
	out := slices.Clone(records)
	if out == nil {
		out = []Landmark{}
	}

	switch key {
	case SortSizeAsc:
		sortBySize(out, SizeSmall)
	case SortSizeDesc:
		sortBySize(out, SizeLarge)
	case SortLikesDesc:
		slices.SortStableFunc(out, func(a, b Landmark) int {
			return len(b.Likes) - len(a.Likes)
		})
	}
	return out
}

// sortBySize moves records of size first ahead of the other known size. Records whose
// size is neither small nor large compare equal to everything, so they keep their
// positions and only the known-size records are reordered among the remaining slots.
func sortBySize(records []Landmark, first Size) {
	slots := make([]int, 0, len(records))
	known := make([]Landmark, 0, len(records))
	for i, l := range records {
		if l.Size.Valid() {
			slots = append(slots, i)
			known = append(known, l)
		}
	}

	slices.SortStableFunc(known, func(a, b Landmark) int {
		return sizeRank(a.Size, first) - sizeRank(b.Size, first)
	})

	for i, slot := range slots {
		records[slot] = known[i]
	}
}

func sizeRank(s, first Size) int {
	if s == first {
		return 0
	}
	return 1
}
