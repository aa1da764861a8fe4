package domain

// Predicate narrows fetched landmarks. Nil fields do not constrain.
type Predicate struct {
	Size *Size
	Type *string
}

// IsEmpty reports whether the predicate is the identity filter.
func (p Predicate) IsEmpty() bool {
	return p.Size == nil && p.Type == nil
}

// Matches reports whether l satisfies every set field.
func (p Predicate) Matches(l Landmark) bool {
	if p.Size != nil && l.Size != *p.Size {
		return false
	}
	if p.Type != nil && l.Type != *p.Type {
		return false
	}
	return true
}

// FilterLandmarks returns a new slice with the records matching p, in input order.
// The input slice is never modified.
func FilterLandmarks(records []Landmark, p Predicate) []Landmark {
	out := make([]Landmark, 0, len(records))
	for _, l := range records {
		if p.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// DistinctTypes lists the type labels of records in first-seen order.
func DistinctTypes(records []Landmark) []string {
	seen := make(map[string]struct{}, len(records))
	types := make([]string, 0)
	for _, l := range records {
		if _, ok := seen[l.Type]; ok {
			continue
		}
		seen[l.Type] = struct{}{}
		types = append(types, l.Type)
	}
	return types
}
