package shift

import "attendseed/internal/domain/doc"

// Shift holds state for a named work-schedule category.
type Shift struct {
	ID   string
	Name string
}

// Fallback returns the in-memory shift set used when the shifts collection is
// empty. Unlike the default branch, these are never persisted.
func Fallback() []Shift {
	return []Shift{
		{ID: "A", Name: "Shift A"},
		{ID: "B", Name: "Shift B"},
		{ID: "C", Name: "Shift C"},
	}
}

// FromDoc builds a Shift from a store document. An empty stored name falls
// back to the document ID.
func FromDoc(id string, d map[string]any) Shift {
	name := doc.AsString(d, "name")
	if name == "" {
		name = id
	}
	return Shift{ID: id, Name: name}
}
