package model

// SortKey names an ordering of the collection.
type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortTitle    SortKey = "title"
	SortModified SortKey = "modified"
)

// Valid reports whether k is a known ordering. Unknown keys are not an
// error anywhere; they mean "stored order".
func (k SortKey) Valid() bool {
	switch k {
	case SortNewest, SortOldest, SortTitle, SortModified:
		return true
	}
	return false
}
