package repository

// Record types used by the browser's bookmark table
const (
	TypeBookmark  = 1
	TypeFolder    = 2
	TypeSeparator = 3
)

// PlaceRecord is one row of the bookmark table joined with its page row.
// Nullable columns are pointers; URL is empty when the record has no page.
type PlaceRecord struct {
	ID           int64
	ParentID     *int64
	Type         int
	Title        string
	URL          string
	DateAdded    *int64
	LastModified *int64
	LastVisit    *int64
}

// PlacesRepository reads bookmark records from a relational store
type PlacesRepository interface {
	// Records returns every bookmark record ordered by id ascending
	Records() ([]PlaceRecord, error)
	Close() error
}
