package catalog

// Record is a persisted catalog entry.
type Record struct {
	// ID is the stable identity. It is never reused for a different item.
	ID string `json:"id" yaml:"id"`

	// Name is the most recently observed display name.
	Name string `json:"name" yaml:"name"`

	// Href is the normalized link path, empty for name-only (legacy) records.
	Href string `json:"href" yaml:"href"`

	// Category is the first path segment of Href.
	Category string `json:"category" yaml:"category"`

	// Price is the last observed non-empty price string.
	Price string `json:"price" yaml:"price"`

	// Missing is set when the latest accepted snapshot did not contain the record.
	Missing bool `json:"missing" yaml:"missing"`
}

// IsLegacy reports whether the record has no stored link path.
func (r Record) IsLegacy() bool {
	return r.Href == ""
}

// RawListing is a single listing tuple as extracted from a source page.
// Href may be absolute, relative, or empty.
type RawListing struct {
	Name  string `json:"name" yaml:"name"`
	Href  string `json:"href" yaml:"href"`
	Price string `json:"price" yaml:"price"`
}

// Snapshot is the ordered set of raw listings from one fetch pass.
type Snapshot []RawListing
