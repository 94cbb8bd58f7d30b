package shared

const (
	// DefaultListLimit is used when a caller does not ask for a page size
	DefaultListLimit = 100
	// MaxListLimit caps a single page
	MaxListLimit = 1000
)

// Filter represents query filter options.
// Offset/Limit follow the skip/limit convention of the public API.
type Filter struct {
	Offset   int
	Limit    int
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Offset:   0,
		Limit:    DefaultListLimit,
		OrderBy:  "created_at",
		OrderDir: "asc",
	}
}

// Normalize clamps offset and limit into their allowed ranges
func (f Filter) Normalize() Filter {
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.OrderDir != "asc" && f.OrderDir != "desc" {
		f.OrderDir = "asc"
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	return f
}

// PageBounds returns the effective skip and limit for a list request
func PageBounds(skip, limit int) (int, int) {
	f := Filter{Offset: skip, Limit: limit}.Normalize()
	return f.Offset, f.Limit
}
