package repositories

import "strings"

const (
	// DefaultPerPage is applied when a listing request omits the page size
	DefaultPerPage = 20
	// MaxPerPage caps the page size of any listing
	MaxPerPage = 100

	// DefaultOptionsLimit is applied when an options request omits the limit
	DefaultOptionsLimit = 200
	// MaxOptionsLimit caps the number of option rows returned
	MaxOptionsLimit = 1000
)

// ListStylistsParams filters and orders a stylist listing
type ListStylistsParams struct {
	Page            int
	PerPage         int
	Search          string
	CelebrityFilter string
	StylistID       *int64
	SortBy          string
	SortOrder       string
}

func (p *ListStylistsParams) normalize() {
	p.Page, p.PerPage = clampPaging(p.Page, p.PerPage)
}

// ListCelebritiesParams filters and orders a celebrity listing
type ListCelebritiesParams struct {
	Page        int
	PerPage     int
	Search      string
	CelebrityID *int64
	Industry    string
	SortBy      string
	SortOrder   string
}

func (p *ListCelebritiesParams) normalize() {
	p.Page, p.PerPage = clampPaging(p.Page, p.PerPage)
}

func clampPaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

var stylistSortColumns = map[string]string{
	"id":              "s.id",
	"name":            "s.full_name",
	"email":           "s.email",
	"phone":           "s.phone",
	"updated_at":      "s.updated_at",
	"celebrity_count": "celebrity_count",
}

var celebritySortColumns = map[string]string{
	"id":            "c.id",
	"full_name":     "c.full_name",
	"industry":      "c.industry",
	"updated_at":    "c.updated_at",
	"stylist_count": "stylist_count",
}

// IsStylistSortKey reports whether key is a valid stylist listing sort key
func IsStylistSortKey(key string) bool {
	_, ok := stylistSortColumns[key]
	return ok
}

// IsCelebritySortKey reports whether key is a valid celebrity listing sort key
func IsCelebritySortKey(key string) bool {
	_, ok := celebritySortColumns[key]
	return ok
}

// resolveSort maps a sort key to its column expression. Unknown keys fall back
// to updated_at. Without an explicit order, updated_at sorts newest first and
// every other key sorts ascending.
func resolveSort(columns map[string]string, key, order string) (string, bool) {
	column, ok := columns[key]
	if !ok {
		key = "updated_at"
		column = columns[key]
	}

	switch strings.ToLower(order) {
	case "asc":
		return column, false
	case "desc":
		return column, true
	default:
		return column, key == "updated_at"
	}
}
