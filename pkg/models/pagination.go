package models

// ListMeta is the pagination metadata returned with every listing
type ListMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewListMeta computes pagination metadata. An empty result yields zero pages.
func NewListMeta(page, perPage, total int) ListMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return ListMeta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// StylistListResult is a page of stylist summaries
type StylistListResult struct {
	Items []StylistSummary `json:"items"`
	Meta  ListMeta         `json:"meta"`
}

// CelebrityListResult is a page of celebrity summaries
type CelebrityListResult struct {
	Items []CelebritySummary `json:"items"`
	Meta  ListMeta           `json:"meta"`
}
