package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPaging(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"defaults", 0, 0, 1, DefaultPerPage},
		{"negative page", -3, 10, 1, 10},
		{"per page too large", 2, 500, 2, MaxPerPage},
		{"valid", 3, 50, 3, 50},
		{"per page lower bound", 1, -1, 1, DefaultPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage := clampPaging(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
		})
	}
}

func TestResolveSort(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		order    string
		wantCol  string
		wantDesc bool
	}{
		{"unknown key falls back to updated_at desc", "bogus", "", "s.updated_at", true},
		{"updated_at defaults to desc", "updated_at", "", "s.updated_at", true},
		{"name defaults to asc", "name", "", "s.full_name", false},
		{"explicit desc", "name", "desc", "s.full_name", true},
		{"explicit asc on updated_at", "updated_at", "asc", "s.updated_at", false},
		{"order is case insensitive", "id", "DESC", "s.id", true},
		{"derived count column", "celebrity_count", "desc", "celebrity_count", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, desc := resolveSort(stylistSortColumns, tt.key, tt.order)
			assert.Equal(t, tt.wantCol, col)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestSortKeyValidation(t *testing.T) {
	assert.True(t, IsStylistSortKey("celebrity_count"))
	assert.True(t, IsStylistSortKey("updated_at"))
	assert.False(t, IsStylistSortKey("created_at"))
	assert.False(t, IsStylistSortKey(""))

	assert.True(t, IsCelebritySortKey("stylist_count"))
	assert.True(t, IsCelebritySortKey("full_name"))
	assert.False(t, IsCelebritySortKey("name"))
}
