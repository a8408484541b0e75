package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewListMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		perPage    int
		total      int
		wantPages  int
	}{
		{"empty result has zero pages", 1, 20, 0, 0},
		{"exact multiple", 1, 20, 40, 2},
		{"partial last page", 1, 20, 41, 3},
		{"single row", 1, 20, 1, 1},
		{"per page one", 5, 1, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewListMeta(tt.page, tt.perPage, tt.total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.perPage, meta.PerPage)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.wantPages, meta.TotalPages)
		})
	}
}

func TestUpdateRequestIsEmpty(t *testing.T) {
	assert.True(t, UpdateStylistRequest{}.IsEmpty())
	assert.True(t, UpdateCelebrityRequest{}.IsEmpty())

	name := "A"
	assert.False(t, UpdateStylistRequest{FullName: &name}.IsEmpty())
	assert.False(t, UpdateCelebrityRequest{Industry: &name}.IsEmpty())
}
