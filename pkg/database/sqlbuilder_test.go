package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"under_score", `under\_score`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLike(tt.input))
	}
}

func TestInsertBuilderOnConflictDoNothing(t *testing.T) {
	ib := NewInsertBuilder()
	ib.InsertInto("stylist_celebrity")
	ib.Cols("stylist_id", "celebrity_id")
	ib.Values(1, 2)
	ib.OnConflictDoNothing()

	sql, args := ib.Build()
	assert.Contains(t, sql, "ON CONFLICT DO NOTHING")
	assert.Equal(t, []interface{}{1, 2}, args)
}

func TestBuildersUsePostgresPlaceholders(t *testing.T) {
	sb := NewSelectBuilder()
	sb.Select("id")
	sb.From("stylists")
	sb.Where(sb.Equal("id", int64(7)))

	sql, args := sb.Build()
	assert.Contains(t, sql, "$1")
	assert.Equal(t, []interface{}{int64(7)}, args)
}
