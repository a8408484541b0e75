package models

import "time"

// Celebrity represents a celebrity directory entry
type Celebrity struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Industry  *string   `db:"industry" json:"industry,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Celebrity) TableName() string {
	return "celebrities"
}

// CelebritySummary is a single row of a celebrity listing, including the
// derived count of distinct linked stylists.
type CelebritySummary struct {
	ID           int64     `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Industry     *string   `db:"industry" json:"industry,omitempty"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	StylistCount int       `db:"stylist_count" json:"stylist_count"`
}

// LinkedStylist is a stylist linked to a celebrity, carrying the link notes
type LinkedStylist struct {
	ID       int64   `db:"id" json:"id"`
	FullName string  `db:"full_name" json:"full_name"`
	Email    *string `db:"email" json:"email,omitempty"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
	Notes    *string `db:"notes" json:"notes,omitempty"`
}

// CelebrityDetail is a full celebrity record with its linked stylists
type CelebrityDetail struct {
	Celebrity
	Stylists []LinkedStylist `json:"stylists"`
}

// CelebrityOption is a minimal (id, name) pair for selection widgets
type CelebrityOption struct {
	ID       int64  `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
}

// UpdateCelebrityRequest is a partial field set for updating a celebrity.
// Nil fields are left untouched.
type UpdateCelebrityRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Industry *string `json:"industry,omitempty"`
}

// IsEmpty reports whether no fields are set
func (r UpdateCelebrityRequest) IsEmpty() bool {
	return r.FullName == nil && r.Industry == nil
}
