package models

import "time"

// Stylist represents a stylist directory entry
type Stylist struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Instagram *string   `db:"instagram" json:"instagram,omitempty"`
	Website   *string   `db:"website" json:"website,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Stylist) TableName() string {
	return "stylists"
}

// StylistSummary is a single row of a stylist listing, including the
// derived count of distinct attached celebrities.
type StylistSummary struct {
	ID             int64     `db:"id" json:"id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
	CelebrityCount int       `db:"celebrity_count" json:"celebrity_count"`
}

// LinkedCelebrity is a celebrity attached to a stylist, carrying the
// free-text notes stored on the link itself.
type LinkedCelebrity struct {
	ID       int64   `db:"id" json:"id"`
	FullName string  `db:"full_name" json:"full_name"`
	Industry *string `db:"industry" json:"industry,omitempty"`
	Notes    *string `db:"notes" json:"notes,omitempty"`
}

// StylistDetail is a full stylist record with its reps and attached celebrities
type StylistDetail struct {
	Stylist
	Reps        []Rep             `json:"reps"`
	Celebrities []LinkedCelebrity `json:"celebrities"`
}

// CreateStylistRequest is the payload for creating a stylist
type CreateStylistRequest struct {
	FullName  string  `json:"full_name" validate:"required"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Website   *string `json:"website,omitempty"`
}

// UpdateStylistRequest is a partial field set for updating a stylist.
// Nil fields are left untouched.
type UpdateStylistRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Website   *string `json:"website,omitempty"`
}

// IsEmpty reports whether no fields are set
func (r UpdateStylistRequest) IsEmpty() bool {
	return r.FullName == nil && r.Email == nil && r.Phone == nil && r.Instagram == nil && r.Website == nil
}

// AttachCelebrityRequest attaches a celebrity to a stylist either by id or by
// exact name (find-or-create).
type AttachCelebrityRequest struct {
	CelebrityID   *int64  `json:"celebrity_id,omitempty"`
	CelebrityName *string `json:"celebrity_name,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}
