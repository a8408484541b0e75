package models

import "time"

// Rep is a representative/agent contact owned by exactly one stylist
type Rep struct {
	ID        int64     `db:"id" json:"id"`
	StylistID int64     `db:"stylist_id" json:"stylist_id"`
	RepName   string    `db:"rep_name" json:"rep_name"`
	Company   *string   `db:"company" json:"company,omitempty"`
	RepEmail  *string   `db:"rep_email" json:"rep_email,omitempty"`
	RepPhone  *string   `db:"rep_phone" json:"rep_phone,omitempty"`
	Territory *string   `db:"territory" json:"territory,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Rep) TableName() string {
	return "stylist_reps"
}

// CreateRepRequest is the payload for adding a rep to a stylist
type CreateRepRequest struct {
	RepName   string  `json:"rep_name" validate:"required"`
	Company   *string `json:"company,omitempty"`
	RepEmail  *string `json:"rep_email,omitempty"`
	RepPhone  *string `json:"rep_phone,omitempty"`
	Territory *string `json:"territory,omitempty"`
}
