package model

import "time"

// Recommendation is a generated text insight for a tenant. Plain CRUD rows,
// no computed invariant.
type Recommendation struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Category  string    `db:"category" json:"category"`
	Dismissed bool      `db:"dismissed" json:"dismissed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
