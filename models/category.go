package models

import "time"

type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultCategories is the fixed reference set seeded at bootstrap.
var DefaultCategories = []string{"Electronics", "Fashion", "Home", "Books", "Other"}
