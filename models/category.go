package models

import "time"

// Category groups threads. Categories are append-only: they are seeded at
// bootstrap or created ad hoc, never deleted.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SeedCategories is the fixed set inserted on an empty store, in this order.
var SeedCategories = []string{"General", "Technology", "Sports", "Entertainment"}
