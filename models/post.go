package models

import "time"

// Post is a reply belonging to exactly one thread. Deleting the parent thread
// deletes its posts. Author is a denormalized username string, same as on
// Thread.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"index;not null" json:"thread_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    string    `gorm:"size:64;not null" json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
