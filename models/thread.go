package models

import "time"

// Thread title/content length bounds, in runes.
const (
	ThreadTitleMin   = 5
	ThreadTitleMax   = 200
	ThreadContentMin = 10
	ThreadContentMax = 10000
)

// AnonymousAuthor is recorded when no authenticated principal exists.
const AnonymousAuthor = "anonymous"

// Thread is a top-level discussion topic under one category. Author is a
// denormalized username string, not a foreign key to users: ownership checks
// are exact string comparisons against it. CreatedAt is set once at creation
// and never updated.
type Thread struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   Category  `json:"category"`
	Author     string    `gorm:"size:64;not null;index" json:"author"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Posts      []Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"posts,omitempty"`
}

// TableName keeps the historical schema name.
func (Thread) TableName() string { return "forum_threads" }
