package models

import (
	"time"
)

// BlogPost is an article shown on the community blog page.
type BlogPost struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Excerpt   string    `json:"excerpt" gorm:"type:text"`
	Content   string    `json:"content" gorm:"type:text"`
	Author    string    `json:"author"`
	Date      string    `json:"date"` // display date, e.g. "Dec 10, 2025"
	Category  string    `json:"category"`
	ReadTime  string    `json:"readTime"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
