package models

import (
	"time"

	"gorm.io/gorm"
)

// Event mirrors the remote events feed entry. Rows seeded here are only the
// fallback shown when the feed is unreachable.
type Event struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	EventID     string `gorm:"column:event_id;uniqueIndex;size:64" json:"id"`
	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Date        string `gorm:"size:20" json:"date"`
	Time        string `gorm:"size:50" json:"time"`
	Location    string `gorm:"size:255" json:"location"`
	Category    string `gorm:"size:100;index" json:"category"`
	Image       string `gorm:"size:500" json:"image,omitempty"`
	Link        string `gorm:"size:500" json:"link,omitempty"`
}
