package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Inquiry is a contact-form submission. ReferenceCode is returned to the
// sender and quoted in the notification email.
type Inquiry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;uniqueIndex;size:64" json:"referenceCode"`
	Name          string `gorm:"size:255" json:"name"`
	Email         string `gorm:"size:255" json:"email"`
	Phone         string `gorm:"size:50" json:"phone,omitempty"`
	Subject       string `gorm:"size:255" json:"subject"`
	Message       string `gorm:"type:text" json:"message"`

	// Optional context the form sends along, e.g. the property and dates the
	// visitor was looking at.
	Metadata datatypes.JSON `json:"metadata,omitempty"`

	EmailStatus string `gorm:"column:email_status;size:32;default:PENDING" json:"emailStatus"`
}
