package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property is one rental unit in the catalog. PropKey is the public identifier
// used by the listing API, the day-rate feed and the booking engine; RoomID is
// the engine-side room identifier when the property exposes one.
type Property struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropKey string `gorm:"column:prop_key;uniqueIndex;size:64" json:"id"`
	PropID  string `gorm:"column:prop_id;size:64" json:"propId,omitempty"`
	RoomID  string `gorm:"column:room_id;size:64" json:"roomId,omitempty"`

	Name        string  `gorm:"size:255" json:"name"`
	Tagline     string  `gorm:"size:255" json:"tagline,omitempty"`
	Description string  `gorm:"type:text" json:"description"`
	Address     string  `gorm:"type:text" json:"address,omitempty"`
	City        string  `gorm:"size:100" json:"city"`
	State       string  `gorm:"size:100" json:"state"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`

	Bedrooms  int `json:"bedrooms"`
	Bathrooms int `json:"bathrooms"`
	MaxGuests int `gorm:"column:max_guests" json:"maxGuests"`

	PricePerNight float64 `gorm:"column:price_per_night" json:"pricePerNight"`
	CleaningFee   float64 `gorm:"column:cleaning_fee" json:"cleaningFee"`

	Rating  float64 `json:"rating,omitempty"`
	Reviews int     `json:"reviews,omitempty"`

	Amenities  datatypes.JSON `json:"amenities,omitempty"`
	HouseRules datatypes.JSON `gorm:"column:house_rules" json:"houseRules,omitempty"`
	Images     datatypes.JSON `json:"images,omitempty"`

	Featured bool `gorm:"default:false" json:"featured"`
}
