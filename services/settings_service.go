// services/settings_service.go
package services

import (
	"errors"

	"rental-backend/models"

	"gorm.io/gorm"
)

// SettingsService owns the single site-settings row (name, tagline, contact
// details shown in the site header and footer).
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// GetSite returns the current settings, or a zero value when none have been
// saved yet.
func (s *SettingsService) GetSite() (models.SiteSetting, error) {
	var site models.SiteSetting
	if err := s.DB.First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SiteSetting{}, nil
		}
		return models.SiteSetting{}, err
	}
	return site, nil
}

// SaveSite updates the settings row, creating it on first save.
func (s *SettingsService) SaveSite(in models.SiteSetting) (models.SiteSetting, error) {
	var site models.SiteSetting
	err := s.DB.First(&site).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		site = models.SiteSetting{}
	case err != nil:
		return models.SiteSetting{}, err
	}

	site.Name = in.Name
	site.Tagline = in.Tagline
	site.Address = in.Address
	site.Phone = in.Phone
	site.Email = in.Email
	site.Website = in.Website
	site.Logo = in.Logo

	if err := s.DB.Save(&site).Error; err != nil {
		return models.SiteSetting{}, err
	}
	return site, nil
}
