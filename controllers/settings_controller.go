package controllers

import (
	"log"
	"net/http"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// settingsStore is the narrow view of the settings service this controller
// needs.
type settingsStore interface {
	GetSite() (models.SiteSetting, error)
	SaveSite(in models.SiteSetting) (models.SiteSetting, error)
}

type SettingsController struct {
	Settings settingsStore
}

func NewSettingsController(settings settingsStore) *SettingsController {
	return &SettingsController{Settings: settings}
}

type siteSettingsRequest struct {
	Name    string `json:"name" binding:"required"`
	Tagline string `json:"tagline"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}

// GetSiteSettings (GET /api/settings/site) returns the site identity shown in
// the header and footer. An unsaved site comes back as an empty object.
func (ctrl *SettingsController) GetSiteSettings(c *gin.Context) {
	site, err := ctrl.Settings.GetSite()
	if err != nil {
		log.Printf("❌ Failed to load site settings: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load site settings.")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"site": site})
}

// UpdateSiteSettings (PUT /api/settings/site) replaces the site identity.
func (ctrl *SettingsController) UpdateSiteSettings(c *gin.Context) {
	var req siteSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	site, err := ctrl.Settings.SaveSite(models.SiteSetting{
		Name:    req.Name,
		Tagline: req.Tagline,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Website: req.Website,
		Logo:    req.Logo,
	})
	if err != nil {
		log.Printf("❌ Failed to save site settings: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save site settings.")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"site": site})
}
