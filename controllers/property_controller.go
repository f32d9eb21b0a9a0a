package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"rental-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// rateWarmer triggers a background rate refresh; results land in the
// day-rate snapshot cache.
type rateWarmer interface {
	Refresh(propKey, roomID string, from, to time.Time)
}

type PropertyController struct {
	Catalog *services.PropertyService
	Rates   rateWarmer
}

func NewPropertyController(catalog *services.PropertyService, rates rateWarmer) *PropertyController {
	return &PropertyController{Catalog: catalog, Rates: rates}
}

// ----------------------------------------------------
// 1. Get Properties (GET /api/properties)
// ----------------------------------------------------

func (ctrl *PropertyController) GetProperties(c *gin.Context) {
	props, err := ctrl.Catalog.ListProperties(c.Request.Context())
	if err != nil {
		log.Printf("❌ Failed to list properties: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load properties.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"total":  len(props),
		"data":   props,
	})
}

// ----------------------------------------------------
// 2. Get Property (GET /api/properties/:propKey)
// ----------------------------------------------------

func (ctrl *PropertyController) GetPropertyByKey(c *gin.Context) {
	propKey := c.Param("propKey")

	prop, err := ctrl.Catalog.FindByPropKey(c.Request.Context(), propKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Property '%s' not found.", propKey),
			})
			return
		}
		log.Printf("❌ Failed to load property %s: %v", propKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load property.",
		})
		return
	}

	// Warm the rate snapshot for the coming month so the booking widget has
	// availability ready by the time the visitor picks dates.
	if ctrl.Rates != nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		ctrl.Rates.Refresh(prop.PropKey, prop.RoomID, today, today.AddDate(0, 1, 0))
	}

	c.JSON(http.StatusOK, prop)
}
