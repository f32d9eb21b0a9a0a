package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Narrow views of the services this controller needs, so handlers can be
// exercised without a database behind them.
type propertyFinder interface {
	FindByPropKey(ctx context.Context, propKey string) (*models.Property, error)
}

type bookingEstimator interface {
	Estimate(ctx context.Context, prop *models.Property, roomID string, checkIn, checkOut time.Time, guests int) services.EstimateResult
}

type rateFetcher interface {
	Fetch(ctx context.Context, propKey, roomID string, from, to time.Time) (services.DayQuoteFeed, error)
	Snapshot(propKey string) (services.RateSnapshot, bool)
}

type EstimateController struct {
	Catalog   propertyFinder
	Estimator bookingEstimator
	Rates     rateFetcher
}

func NewEstimateController(catalog propertyFinder, estimator bookingEstimator, rates rateFetcher) *EstimateController {
	return &EstimateController{Catalog: catalog, Estimator: estimator, Rates: rates}
}

type estimateRequest struct {
	PropKey  string `json:"propKey" binding:"required"`
	RoomID   string `json:"roomId"`
	CheckIn  string `json:"checkIn" binding:"omitempty,bookdate"`
	CheckOut string `json:"checkOut" binding:"omitempty,bookdate"`
	Guests   int    `json:"guests" binding:"omitempty,min=1"`
}

// ----------------------------------------------------
// 1. Estimate (POST /api/estimate)
// ----------------------------------------------------

func (ctrl *EstimateController) PostEstimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	if req.Guests == 0 {
		req.Guests = 2
	}

	prop, err := ctrl.Catalog.FindByPropKey(c.Request.Context(), req.PropKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Property '%s' not found.", req.PropKey),
			})
			return
		}
		log.Printf("❌ Catalog lookup failed for %s: %v", req.PropKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load property.",
		})
		return
	}

	if prop.MaxGuests > 0 && req.Guests > prop.MaxGuests {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Guest count exceeds the property maximum of %d.", prop.MaxGuests),
		})
		return
	}

	// Unset dates stay zero; the estimator reports "missing dates" rather
	// than treating them as an error.
	var checkIn, checkOut time.Time
	if req.CheckIn != "" {
		checkIn, _ = utils.ParseISODate(req.CheckIn)
	}
	if req.CheckOut != "" {
		checkOut, _ = utils.ParseISODate(req.CheckOut)
	}

	result := ctrl.Estimator.Estimate(c.Request.Context(), prop, req.RoomID, checkIn, checkOut, req.Guests)
	c.JSON(http.StatusOK, result)
}

// ----------------------------------------------------
// 2. Rates (GET /api/properties/:propKey/rates)
// ----------------------------------------------------

func (ctrl *EstimateController) GetRates(c *gin.Context) {
	propKey := c.Param("propKey")

	from, err := utils.ParseISODate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Query parameter 'from' must be a YYYY-MM-DD date.",
		})
		return
	}
	to, err := utils.ParseISODate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Query parameter 'to' must be a YYYY-MM-DD date.",
		})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "'to' must not be before 'from'.",
		})
		return
	}

	prop, err := ctrl.Catalog.FindByPropKey(c.Request.Context(), propKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Property '%s' not found.", propKey),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load property.",
		})
		return
	}

	quotes, err := ctrl.Rates.Fetch(c.Request.Context(), prop.PropKey, prop.RoomID, from, to)
	if err != nil {
		log.Printf("⚠️ Rate fetch failed for %s: %v", prop.PropKey, err)
		// Serve the last known snapshot rather than failing the page. The
		// reported range is the snapshot's own, which may differ from the
		// one requested.
		if snap, ok := ctrl.Rates.Snapshot(prop.PropKey); ok {
			c.JSON(http.StatusOK, gin.H{
				"propKey":   prop.PropKey,
				"from":      utils.CompactToISO(snap.From),
				"to":        utils.CompactToISO(snap.To),
				"quotes":    snap.Quotes,
				"stale":     true,
				"fetchedAt": snap.FetchedAt,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"status":  "error",
			"message": "Day-rate feed is unavailable.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propKey": prop.PropKey,
		"from":    utils.FormatISODate(from),
		"to":      utils.FormatISODate(to),
		"quotes":  quotes,
	})
}
