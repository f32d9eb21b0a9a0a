package controllers

import (
	"log"
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	Events *services.EventService
}

func NewEventController(events *services.EventService) *EventController {
	return &EventController{Events: events}
}

// GetEvents (GET /api/events?category=) passes the remote feed through,
// falling back to seeded rows when the feed is down.
func (ctrl *EventController) GetEvents(c *gin.Context) {
	category := c.Query("category")

	events, source, err := ctrl.Events.ListEvents(c.Request.Context(), category)
	if err != nil {
		log.Printf("❌ Failed to list events: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"source":     source,
		"categories": services.Categories(events),
		"data":       events,
	})
}
