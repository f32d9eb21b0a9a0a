// services/event_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"gorm.io/gorm"
)

// EventService passes the remote events feed through and falls back to the
// seeded database rows when the feed is unreachable.
type EventService struct {
	DB      *gorm.DB
	FeedURL string
	Client  *http.Client
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		DB:      db,
		FeedURL: utils.EnvOrDefault("EVENTS_FEED_URL", "https://joincomvoca.com/panel/event/api/manager.php"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ListEvents returns events plus the source they came from ("feed" or
// "fallback"), optionally filtered by category.
func (s *EventService) ListEvents(ctx context.Context, category string) ([]models.Event, string, error) {
	events, err := s.fetchFeed(ctx)
	source := "feed"
	if err != nil {
		log.Printf("⚠️ Events feed unavailable, serving seeded events: %v", err)
		source = "fallback"
		if dbErr := s.DB.Order("date").Find(&events).Error; dbErr != nil {
			return nil, source, dbErr
		}
	}

	if category == "" {
		return events, source, nil
	}

	filtered := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Category == category {
			filtered = append(filtered, e)
		}
	}
	return filtered, source, nil
}

// Categories returns the distinct categories of the given events, in first
// appearance order.
func Categories(events []models.Event) []string {
	seen := make(map[string]bool, len(events))
	out := make([]string, 0, len(events))
	for _, e := range events {
		if e.Category == "" || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		out = append(out, e.Category)
	}
	return out
}

// fetchFeed accepts either a bare JSON array or a {"data": [...]} wrapper,
// matching what the feed has been seen to return.
func (s *EventService) fetchFeed(ctx context.Context) ([]models.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	var events []models.Event
	if err := json.Unmarshal(body, &events); err == nil {
		return events, nil
	}

	var wrapped struct {
		Data []models.Event `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	return wrapped.Data, nil
}
