// services/dayrate_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"rental-backend/utils"
)

// dayRateEntry is the feed's wire format for one day:
// i = 0|1 (unavailable/available), p1 = string-encoded price,
// m = string-encoded minimum stay.
type dayRateEntry struct {
	I  int    `json:"i"`
	P1 string `json:"p1"`
	M  string `json:"m"`
}

// RateSnapshot is the most recently applied feed result for a property.
type RateSnapshot struct {
	PropKey   string       `json:"propKey"`
	RoomID    string       `json:"roomId,omitempty"`
	From      string       `json:"from"` // YYYYMMDD
	To        string       `json:"to"`   // YYYYMMDD
	Quotes    DayQuoteFeed `json:"quotes"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

// DayRateService talks to the external day-rate feed and keeps a per-property
// snapshot of the latest result. Fetches are guarded by a generation counter:
// a response is applied only if no newer fetch for the same property was
// issued after it, so an in-flight stale response can never overwrite a
// fresher range (last write by issue order wins).
type DayRateService struct {
	BaseURL string
	Client  *http.Client

	mu        sync.Mutex
	gens      map[string]uint64
	snapshots map[string]RateSnapshot
}

func NewDayRateService() *DayRateService {
	return &DayRateService{
		BaseURL:   utils.EnvOrDefault("DAY_RATE_FEED_URL", "https://joincomvoca.com/panel/getBooking.php"),
		Client:    &http.Client{Timeout: 10 * time.Second},
		gens:      make(map[string]uint64),
		snapshots: make(map[string]RateSnapshot),
	}
}

// Fetch retrieves quotes for the stayed-day span [from, to] (inclusive, both
// compacted to YYYYMMDD) and applies them to the snapshot cache when still
// the newest request for the property.
func (s *DayRateService) Fetch(ctx context.Context, propKey, roomID string, from, to time.Time) (DayQuoteFeed, error) {
	gen := s.nextGen(propKey)

	fromStr := utils.FormatCompactDate(from)
	toStr := utils.FormatCompactDate(to)

	quotes, err := s.fetchRange(ctx, propKey, roomID, fromStr, toStr)
	if err != nil {
		return nil, err
	}

	s.apply(gen, RateSnapshot{
		PropKey:   propKey,
		RoomID:    roomID,
		From:      fromStr,
		To:        toStr,
		Quotes:    quotes,
		FetchedAt: time.Now().UTC(),
	})

	return quotes, nil
}

// Refresh is the fire-and-forget variant: it fetches in the background and
// relies on the generation guard to discard itself when superseded.
func (s *DayRateService) Refresh(propKey, roomID string, from, to time.Time) {
	gen := s.nextGen(propKey)
	fromStr := utils.FormatCompactDate(from)
	toStr := utils.FormatCompactDate(to)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		quotes, err := s.fetchRange(ctx, propKey, roomID, fromStr, toStr)
		if err != nil {
			log.Printf("⚠️ Background rate refresh failed for %s: %v", propKey, err)
			return
		}
		s.apply(gen, RateSnapshot{
			PropKey:   propKey,
			RoomID:    roomID,
			From:      fromStr,
			To:        toStr,
			Quotes:    quotes,
			FetchedAt: time.Now().UTC(),
		})
	}()
}

// Snapshot returns the latest applied result for a property, if any.
func (s *DayRateService) Snapshot(propKey string) (RateSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[propKey]
	return snap, ok
}

func (s *DayRateService) nextGen(propKey string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[propKey]++
	return s.gens[propKey]
}

// apply stores a snapshot unless a newer fetch for the property was issued
// after the one that produced it.
func (s *DayRateService) apply(gen uint64, snap RateSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gens[snap.PropKey] {
		log.Printf("ℹ️ Discarding stale day-rate response for %s (range %s-%s)", snap.PropKey, snap.From, snap.To)
		return false
	}
	s.snapshots[snap.PropKey] = snap
	return true
}

func (s *DayRateService) fetchRange(ctx context.Context, propKey, roomID, from, to string) (DayQuoteFeed, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}
	q := u.Query()
	q.Set("propKey", propKey)
	q.Set("roomId", roomID)
	q.Set("from", from)
	q.Set("to", to)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
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

	var raw map[string]dayRateEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}

	return parseQuotes(raw), nil
}

// parseQuotes converts wire entries into DayQuotes. A day with a malformed
// price keeps its availability flag but degrades to fallback pricing
// (NightlyPrice zero); a malformed minimum stay degrades to no constraint.
func parseQuotes(raw map[string]dayRateEntry) DayQuoteFeed {
	feed := make(DayQuoteFeed, len(raw))
	for day, e := range raw {
		q := DayQuote{Available: e.I == 1}
		if price, err := strconv.ParseFloat(e.P1, 64); err == nil && price > 0 {
			q.NightlyPrice = price
		}
		if minStay, err := strconv.Atoi(e.M); err == nil && minStay > 0 {
			q.MinStayNights = minStay
		}
		feed[day] = q
	}
	return feed
}
