// services/estimator_service.go
package services

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"time"

	"rental-backend/models"
	"rental-backend/utils"
)

// Validation verdict reasons. These are user-facing strings; the frontend
// shows them verbatim next to the reserve button.
const (
	ReasonMissingDates   = "missing dates"
	ReasonInvalidRange   = "invalid range"
	ReasonMinStayNotMet  = "minimum stay not met"
	ReasonDayUnavailable = "day unavailable"
)

// Minimum-stay floor applied when no day-rate feed is available for the range.
const fallbackMinStayNights = 2

// Feed status reported with every estimate.
const (
	FeedStatusLive     = "live"
	FeedStatusFallback = "fallback"
	FeedStatusNone     = "none"
)

// DayQuote is one calendar day's state from the day-rate feed. NightlyPrice
// of zero means the feed carried no usable price for the day and the
// property's static nightly price applies.
type DayQuote struct {
	Available     bool    `json:"available"`
	NightlyPrice  float64 `json:"nightlyPrice"`
	MinStayNights int     `json:"minStayNights"`
}

// DayQuoteFeed maps compact dates (YYYYMMDD) to quotes. Sparse: missing days
// fall back to static pricing and are treated as available with no
// minimum-stay constraint.
type DayQuoteFeed map[string]DayQuote

type PriceBreakdown struct {
	Nights      int     `json:"nights"`
	Subtotal    float64 `json:"subtotal"`
	CleaningFee float64 `json:"cleaningFee"`
	Total       float64 `json:"total"`
}

// Verdict is the outcome of validating a requested stay.
type Verdict struct {
	Valid           bool   `json:"valid"`
	Reason          string `json:"reason,omitempty"`
	Date            string `json:"date,omitempty"`            // offending day, YYYY-MM-DD
	RequiredMinStay int    `json:"requiredMinStay,omitempty"` // nights required when Reason is minimum stay
}

type EstimateResult struct {
	Verdict     Verdict        `json:"verdict"`
	Breakdown   PriceBreakdown `json:"breakdown"`
	FeedStatus  string         `json:"feedStatus"`
	Notice      string         `json:"notice,omitempty"`
	RedirectURL string         `json:"redirectUrl,omitempty"`
}

// Nights returns the whole-day difference between check-in and check-out,
// floored at zero. Missing or inverted dates yield zero nights, which is
// "not bookable", not an error.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return 0
	}
	nights := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// PriceForDay returns the effective nightly price for one stayed day: the
// feed's price when the day is keyed and carries a usable price, else the
// property's static nightly price. The fallback applies per day, so a range
// can mix fed and static pricing.
func PriceForDay(day time.Time, feed DayQuoteFeed, prop *models.Property) float64 {
	if feed != nil {
		if q, ok := feed[utils.FormatCompactDate(day)]; ok && q.NightlyPrice > 0 {
			return q.NightlyPrice
		}
	}
	return prop.PricePerNight
}

// Subtotal sums PriceForDay over the stayed days checkIn … checkIn+nights-1.
// The check-out day itself is excluded.
func Subtotal(checkIn time.Time, nights int, feed DayQuoteFeed, prop *models.Property) float64 {
	var sum float64
	for i := 0; i < nights; i++ {
		sum += PriceForDay(checkIn.AddDate(0, 0, i), feed, prop)
	}
	return sum
}

// ComputeBreakdown derives the price breakdown for a stay. Totals carry the
// cleaning fee only; no service or pet fee.
func ComputeBreakdown(checkIn, checkOut time.Time, feed DayQuoteFeed, prop *models.Property) PriceBreakdown {
	nights := Nights(checkIn, checkOut)
	subtotal := Subtotal(checkIn, nights, feed, prop)
	return PriceBreakdown{
		Nights:      nights,
		Subtotal:    subtotal,
		CleaningFee: prop.CleaningFee,
		Total:       subtotal + prop.CleaningFee,
	}
}

// Validate checks a requested stay against the feed and reports the first
// violation in chronological order. It never aggregates violations.
func Validate(checkIn, checkOut time.Time, feed DayQuoteFeed, prop *models.Property) Verdict {
	if checkIn.IsZero() || checkOut.IsZero() {
		return Verdict{Reason: ReasonMissingDates}
	}

	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return Verdict{Reason: ReasonInvalidRange}
	}

	if feed == nil {
		if nights < fallbackMinStayNights {
			return Verdict{Reason: ReasonMinStayNotMet, RequiredMinStay: fallbackMinStayNights}
		}
		return Verdict{Valid: true}
	}

	for i := 0; i < nights; i++ {
		day := checkIn.AddDate(0, 0, i)
		q, ok := feed[utils.FormatCompactDate(day)]
		if !ok {
			continue
		}
		if !q.Available {
			return Verdict{Reason: ReasonDayUnavailable, Date: utils.FormatISODate(day)}
		}
		if q.MinStayNights > nights {
			return Verdict{Reason: ReasonMinStayNotMet, RequiredMinStay: q.MinStayNights}
		}
	}

	return Verdict{Valid: true}
}

// BuildRedirectURL constructs the external reservation engine's checkout URL.
// Pure URL construction; no network call. The parameter names are the
// engine's contract and are not negotiable.
func BuildRedirectURL(baseURL string, prop *models.Property, roomID string, checkIn, checkOut time.Time, guests int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	propID := prop.PropID
	if propID == "" {
		propID = prop.PropKey
	}

	q := url.Values{}
	q.Set("propid", propID)
	q.Set("checkin", utils.FormatISODate(checkIn))
	q.Set("checkout", utils.FormatISODate(checkOut))
	q.Set("numadult", strconv.Itoa(guests))
	if roomID != "" {
		q.Set("roomid", roomID)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// EstimatorService orchestrates a full estimate: fetch quotes for the range,
// compute the breakdown, validate, and on success build the redirect URL.
type EstimatorService struct {
	Feed          *DayRateService
	EngineBaseURL string
}

func NewEstimatorService(feed *DayRateService) *EstimatorService {
	return &EstimatorService{
		Feed:          feed,
		EngineBaseURL: utils.EnvOrDefault("BOOKING_ENGINE_URL", "https://joincomvoca.com/panel/booking.php"),
	}
}

// Estimate runs the full cycle for one request. A feed fetch failure degrades
// to static fallback pricing with a notice; it never blocks the estimate.
func (s *EstimatorService) Estimate(ctx context.Context, prop *models.Property, roomID string, checkIn, checkOut time.Time, guests int) EstimateResult {
	if roomID == "" {
		roomID = prop.RoomID
	}

	var feed DayQuoteFeed
	feedStatus := FeedStatusNone
	notice := ""

	nights := Nights(checkIn, checkOut)
	if nights > 0 && s.Feed != nil {
		// The feed is queried over the stayed days only; the check-out day
		// carries no night of its own.
		lastNight := checkIn.AddDate(0, 0, nights-1)
		fetched, err := s.Feed.Fetch(ctx, prop.PropKey, roomID, checkIn, lastNight)
		if err != nil {
			log.Printf("⚠️ Day-rate feed unavailable for %s: %v", prop.PropKey, err)
			feedStatus = FeedStatusFallback
			notice = "Live rates are temporarily unavailable; standard nightly pricing shown."
		} else {
			feed = fetched
			feedStatus = FeedStatusLive
		}
	}

	result := EstimateResult{
		Verdict:    Validate(checkIn, checkOut, feed, prop),
		Breakdown:  ComputeBreakdown(checkIn, checkOut, feed, prop),
		FeedStatus: feedStatus,
		Notice:     notice,
	}

	if result.Verdict.Valid {
		redirect, err := BuildRedirectURL(s.EngineBaseURL, prop, roomID, checkIn, checkOut, guests)
		if err != nil {
			log.Printf("❌ Failed to build redirect URL for %s: %v", prop.PropKey, err)
		} else {
			result.RedirectURL = redirect
		}
	}

	return result
}
