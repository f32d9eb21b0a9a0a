package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"rental-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testProperty() *models.Property {
	return &models.Property{
		PropKey:       "desert-oasis-villa",
		PropID:        "12345",
		RoomID:        "637297",
		Name:          "Desert Oasis Villa",
		MaxGuests:     10,
		PricePerNight: 495,
		CleaningFee:   150,
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"three nights", day(2026, 9, 10), day(2026, 9, 13), 3},
		{"one night", day(2026, 9, 10), day(2026, 9, 11), 1},
		{"same day", day(2026, 9, 10), day(2026, 9, 10), 0},
		{"inverted", day(2026, 9, 13), day(2026, 9, 10), 0},
		{"check-in unset", time.Time{}, day(2026, 9, 13), 0},
		{"check-out unset", day(2026, 9, 10), time.Time{}, 0},
		{"partial day rounds up", day(2026, 9, 10), day(2026, 9, 11).Add(6 * time.Hour), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestSubtotalWithoutFeed(t *testing.T) {
	prop := testProperty()
	checkIn := day(2026, 9, 10)

	subtotal := Subtotal(checkIn, 3, nil, prop)
	assert.Equal(t, 3*prop.PricePerNight, subtotal)

	breakdown := ComputeBreakdown(checkIn, day(2026, 9, 13), nil, prop)
	assert.Equal(t, 3, breakdown.Nights)
	assert.Equal(t, 3*prop.PricePerNight, breakdown.Subtotal)
	assert.Equal(t, prop.CleaningFee, breakdown.CleaningFee)
	assert.Equal(t, breakdown.Subtotal+prop.CleaningFee, breakdown.Total)
}

func TestPriceForDayMixesFedAndFallback(t *testing.T) {
	prop := testProperty()
	feed := DayQuoteFeed{
		"20260910": {Available: true, NightlyPrice: 600, MinStayNights: 1},
		// 20260911 missing: static price applies for that day only.
		"20260912": {Available: true, NightlyPrice: 550, MinStayNights: 1},
	}

	assert.Equal(t, 600.0, PriceForDay(day(2026, 9, 10), feed, prop))
	assert.Equal(t, prop.PricePerNight, PriceForDay(day(2026, 9, 11), feed, prop))
	assert.Equal(t, 550.0, PriceForDay(day(2026, 9, 12), feed, prop))

	assert.Equal(t, 600+prop.PricePerNight+550, Subtotal(day(2026, 9, 10), 3, feed, prop))
}

func TestPriceForDayMalformedFeedPriceFallsBack(t *testing.T) {
	prop := testProperty()
	feed := DayQuoteFeed{
		"20260910": {Available: true, NightlyPrice: 0}, // price did not parse
	}
	assert.Equal(t, prop.PricePerNight, PriceForDay(day(2026, 9, 10), feed, prop))
}

func TestValidateMissingDates(t *testing.T) {
	prop := testProperty()

	v := Validate(time.Time{}, time.Time{}, nil, prop)
	assert.False(t, v.Valid)
	assert.Equal(t, ReasonMissingDates, v.Reason)

	v = Validate(day(2026, 9, 10), time.Time{}, nil, prop)
	assert.Equal(t, ReasonMissingDates, v.Reason)
}

func TestValidateInvalidRange(t *testing.T) {
	prop := testProperty()

	v := Validate(day(2026, 9, 10), day(2026, 9, 10), nil, prop)
	assert.False(t, v.Valid)
	assert.Equal(t, ReasonInvalidRange, v.Reason)

	v = Validate(day(2026, 9, 13), day(2026, 9, 10), nil, prop)
	assert.Equal(t, ReasonInvalidRange, v.Reason)
}

func TestValidateFallbackMinimumStay(t *testing.T) {
	prop := testProperty()

	v := Validate(day(2026, 9, 10), day(2026, 9, 11), nil, prop)
	assert.False(t, v.Valid)
	assert.Equal(t, ReasonMinStayNotMet, v.Reason)
	assert.Equal(t, 2, v.RequiredMinStay)

	v = Validate(day(2026, 9, 10), day(2026, 9, 12), nil, prop)
	assert.True(t, v.Valid)
}

func TestValidateUnavailableDay(t *testing.T) {
	prop := testProperty()
	feed := DayQuoteFeed{
		"20260910": {Available: true, NightlyPrice: 495},
		"20260911": {Available: false, NightlyPrice: 495}, // day 2 sold out
		"20260912": {Available: true, NightlyPrice: 495},
	}

	v := Validate(day(2026, 9, 10), day(2026, 9, 13), feed, prop)
	assert.False(t, v.Valid)
	assert.Equal(t, ReasonDayUnavailable, v.Reason)
	assert.Equal(t, "2026-09-11", v.Date)
}

func TestValidateFeedMinimumStay(t *testing.T) {
	prop := testProperty()
	feed := DayQuoteFeed{
		"20260910": {Available: true, NightlyPrice: 495, MinStayNights: 4},
		"20260911": {Available: true, NightlyPrice: 495, MinStayNights: 4},
		"20260912": {Available: true, NightlyPrice: 495, MinStayNights: 4},
	}

	v := Validate(day(2026, 9, 10), day(2026, 9, 13), feed, prop)
	assert.False(t, v.Valid)
	assert.Equal(t, ReasonMinStayNotMet, v.Reason)
	assert.Equal(t, 4, v.RequiredMinStay)
}

func TestValidateReportsFirstViolationChronologically(t *testing.T) {
	prop := testProperty()
	feed := DayQuoteFeed{
		"20260910": {Available: false},                 // violation on day 1
		"20260911": {Available: true, MinStayNights: 9}, // would also violate
	}

	v := Validate(day(2026, 9, 10), day(2026, 9, 13), feed, prop)
	assert.Equal(t, ReasonDayUnavailable, v.Reason)
	assert.Equal(t, "2026-09-10", v.Date)
}

func TestValidateFeedWithSparseDaysPasses(t *testing.T) {
	prop := testProperty()
	// A one-night stay with a feed present but no quote for the stayed day:
	// the static two-night floor only applies when there is no feed at all.
	feed := DayQuoteFeed{}
	v := Validate(day(2026, 9, 10), day(2026, 9, 11), feed, prop)
	assert.True(t, v.Valid)
}

func TestBuildRedirectURL(t *testing.T) {
	prop := testProperty()

	got, err := BuildRedirectURL("https://engine.example/booking.php", prop, prop.RoomID, day(2026, 9, 10), day(2026, 9, 12), 4)
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "12345", q.Get("propid"))
	assert.Equal(t, "2026-09-10", q.Get("checkin"))
	assert.Equal(t, "2026-09-12", q.Get("checkout"))
	assert.Equal(t, "4", q.Get("numadult"))
	assert.Equal(t, "637297", q.Get("roomid"))
}

func TestBuildRedirectURLOmitsUnknownRoom(t *testing.T) {
	prop := testProperty()
	prop.PropID = ""

	got, err := BuildRedirectURL("https://engine.example/booking.php", prop, "", day(2026, 9, 10), day(2026, 9, 12), 2)
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, prop.PropKey, q.Get("propid"), "falls back to propKey when no numeric id is known")
	assert.False(t, q.Has("roomid"))
}

func TestEstimateWithoutFeedBuildsRedirectOnlyWhenValid(t *testing.T) {
	prop := testProperty()
	svc := &EstimatorService{EngineBaseURL: "https://engine.example/booking.php"}

	// Valid two-night stay: redirect present, static pricing.
	res := svc.Estimate(context.Background(), prop, "", day(2026, 9, 10), day(2026, 9, 12), 2)
	assert.True(t, res.Verdict.Valid)
	assert.Equal(t, FeedStatusNone, res.FeedStatus)
	assert.Equal(t, 2*prop.PricePerNight, res.Breakdown.Subtotal)
	require.NotEmpty(t, res.RedirectURL)

	u, err := url.Parse(res.RedirectURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "12345", q.Get("propid"))
	assert.Equal(t, "2026-09-10", q.Get("checkin"))
	assert.Equal(t, "2026-09-12", q.Get("checkout"))
	assert.Equal(t, "2", q.Get("numadult"))

	// One-night stay fails the static floor: no redirect is built.
	res = svc.Estimate(context.Background(), prop, "", day(2026, 9, 10), day(2026, 9, 11), 2)
	assert.False(t, res.Verdict.Valid)
	assert.Equal(t, ReasonMinStayNotMet, res.Verdict.Reason)
	assert.Empty(t, res.RedirectURL)
}
