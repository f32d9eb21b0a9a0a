package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDayRateService(baseURL string) *DayRateService {
	return &DayRateService{
		BaseURL:   baseURL,
		Client:    &http.Client{Timeout: 5 * time.Second},
		gens:      make(map[string]uint64),
		snapshots: make(map[string]RateSnapshot),
	}
}

func TestFetchParsesWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "desert-oasis-villa", r.URL.Query().Get("propKey"))
		assert.Equal(t, "637297", r.URL.Query().Get("roomId"))
		assert.Equal(t, "20260910", r.URL.Query().Get("from"))
		assert.Equal(t, "20260912", r.URL.Query().Get("to"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"20260910": {"i": 1, "p1": "495.00", "m": "2"},
			"20260911": {"i": 0, "p1": "495.00", "m": "2"},
			"20260912": {"i": 1, "p1": "not-a-price", "m": "bogus"}
		}`))
	}))
	defer srv.Close()

	svc := newTestDayRateService(srv.URL)
	feed, err := svc.Fetch(context.Background(), "desert-oasis-villa", "637297",
		time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, DayQuote{Available: true, NightlyPrice: 495, MinStayNights: 2}, feed["20260910"])
	assert.False(t, feed["20260911"].Available)

	// Malformed price/min-stay degrade that day, availability survives.
	assert.True(t, feed["20260912"].Available)
	assert.Zero(t, feed["20260912"].NightlyPrice)
	assert.Zero(t, feed["20260912"].MinStayNights)

	snap, ok := svc.Snapshot("desert-oasis-villa")
	require.True(t, ok)
	assert.Equal(t, "20260910", snap.From)
	assert.Equal(t, "20260912", snap.To)
	assert.Len(t, snap.Quotes, 3)
}

func TestFetchHTTPErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newTestDayRateService(srv.URL)
	_, err := svc.Fetch(context.Background(), "k", "r", time.Now(), time.Now())
	require.Error(t, err)

	_, ok := svc.Snapshot("k")
	assert.False(t, ok, "failed fetches must not populate the snapshot")
}

func TestFetchMalformedBodySurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	svc := newTestDayRateService(srv.URL)
	_, err := svc.Fetch(context.Background(), "k", "r", time.Now(), time.Now())
	require.Error(t, err)
}

func TestStaleResponseNeverOverwritesFresherRange(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		w.Header().Set("Content-Type", "application/json")
		if from == "20260910" {
			close(firstArrived)
			<-releaseFirst // hold the older request until the newer one is done
			w.Write([]byte(`{"20260910": {"i": 1, "p1": "100.00", "m": "1"}}`))
			return
		}
		w.Write([]byte(`{"20261001": {"i": 1, "p1": "900.00", "m": "1"}}`))
	}))
	defer srv.Close()

	svc := newTestDayRateService(srv.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// The older fetch completes last.
		_, _ = svc.Fetch(context.Background(), "k", "r",
			time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC))
	}()

	<-firstArrived // the older fetch holds the older generation now

	_, err := svc.Fetch(context.Background(), "k", "r",
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	close(releaseFirst)
	wg.Wait()

	snap, ok := svc.Snapshot("k")
	require.True(t, ok)
	assert.Equal(t, "20261001", snap.From, "latest issued fetch must win")
	assert.Equal(t, 900.0, snap.Quotes["20261001"].NightlyPrice)
	_, staleKept := snap.Quotes["20260910"]
	assert.False(t, staleKept)
}

func TestApplyGenerationGuard(t *testing.T) {
	svc := newTestDayRateService("http://unused")

	gen1 := svc.nextGen("k")
	gen2 := svc.nextGen("k")

	applied := svc.apply(gen1, RateSnapshot{PropKey: "k", From: "20260910", To: "20260912"})
	assert.False(t, applied, "superseded generation must be discarded")

	applied = svc.apply(gen2, RateSnapshot{PropKey: "k", From: "20261001", To: "20261003"})
	assert.True(t, applied)

	snap, ok := svc.Snapshot("k")
	require.True(t, ok)
	assert.Equal(t, "20261001", snap.From)

	// Generations are tracked per property key.
	other := svc.nextGen("other")
	assert.True(t, svc.apply(other, RateSnapshot{PropKey: "other", From: "20260901", To: "20260902"}))
	snap, _ = svc.Snapshot("k")
	assert.Equal(t, "20261001", snap.From)
}
