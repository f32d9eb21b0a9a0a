// services/property_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cleaning fee applied to properties the listing API doesn't price one for.
const defaultCleaningFee = 150

const propertyListCacheKey = "properties:all"

// listingProperty is the remote catalog's wire format. Numeric fields arrive
// as strings; display_price carries a currency symbol.
type listingProperty struct {
	PropID       string  `json:"propId"`
	PropKey      string  `json:"propKey"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Latitude     string  `json:"latitude"`
	Longitude    string  `json:"longitude"`
	MaxPeople    string  `json:"maxPeople"`
	CoverImage   string  `json:"cover_image"`
	StarRating   float64 `json:"star_rating"`
	ReviewsCount int     `json:"reviews_count"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	DisplayPrice string  `json:"display_price"`
	Description  string  `json:"description"`
}

type listingResponse struct {
	Status string            `json:"status"`
	Total  int               `json:"total"`
	Data   []listingProperty `json:"data"`
}

// propertyStore is the persistence half of the catalog, split out so the
// read-through logic can be exercised without MySQL behind it.
type propertyStore interface {
	UpsertAll(props []models.Property) error
	LoadAll() ([]models.Property, error)
	GetByPropKey(propKey string) (*models.Property, error)
}

// gormPropertyStore keeps the catalog in MySQL, keyed by prop_key.
type gormPropertyStore struct {
	db *gorm.DB
}

func (g *gormPropertyStore) UpsertAll(props []models.Property) error {
	return g.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "prop_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"prop_id", "name", "address", "city", "state",
			"latitude", "longitude", "max_guests", "price_per_night",
			"rating", "reviews", "bedrooms", "bathrooms",
			"description", "images", "updated_at",
		}),
	}).Create(&props).Error
}

func (g *gormPropertyStore) LoadAll() ([]models.Property, error) {
	var stored []models.Property
	if err := g.db.Order("featured DESC, name").Find(&stored).Error; err != nil {
		return nil, err
	}
	return stored, nil
}

func (g *gormPropertyStore) GetByPropKey(propKey string) (*models.Property, error) {
	var prop models.Property
	if err := g.db.Where("prop_key = ?", propKey).First(&prop).Error; err != nil {
		return nil, err
	}
	return &prop, nil
}

// PropertyService is the catalog: a read-through of the remote listing API
// with a TTL cache, persisted to MySQL so the site keeps working when the
// listing API is down.
type PropertyService struct {
	ListingURL string
	Client     *http.Client
	store      propertyStore
	cache      *gocache.Cache
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	s := &PropertyService{
		ListingURL: utils.EnvOrDefault("LISTING_API_URL", "https://joincomvoca.com/panel/public_api.php"),
		Client:     &http.Client{Timeout: 10 * time.Second},
		cache:      gocache.New(10*time.Minute, 30*time.Minute),
	}
	if db != nil {
		s.store = &gormPropertyStore{db: db}
	}
	return s
}

// ListProperties serves cache → remote → DB, in that order. A remote failure
// is logged and degrades to whatever the DB holds.
func (s *PropertyService) ListProperties(ctx context.Context) ([]models.Property, error) {
	if cached, ok := s.cache.Get(propertyListCacheKey); ok {
		if props, ok := cached.([]models.Property); ok {
			return props, nil
		}
	}

	props, err := s.refreshFromRemote(ctx)
	if err != nil {
		log.Printf("⚠️ Listing API unavailable, serving catalog from database: %v", err)
		if s.store == nil {
			return nil, err
		}
		return s.store.LoadAll()
	}

	// The upserted rows carry locally curated fields the listing API knows
	// nothing about (featured, amenities, house rules), so serve those
	// rather than the raw remote conversion.
	if s.store != nil {
		if stored, dbErr := s.store.LoadAll(); dbErr == nil && len(stored) > 0 {
			props = stored
		}
	}

	s.cache.Set(propertyListCacheKey, props, gocache.DefaultExpiration)
	return props, nil
}

// FindByPropKey looks the property up locally and falls back to one remote
// refresh for keys the database hasn't seen yet.
func (s *PropertyService) FindByPropKey(ctx context.Context, propKey string) (*models.Property, error) {
	propKey = strings.TrimSpace(propKey)
	if propKey == "" || s.store == nil {
		return nil, gorm.ErrRecordNotFound
	}

	prop, err := s.store.GetByPropKey(propKey)
	if err == nil {
		return prop, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, rErr := s.refreshFromRemote(ctx); rErr != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.store.GetByPropKey(propKey)
}

// refreshFromRemote pulls the full listing, upserts it into MySQL and
// returns the converted properties.
func (s *PropertyService) refreshFromRemote(ctx context.Context) ([]models.Property, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ListingURL, nil)
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

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if listing.Status != "" && listing.Status != "success" && listing.Status != "ok" {
		return nil, fmt.Errorf("listing API status: %s", listing.Status)
	}

	props := make([]models.Property, 0, len(listing.Data))
	for _, lp := range listing.Data {
		props = append(props, convertListingProperty(lp))
	}

	if s.store != nil && len(props) > 0 {
		if err := s.store.UpsertAll(props); err != nil {
			log.Printf("⚠️ Failed to persist catalog refresh: %v", err)
		}
	}

	return props, nil
}

// convertListingProperty maps a remote listing entry onto our model,
// tolerating the API's string-encoded numerics.
func convertListingProperty(lp listingProperty) models.Property {
	prop := models.Property{
		PropKey:       strings.TrimSpace(lp.PropKey),
		PropID:        strings.TrimSpace(lp.PropID),
		Name:          lp.Name,
		Tagline:       strings.TrimSpace(strings.Trim(lp.City+", "+lp.State, ", ")),
		Description:   lp.Description,
		Address:       lp.Address,
		City:          lp.City,
		State:         lp.State,
		Bedrooms:      lp.Bedrooms,
		Bathrooms:     lp.Bathrooms,
		Rating:        lp.StarRating,
		Reviews:       lp.ReviewsCount,
		PricePerNight: parseDisplayPrice(lp.DisplayPrice),
		CleaningFee:   defaultCleaningFee,
	}

	if v, err := strconv.Atoi(strings.TrimSpace(lp.MaxPeople)); err == nil {
		prop.MaxGuests = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(lp.Latitude), 64); err == nil {
		prop.Latitude = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(lp.Longitude), 64); err == nil {
		prop.Longitude = v
	}
	if img := strings.TrimSpace(lp.CoverImage); img != "" {
		if b, err := json.Marshal([]string{img}); err == nil {
			prop.Images = b
		}
	}

	return prop
}

// parseDisplayPrice extracts the numeric part of values like "$225".
func parseDisplayPrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}
