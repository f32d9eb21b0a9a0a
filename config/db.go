package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"rental-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "rental_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, nil
}

func mustJSONList(items ...string) []byte {
	b, err := json.Marshal(items)
	if err != nil {
		log.Fatalf("Error marshaling seed list: %v", err)
	}
	return b
}

// SeedDatabase makes the catalog and events usable before the first remote
// refresh. Idempotent: existing rows are left alone.
func SeedDatabase() {
	var propCount int64
	DB.Model(&models.Property{}).Count(&propCount)
	if propCount == 0 {
		properties := []models.Property{
			{
				PropKey:       "desert-oasis-villa",
				Name:          "Desert Oasis Villa",
				Tagline:       "Luxury retreat with stunning mountain views",
				Description:   "A private villa with pool, spa and panoramic views of the Santa Rosa mountains.",
				City:          "Palm Desert",
				State:         "CA",
				Bedrooms:      4,
				Bathrooms:     3,
				MaxGuests:     10,
				PricePerNight: 495,
				CleaningFee:   150,
				Rating:        4.9,
				Reviews:       128,
				Amenities:     mustJSONList("Private Pool", "Hot Tub", "Wi-Fi", "Outdoor Kitchen"),
				HouseRules:    mustJSONList("No parties or events", "No smoking", "Quiet hours after 10pm"),
				Featured:      true,
			},
			{
				PropKey:       "palm-springs-modern",
				Name:          "Palm Springs Modern",
				Tagline:       "Mid-century modern masterpiece",
				Description:   "Iconic mid-century architecture, walkable to downtown Palm Springs.",
				City:          "Palm Springs",
				State:         "CA",
				Bedrooms:      3,
				Bathrooms:     2,
				MaxGuests:     6,
				PricePerNight: 375,
				CleaningFee:   150,
				Rating:        4.8,
				Reviews:       94,
				Amenities:     mustJSONList("Saltwater Pool", "Fire Pit", "Wi-Fi", "EV Charger"),
				HouseRules:    mustJSONList("No smoking", "No pets"),
			},
			{
				PropKey:       "coachella-ranch-estate",
				Name:          "Coachella Ranch Estate",
				Tagline:       "Sprawling estate perfect for groups",
				Description:   "Five bedrooms on two acres, minutes from the festival grounds.",
				City:          "Indio",
				State:         "CA",
				Bedrooms:      5,
				Bathrooms:     4,
				MaxGuests:     14,
				PricePerNight: 695,
				CleaningFee:   150,
				Rating:        4.7,
				Reviews:       61,
				Amenities:     mustJSONList("Pool", "Tennis Court", "Wi-Fi", "Game Room"),
				HouseRules:    mustJSONList("No parties or events", "Quiet hours after 10pm"),
			},
		}
		if err := DB.Create(&properties).Error; err != nil {
			log.Printf("warning: failed to seed properties: %v", err)
		} else {
			log.Println("Properties seeded")
		}
	}

	var eventCount int64
	DB.Model(&models.Event{}).Count(&eventCount)
	if eventCount == 0 {
		events := []models.Event{
			{
				EventID:     "farmers-market",
				Title:       "Certified Farmers' Market",
				Description: "Local produce, food stalls and live music in Old Town.",
				Date:        "2026-09-06",
				Time:        "8:00 AM - 12:30 PM",
				Location:    "La Quinta, CA",
				Category:    "Food & Drink",
			},
			{
				EventID:     "village-fest",
				Title:       "Palm Springs VillageFest",
				Description: "Weekly street fair along Palm Canyon Drive.",
				Date:        "2026-09-10",
				Time:        "6:00 PM - 10:00 PM",
				Location:    "Palm Springs, CA",
				Category:    "Community",
			},
		}
		if err := DB.Create(&events).Error; err != nil {
			log.Printf("warning: failed to seed events: %v", err)
		} else {
			log.Println("Events seeded")
		}
	}

	var settingCount int64
	DB.Model(&models.SiteSetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.SiteSetting{
			Name:    "Coachella Valley Stays",
			Tagline: "Hand-picked vacation rentals in the desert",
			Email:   "stay@example.com",
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed site settings: %v", err)
		} else {
			log.Println("Site settings seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.SiteSetting{},
		&models.Property{},
		&models.Event{},
		&models.Inquiry{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
