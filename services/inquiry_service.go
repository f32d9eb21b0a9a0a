// services/inquiry_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"rental-backend/models"
	"rental-backend/utils"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

const inquiryCreateRetries = 5

// InquiryService persists contact-form submissions and notifies the operator
// by email. The email is best-effort; a failed send never loses the inquiry.
type InquiryService struct {
	DB          *gorm.DB
	NotifyEmail string
}

func NewInquiryService(db *gorm.DB) *InquiryService {
	return &InquiryService{
		DB:          db,
		NotifyEmail: utils.EnvOrDefault("INQUIRY_NOTIFY_EMAIL", ""),
	}
}

func (s *InquiryService) CreateInquiry(inq *models.Inquiry) error {
	inq.EmailStatus = "PENDING"

	err := createWithRetry(inquiryCreateRetries, func(ref string) error {
		inq.ReferenceCode = ref
		return s.DB.Create(inq).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save inquiry: %w", err)
	}

	if s.NotifyEmail == "" {
		log.Printf("ℹ️ INQUIRY_NOTIFY_EMAIL not set; inquiry %s saved without notification", inq.ReferenceCode)
		s.DB.Model(inq).Update("email_status", "SKIPPED")
		inq.EmailStatus = "SKIPPED"
		return nil
	}

	sendErr := utils.SendInquiryNotification(
		s.NotifyEmail, inq.ReferenceCode,
		inq.Name, inq.Email, inq.Phone, inq.Subject, inq.Message,
	)
	status := "SENT"
	if sendErr != nil {
		status = "FAILED"
	}
	if uErr := s.DB.Model(inq).Update("email_status", status).Error; uErr != nil {
		log.Printf("warning: failed to update email status for inquiry %s: %v", inq.ReferenceCode, uErr)
	}
	inq.EmailStatus = status

	return nil
}

// createWithRetry runs create with a fresh reference code, regenerating on
// the (unlikely) unique collision. Any other error aborts immediately.
func createWithRetry(maxRetries int, create func(ref string) error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = create(newInquiryReference())
		if err == nil {
			return nil
		}
		if !isDuplicateEntry(err) {
			return err
		}
	}
	return err
}

// isDuplicateEntry reports whether err is a MySQL unique-key violation.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// newInquiryReference builds a short reference like "INQ-9F3A1B07".
func newInquiryReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "INQ-" + id[:8]
}
