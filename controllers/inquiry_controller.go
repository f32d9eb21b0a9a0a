package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// inquiryCreator is the narrow view of the inquiry service this controller
// needs.
type inquiryCreator interface {
	CreateInquiry(inq *models.Inquiry) error
}

type InquiryController struct {
	Inquiries inquiryCreator
}

func NewInquiryController(inquiries inquiryCreator) *InquiryController {
	return &InquiryController{Inquiries: inquiries}
}

type inquiryRequest struct {
	Name    string                 `json:"name" binding:"required"`
	Email   string                 `json:"email" binding:"required,email"`
	Phone   string                 `json:"phone"`
	Subject string                 `json:"subject"`
	Message string                 `json:"message" binding:"required"`
	Context map[string]interface{} `json:"context"`
}

// CreateInquiry (POST /api/inquiries) stores a contact-form submission and
// notifies the operator.
func (ctrl *InquiryController) CreateInquiry(c *gin.Context) {
	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "General inquiry"
	}

	inq := models.Inquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: subject,
		Message: req.Message,
	}
	if len(req.Context) > 0 {
		if b, err := json.Marshal(req.Context); err == nil {
			inq.Metadata = b
		}
	}

	if err := ctrl.Inquiries.CreateInquiry(&inq); err != nil {
		log.Printf("❌ Failed to save inquiry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to submit inquiry.",
		})
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"referenceCode": inq.ReferenceCode,
		"message":       "Thanks for reaching out. We'll get back to you within 24 hours.",
	})
}
