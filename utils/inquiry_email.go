package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// SendInquiryNotification emails a contact-form submission to the operator.
// When SMTP is not configured the message is mock-logged instead so local
// development never needs a mail server.
func SendInquiryNotification(recipientEmail, referenceCode, senderName, senderEmail, senderPhone, subject, message string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := EnvOrDefault("SMTP_FROM_NAME", "Rental Website")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] to:%s inquiry:%s from:%s <%s> subject:%s",
			recipientEmail, referenceCode, senderName, senderEmail, subject)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	senderName = safe(senderName)
	senderEmail = safe(senderEmail)
	senderPhone = safe(senderPhone)
	subject = safe(subject)
	referenceCode = safe(referenceCode)

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	mailSubject := fmt.Sprintf("New Inquiry %s — %s", referenceCode, subject)
	boundary := "----=_RENTAL_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"New inquiry received.\n\n"+
			"Reference: %s\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Phone: %s\n"+
			"Subject: %s\n\n"+
			"Message:\n%s\n",
		referenceCode, senderName, senderEmail, senderPhone, subject, message,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<body style="font-family:Arial, Helvetica, sans-serif; color:#222;">
  <h2>New Inquiry</h2>
  <p><strong>Reference:</strong> %s</p>
  <p><strong>Name:</strong> %s</p>
  <p><strong>Email:</strong> %s</p>
  <p><strong>Phone:</strong> %s</p>
  <p><strong>Subject:</strong> %s</p>
  <p><strong>Message:</strong></p>
  <p>%s</p>
</body>
</html>`,
		htmlEscape(referenceCode),
		htmlEscape(senderName),
		htmlEscape(senderEmail),
		htmlEscape(senderPhone),
		htmlEscape(subject),
		htmlEscape(message),
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipientEmail))
	sb.WriteString(fmt.Sprintf("Reply-To: %s\r\n", senderEmail))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", mailSubject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(sb.String())); err != nil {
		log.Printf("❌ Failed to send inquiry email to %s: %v", recipientEmail, err)
		return err
	}

	log.Printf("📨 Inquiry email sent to %s (Reference: %s)", recipientEmail, referenceCode)
	return nil
}

// minimal html escaper for the small strings we use
func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
