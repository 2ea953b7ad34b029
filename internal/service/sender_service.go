package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"soundhaus/internal/db"
	"soundhaus/internal/entities"
	"soundhaus/internal/utils"
)

// Notifier is the notification surface the booking flows depend on. All
// sends are fire-and-forget; failures are logged, never surfaced to the
// customer-facing request.
type Notifier interface {
	SendBookingEmail(booking *db.Booking, status string)
	SendBookingSMS(booking *db.Booking, status string)
	SendDeliverableEmail(booking *db.Booking, title, downloadURL string)
}

type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) SendBookingEmail(booking *db.Booking, status string) {
	emailData := entities.BookingEmailData{
		CustomerName:     booking.CustomerName,
		BookingCode:      booking.Code,
		ServiceType:      booking.ServiceType,
		SessionFormatted: utils.FormatSessionWindow(booking.SessionDate, booking.StartHour, booking.EndHour()),
		DepositFormatted: utils.FormatCents(booking.DepositCents),
		TotalFormatted:   utils.FormatCents(booking.TotalCents),
		CurrentYear:      time.Now().UTC().Year(),
		Status:           status,
	}

	emailSubject := fmt.Sprintf("Your Soundhaus session is %s - Code: %s", status, emailData.BookingCode)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour %s session at Soundhaus Studios is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Session: %s\n"+
			"Deposit: %s\n"+
			"Total: %s\n\n"+
			"Thank you for choosing Soundhaus Studios.",
		emailData.CustomerName, emailData.ServiceType, status,
		emailData.BookingCode, emailData.SessionFormatted,
		emailData.DepositFormatted, emailData.TotalFormatted,
	)

	htmlBody := renderEmailTemplate("booking_email.html", emailData)

	go func(toEmail, toName, subject, plainBody, htmlContent string) {
		if errEmail := SendEmailWithSendGrid(toEmail, toName, subject, plainBody, htmlContent); errEmail != nil {
			log.Printf("ALERT (async): email send failed for booking %s: %v", emailData.BookingCode, errEmail)
		}
	}(booking.CustomerEmail, emailData.CustomerName, emailSubject, plainTextBody, htmlBody)
}

func (s *SenderService) SendBookingSMS(booking *db.Booking, status string) {
	smsMessage := fmt.Sprintf("Soundhaus Studios: booking %s is %s!\nSession: %s.\nMore details in your email.",
		booking.Code, status,
		utils.FormatSessionWindow(booking.SessionDate, booking.StartHour, booking.EndHour()),
	)

	go func(phone, message, code string) {
		if errSMS := SendSMS(phone, message); errSMS != nil {
			log.Printf("ALERT (async): SMS send failed for booking %s to %s: %v", code, phone, errSMS)
		}
	}(booking.CustomerPhone, smsMessage, booking.Code)
}

func (s *SenderService) SendDeliverableEmail(booking *db.Booking, title, downloadURL string) {
	subject := fmt.Sprintf("Your Soundhaus deliverable is ready - %s", title)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nA new deliverable for booking %s is ready to download:\n\n"+
			"%s\n%s\n\n"+
			"Thank you for choosing Soundhaus Studios.",
		booking.CustomerName, booking.Code, title, downloadURL,
	)

	go func(toEmail, toName string) {
		if errEmail := SendEmailWithSendGrid(toEmail, toName, subject, plainTextBody, ""); errEmail != nil {
			log.Printf("ALERT (async): deliverable email failed for booking %s: %v", booking.Code, errEmail)
		}
	}(booking.CustomerEmail, booking.CustomerName)
}

func renderEmailTemplate(name string, data entities.BookingEmailData) string {
	tmplPath := filepath.Join("internal", "templates", name)
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERT: failed to parse email template (%s): %v", tmplPath, err)
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("ALERT: failed to execute email template for booking %s: %v", data.BookingCode, err)
		return ""
	}
	return buf.String()
}
