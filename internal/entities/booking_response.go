package entities

import "time"

type BookingResponse struct {
	ID             int        `json:"id"`
	Code           string     `json:"code"`
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"customer_email"`
	CustomerPhone  string     `json:"customer_phone"`
	ServiceType    string     `json:"service_type"`
	Date           string     `json:"date"`
	StartHour      int        `json:"start_hour"`
	EndHour        int        `json:"end_hour"`
	DurationHours  int        `json:"duration_hours"`
	Notes          string     `json:"notes,omitempty"`
	TotalCents     int        `json:"total_cents"`
	DepositCents   int        `json:"deposit_cents"`
	RemainderCents int        `json:"remainder_cents"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}
