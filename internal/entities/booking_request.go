package entities

type BookingRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	ServiceType   string `json:"service_type"`
	Date          string `json:"date"` // YYYY-MM-DD
	StartHour     int    `json:"start_hour"`
	DurationHours int    `json:"duration_hours"`
	Notes         string `json:"notes"`
}
