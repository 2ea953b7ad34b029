package entities

type RateResponse struct {
	ServiceType     string `json:"service_type"`
	HourlyRateCents int    `json:"hourly_rate_cents"`
}
