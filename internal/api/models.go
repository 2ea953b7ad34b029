package api

// Admin booking mutations
type BookingIDRequest struct {
	BookingID int `json:"booking_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// Blocked intervals
type CreateBlockedIntervalRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD
	EntireDay bool   `json:"entire_day"`
	StartHour *int   `json:"start_hour,omitempty"`
	EndHour   *int   `json:"end_hour,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type BlockedIntervalResponse struct {
	ID        int    `json:"id"`
	Date      string `json:"date"`
	EntireDay bool   `json:"entire_day"`
	StartHour *int   `json:"start_hour,omitempty"`
	EndHour   *int   `json:"end_hour,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Admin auth
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type CreateAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
