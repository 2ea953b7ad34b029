package entities

// BlockedSlot is the wire shape of a blocked interval returned with an
// availability answer so the caller can explain the conflict.
type BlockedSlot struct {
	EntireDay bool `json:"entire_day"`
	StartHour *int `json:"start_hour,omitempty"`
	EndHour   *int `json:"end_hour,omitempty"`
}

type AvailabilityResponse struct {
	Available    bool          `json:"available"`
	Date         string        `json:"date"`
	StartHour    int           `json:"start_hour"`
	EndHour      int           `json:"end_hour"`
	BlockedSlots []BlockedSlot `json:"blocked_slots"`
}
