package entities

// CheckoutResponse is returned after a conflict-free booking request: the
// booking exists as pending_deposit and the customer is sent to Stripe to
// pay the deposit.
type CheckoutResponse struct {
	Code        string `json:"booking_code"`
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}
