package dto

// CheckoutRequestDTO starts a Stripe Checkout session for a price.
type CheckoutRequestDTO struct {
	PriceID string `json:"price_id" validate:"required"`
}

// CheckoutResponseDTO carries the created session back to the frontend.
type CheckoutResponseDTO struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// VerifyRequestDTO confirms a completed checkout session.
type VerifyRequestDTO struct {
	SessionID string `json:"session_id" validate:"required"`
}
