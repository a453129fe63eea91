package api

import "careloop-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SwitchProfileRequest selects the current workspace profile.
type SwitchProfileRequest struct {
	ProfileID string `json:"profileId" binding:"required"`
}

// ProfilesResponse lists the available profiles and which one is current.
type ProfilesResponse struct {
	Profiles  []models.Profile `json:"profiles"`
	CurrentID string           `json:"currentId,omitempty"`
}

// SearchResponse carries ranked search results.
type SearchResponse struct {
	Results []models.SearchDocument `json:"results"`
	Count   int                     `json:"count"`
}

// SuggestionsResponse carries type-ahead suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// CreateCheckoutSessionRequest asks for a hosted checkout session.
type CreateCheckoutSessionRequest struct {
	PriceID    string `json:"priceId" binding:"required"`
	Mode       string `json:"mode" binding:"required"`
	SuccessURL string `json:"successUrl,omitempty"`
	CancelURL  string `json:"cancelUrl,omitempty"`
	CouponID   string `json:"couponId,omitempty"`
}

// CreatePortalSessionRequest asks for a customer-portal session.
type CreatePortalSessionRequest struct {
	ReturnURL string `json:"returnUrl,omitempty"`
}

// RedirectResponse returns the provider URL the browser should follow.
type RedirectResponse struct {
	URL string `json:"url"`
}
