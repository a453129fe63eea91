package core

import (
	"context"

	"careloop-backend-go/internal/models"
)

// UserService defines the interface for user-record operations against the
// external user store.
type UserService interface {
	// GetOrCreate retrieves a user by ID, creating the record on first sight.
	// The bool reports whether a new record was created.
	GetOrCreate(ctx context.Context, userID, email, name string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// CheckoutInput describes a checkout session requested by a user.
type CheckoutInput struct {
	PriceID    string
	Mode       string // "payment" or "subscription"
	SuccessURL string
	CancelURL  string
	CouponID   string
}

// BillingService defines the interface for the hosted-payments boundary.
type BillingService interface {
	// CreateCheckoutSession returns the redirect URL of a new checkout session.
	CreateCheckoutSession(ctx context.Context, userID string, in CheckoutInput) (string, error)
	// CreatePortalSession returns the redirect URL of a customer-portal
	// session for a user that already has a billing profile.
	CreatePortalSession(ctx context.Context, userID, returnURL string) (string, error)
	// HandleWebhook verifies and processes one inbound provider event.
	// Signature verification happens before any state is touched.
	HandleWebhook(ctx context.Context, signature string, payload []byte) error
}
