package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"careloop-backend-go/internal/db"
	"careloop-backend-go/internal/models"
	"careloop-backend-go/internal/payments"
	"careloop-backend-go/pkg/cache"
)

// Errors surfaced by the billing boundary. Nothing here retries: a failed
// provider call is reported to the caller and logged.
var (
	ErrBillingNotConfigured  = errors.New("payments integration is not configured")
	ErrMissingCheckoutFields = errors.New("priceId and mode are required")
	ErrNoBillingProfile      = errors.New("user has no billing profile yet")
	ErrPaymentsAPI           = errors.New("payments API call failed")
	ErrWebhookSignature      = errors.New("webhook signature verification failed")
	ErrWebhookProcessing     = errors.New("webhook processing failed")
)

// webhookDedupeTTL bounds how long processed event ids are remembered for
// replay protection.
const webhookDedupeTTL = 24 * time.Hour

// PaymentsClient is the slice of the provider client the billing service
// uses. Satisfied by *payments.Client.
type PaymentsClient interface {
	CreateCheckoutSession(ctx context.Context, p payments.CheckoutParams) (*payments.Session, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (*payments.Session, error)
}

// billingService implements BillingService against the hosted-payments
// provider and the external user store.
type billingService struct {
	client        PaymentsClient // nil when no secret key is configured
	userRepo      db.UserRepository
	dedupe        cache.Cache
	webhookSecret string
	clientURL     string
	logger        *zap.Logger
}

// NewBillingService creates a BillingService. client may be nil when the
// payments secret key is absent; billing endpoints then fail with
// ErrBillingNotConfigured instead of preventing the service from booting.
func NewBillingService(client PaymentsClient, userRepo db.UserRepository, dedupe cache.Cache, webhookSecret, clientURL string, logger *zap.Logger) BillingService {
	return &billingService{
		client:        client,
		userRepo:      userRepo,
		dedupe:        dedupe,
		webhookSecret: webhookSecret,
		clientURL:     clientURL,
		logger:        logger,
	}
}

// CreateCheckoutSession creates a hosted checkout session for the user and
// returns its redirect URL.
func (s *billingService) CreateCheckoutSession(ctx context.Context, userID string, in CheckoutInput) (string, error) {
	if s.client == nil {
		return "", ErrBillingNotConfigured
	}
	if in.PriceID == "" || in.Mode == "" {
		return "", ErrMissingCheckoutFields
	}
	if in.Mode != "payment" && in.Mode != "subscription" {
		return "", fmt.Errorf("%w: mode must be \"payment\" or \"subscription\"", ErrMissingCheckoutFields)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return "", fmt.Errorf("loading user for checkout: %w", err)
	}

	successURL := in.SuccessURL
	if successURL == "" {
		successURL = s.clientURL + "/billing/success"
	}
	cancelURL := in.CancelURL
	if cancelURL == "" {
		cancelURL = s.clientURL + "/billing/cancelled"
	}

	session, err := s.client.CreateCheckoutSession(ctx, payments.CheckoutParams{
		PriceID:           in.PriceID,
		Mode:              in.Mode,
		SuccessURL:        successURL,
		CancelURL:         cancelURL,
		CouponID:          in.CouponID,
		CustomerID:        user.CustomerID,
		CustomerEmail:     user.Email,
		ClientReferenceID: user.ID,
	})
	if err != nil {
		s.logger.Error("Checkout session creation failed",
			zap.String("userId", userID), zap.String("priceId", in.PriceID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrPaymentsAPI, err)
	}
	return session.URL, nil
}

// CreatePortalSession creates a customer-portal session. The user must have
// completed a checkout before: without a customer id there is no portal.
func (s *billingService) CreatePortalSession(ctx context.Context, userID, returnURL string) (string, error) {
	if s.client == nil {
		return "", ErrBillingNotConfigured
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return "", fmt.Errorf("loading user for portal: %w", err)
	}
	if user.CustomerID == "" {
		return "", ErrNoBillingProfile
	}

	if returnURL == "" {
		returnURL = s.clientURL + "/settings/billing"
	}
	session, err := s.client.CreatePortalSession(ctx, user.CustomerID, returnURL)
	if err != nil {
		s.logger.Error("Portal session creation failed",
			zap.String("userId", userID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrPaymentsAPI, err)
	}
	return session.URL, nil
}

// HandleWebhook verifies the payload signature, de-duplicates by event id,
// and applies the access/plan change the event implies. Signature failure
// rejects before any state is read or written.
func (s *billingService) HandleWebhook(ctx context.Context, signature string, payload []byte) error {
	if s.webhookSecret == "" {
		return ErrBillingNotConfigured
	}
	if err := payments.VerifySignature(payload, signature, s.webhookSecret, payments.DefaultTolerance, time.Now()); err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	event, err := payments.ParseEvent(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookProcessing, err)
	}

	dedupeKey := "billing:webhook:" + event.ID
	if seen, _ := s.dedupe.Get(dedupeKey); seen != "" {
		s.logger.Info("Ignoring replayed webhook event", zap.String("eventId", event.ID))
		return nil
	}

	switch event.Type {
	case payments.EventCheckoutCompleted:
		err = s.handleCheckoutCompleted(ctx, event)
	case payments.EventSubscriptionDeleted:
		err = s.handleSubscriptionDeleted(ctx, event)
	case payments.EventInvoicePaid:
		err = s.handleInvoicePaid(ctx, event)
	default:
		// Acknowledge event types we do not act on.
		s.logger.Info("Ignoring unhandled webhook event type",
			zap.String("eventId", event.ID), zap.String("type", event.Type))
	}
	if err != nil {
		return err
	}

	if cacheErr := s.dedupe.Set(dedupeKey, "1", webhookDedupeTTL); cacheErr != nil {
		// Replay protection is best-effort: a cache failure must not turn a
		// processed event into a provider-visible error.
		s.logger.Warn("Failed to record processed webhook event", zap.Error(cacheErr))
	}
	return nil
}

func (s *billingService) handleCheckoutCompleted(ctx context.Context, event *payments.Event) error {
	var obj payments.CheckoutSessionObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		return fmt.Errorf("%w: decoding checkout session: %v", ErrWebhookProcessing, err)
	}

	user, err := s.resolveCheckoutUser(ctx, &obj)
	if err != nil {
		return err
	}

	user.CustomerID = obj.Customer
	if priceID := obj.Metadata["price_id"]; priceID != "" {
		user.PriceID = priceID
	}
	user.HasAccess = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: updating user after checkout: %v", ErrWebhookProcessing, err)
	}

	s.logger.Info("Checkout completed",
		zap.String("userId", user.ID), zap.String("customerId", user.CustomerID), zap.String("priceId", user.PriceID))
	return nil
}

// resolveCheckoutUser prefers the client_reference_id we set at session
// creation, falling back to the customer email for sessions started outside
// the app (e.g. a payment link).
func (s *billingService) resolveCheckoutUser(ctx context.Context, obj *payments.CheckoutSessionObject) (*models.User, error) {
	if obj.ClientReferenceID != "" {
		user, err := s.userRepo.GetByID(ctx, obj.ClientReferenceID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: resolving checkout user: %v", ErrWebhookProcessing, err)
		}
	}
	if obj.CustomerDetails.Email != "" {
		user, err := s.userRepo.GetByEmail(ctx, obj.CustomerDetails.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: resolving checkout user by email: %v", ErrWebhookProcessing, err)
		}
	}
	return nil, fmt.Errorf("%w: no user matches checkout session %s", ErrWebhookProcessing, obj.ID)
}

func (s *billingService) handleSubscriptionDeleted(ctx context.Context, event *payments.Event) error {
	var obj payments.SubscriptionObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		return fmt.Errorf("%w: decoding subscription: %v", ErrWebhookProcessing, err)
	}

	user, err := s.userRepo.GetByCustomerID(ctx, obj.Customer)
	if err != nil {
		return fmt.Errorf("%w: no user for customer %s: %v", ErrWebhookProcessing, obj.Customer, err)
	}
	user.HasAccess = false
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: revoking access: %v", ErrWebhookProcessing, err)
	}

	s.logger.Info("Subscription deleted, access revoked", zap.String("userId", user.ID))
	return nil
}

func (s *billingService) handleInvoicePaid(ctx context.Context, event *payments.Event) error {
	var obj payments.InvoiceObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		return fmt.Errorf("%w: decoding invoice: %v", ErrWebhookProcessing, err)
	}

	user, err := s.userRepo.GetByCustomerID(ctx, obj.Customer)
	if err != nil {
		return fmt.Errorf("%w: no user for customer %s: %v", ErrWebhookProcessing, obj.Customer, err)
	}
	user.HasAccess = true
	if priceID := obj.PriceID(); priceID != "" {
		user.PriceID = priceID
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: refreshing access: %v", ErrWebhookProcessing, err)
	}

	s.logger.Info("Invoice paid, access refreshed", zap.String("userId", user.ID))
	return nil
}
