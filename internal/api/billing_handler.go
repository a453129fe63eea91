package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"careloop-backend-go/internal/core"
)

// BillingHandler handles billing-related API endpoints.
type BillingHandler struct {
	billingService core.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService) *BillingHandler {
	return &BillingHandler{billingService: bs}
}

// mapBillingErrorToStatus maps errors from core.BillingService to HTTP status
// codes and an ErrorResponse body.
func mapBillingErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrMissingCheckoutFields):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required checkout fields", Details: err.Error()})
	case errors.Is(err, core.ErrNoBillingProfile):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No billing profile", Details: "Complete a checkout before opening the billing portal."})
	case errors.Is(err, core.ErrWebhookSignature):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
	case errors.Is(err, core.ErrWebhookProcessing):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook processing error", Details: err.Error()})
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User record not found"})
	case errors.Is(err, core.ErrBillingNotConfigured):
		log.Printf("Billing configuration error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Payments are not configured"})
	case errors.Is(err, core.ErrPaymentsAPI):
		log.Printf("Payments API error: %v", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Payment provider error", Details: "Could not complete the operation with the payment provider."})
	default:
		log.Printf("Internal Server Error in BillingHandler: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateCheckoutSession handles POST /billing/create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID, core.CheckoutInput{
		PriceID:    req.PriceID,
		Mode:       req.Mode,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		CouponID:   req.CouponID,
	})
	if err != nil {
		mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, RedirectResponse{URL: url})
}

// CreatePortalSession handles POST /billing/create-portal-session.
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req CreatePortalSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	url, err := h.billingService.CreatePortalSession(c.Request.Context(), userID, req.ReturnURL)
	if err != nil {
		mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, RedirectResponse{URL: url})
}

// HandleWebhook handles POST /billing/webhooks/payments. The endpoint is
// public: the provider authenticates itself through the signature header,
// verified before any state is touched.
func (h *BillingHandler) HandleWebhook(c *gin.Context) {
	signature := c.GetHeader("Payments-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Payments-Signature header"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read webhook payload", Details: err.Error()})
		return
	}

	if err := h.billingService.HandleWebhook(c.Request.Context(), signature, payload); err != nil {
		log.Printf("Webhook handling failed: %v", err)
		mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received successfully"})
}
