package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, capture *url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		if capture != nil {
			require.NoError(t, r.ParseForm())
			*capture = r.PostForm
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestCreateCheckoutSessionForm(t *testing.T) {
	var form url.Values
	srv := newTestServer(t, http.StatusOK, `{"id":"cs_1","url":"https://pay.example.com/cs_1"}`, &form)
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		PriceID:           "price_basic",
		Mode:              "subscription",
		SuccessURL:        "https://app.example.com/ok",
		CancelURL:         "https://app.example.com/no",
		CouponID:          "WELCOME10",
		CustomerEmail:     "user@example.com",
		ClientReferenceID: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", session.ID)
	assert.Equal(t, "https://pay.example.com/cs_1", session.URL)

	assert.Equal(t, "price_basic", form.Get("line_items[0][price]"))
	assert.Equal(t, "1", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "subscription", form.Get("mode"))
	assert.Equal(t, "price_basic", form.Get("metadata[price_id]"), "price id is stashed for the webhook")
	assert.Equal(t, "WELCOME10", form.Get("discounts[0][coupon]"))
	assert.Equal(t, "user-1", form.Get("client_reference_id"))
	assert.Equal(t, "user@example.com", form.Get("customer_email"))
	assert.Empty(t, form.Get("customer"))
}

func TestCreateCheckoutSessionPrefersCustomerOverEmail(t *testing.T) {
	var form url.Values
	srv := newTestServer(t, http.StatusOK, `{"id":"cs_1","url":"u"}`, &form)
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		PriceID:       "price_basic",
		Mode:          "payment",
		CustomerID:    "cus_9",
		CustomerEmail: "user@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "cus_9", form.Get("customer"))
	assert.Empty(t, form.Get("customer_email"))
}

func TestCreatePortalSessionForm(t *testing.T) {
	var form url.Values
	srv := newTestServer(t, http.StatusOK, `{"id":"bps_1","url":"https://pay.example.com/bps_1"}`, &form)
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	session, err := client.CreatePortalSession(context.Background(), "cus_9", "https://app.example.com/settings")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/bps_1", session.URL)

	assert.Equal(t, "cus_9", form.Get("customer"))
	assert.Equal(t, "https://app.example.com/settings", form.Get("return_url"))
}

func TestAPIErrorCarriesProviderMessage(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest, `{"error":{"message":"No such price: price_x"}}`, nil)
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{PriceID: "price_x", Mode: "payment"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "No such price: price_x", apiErr.Message)
}

func TestAPIErrorFallsBackToRawBody(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, "upstream exploded", nil)
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	_, err := client.CreatePortalSession(context.Background(), "cus_9", "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestClientHonorsContextCancellation(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"id":"cs_1","url":"u"}`, nil)
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreateCheckoutSession(ctx, CheckoutParams{PriceID: "p", Mode: "payment"})
	assert.Error(t, err)
}
