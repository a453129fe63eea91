package payments

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sigNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

func TestVerifySignatureAcceptsValidHeader(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	header := ComputeSignatureHeader(payload, "whsec_test", sigNow)

	assert.NoError(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, sigNow))
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := ComputeSignatureHeader(payload, "whsec_other", sigNow)

	assert.ErrorIs(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, sigNow), ErrBadSignature)
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","amount":100}`)
	header := ComputeSignatureHeader(payload, "whsec_test", sigNow)
	tampered := []byte(`{"id":"evt_1","amount":999}`)

	assert.ErrorIs(t, VerifySignature(tampered, header, "whsec_test", DefaultTolerance, sigNow), ErrBadSignature)
}

func TestVerifySignatureTimestampTolerance(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := ComputeSignatureHeader(payload, "whsec_test", sigNow)

	// Inside the window, on either side.
	assert.NoError(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, sigNow.Add(4*time.Minute)))
	assert.NoError(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, sigNow.Add(-4*time.Minute)))

	// Outside the window.
	assert.ErrorIs(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, sigNow.Add(6*time.Minute)), ErrBadSignature)
	assert.ErrorIs(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, sigNow.Add(-6*time.Minute)), ErrBadSignature)
}

func TestVerifySignatureMalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)
	for _, header := range []string{
		"",
		"v1=deadbeef",
		"t=1756641600",
		"t=notanumber,v1=deadbeef",
		"garbage",
	} {
		assert.ErrorIs(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, sigNow), ErrBadSignature, "header %q", header)
	}
}

func TestVerifySignatureEmptySecret(t *testing.T) {
	payload := []byte(`{}`)
	header := ComputeSignatureHeader(payload, "whsec_test", sigNow)

	assert.ErrorIs(t, VerifySignature(payload, header, "", DefaultTolerance, sigNow), ErrBadSignature)
}

func TestVerifySignatureAcceptsAnyValidV1(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	valid := ComputeSignatureHeader(payload, "whsec_test", sigNow)
	// Key rotation sends multiple v1 entries; one valid signature suffices.
	header := valid + ",v1=deadbeef"

	assert.NoError(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, sigNow))
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","customer":"cus_1","metadata":{"price_id":"price_basic"}}}}`)

	event, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventCheckoutCompleted, event.Type)

	var obj CheckoutSessionObject
	require.NoError(t, json.Unmarshal(event.Data.Object, &obj))
	assert.Equal(t, "cs_1", obj.ID)
	assert.Equal(t, "price_basic", obj.Metadata["price_id"])
}

func TestParseEventRejectsIncompleteEnvelope(t *testing.T) {
	_, err := ParseEvent([]byte(`{"id":"evt_1"}`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestInvoiceObjectPriceID(t *testing.T) {
	var invoice InvoiceObject
	require.NoError(t, json.Unmarshal([]byte(`{"id":"in_1","customer":"cus_1","lines":{"data":[{"price":{"id":"price_basic"}}]}}`), &invoice))
	assert.Equal(t, "price_basic", invoice.PriceID())

	assert.Empty(t, (&InvoiceObject{}).PriceID())
}
