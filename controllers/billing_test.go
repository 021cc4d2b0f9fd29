package controllers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobdocs-backend/config"
	"jobdocs-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// signedEvent builds a webhook payload and its Stripe-Signature header the
// way Stripe signs real deliveries.
func signedEvent(t *testing.T, eventID, eventType string, object map[string]interface{}) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":          eventID,
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"data":        map[string]interface{}{"object": object},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, "whsec_test")
	return payload, fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func postWebhook(t *testing.T, r http.Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func subscriptionObject(userID, status string) map[string]interface{} {
	return map[string]interface{}{
		"id":                 "sub_test123",
		"object":             "subscription",
		"status":             status,
		"current_period_end": time.Now().Add(30 * 24 * time.Hour).Unix(),
		"metadata":           map[string]string{"userId": userID},
	}
}

func TestCreateCheckout(t *testing.T) {
	setupTestEnv(t)
	mock := &mockStripeClient{}
	r := newTestRouter(mock)
	user, token := createTestAccount(t)

	w := doJSON(t, r, http.MethodPost, "/api/billing/checkout", token, map[string]interface{}{
		"priceId": "price_pro_monthly",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL string `json:"url"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test", resp.URL)
	assert.Equal(t, 1, mock.customersCreated)
	assert.Equal(t, []string{"cus_test123:price_pro_monthly"}, mock.checkoutCalls)

	var profile models.Profile
	config.DB.First(&profile, "id = ?", user.ID)
	assert.Equal(t, "cus_test123", profile.StripeCustomerID, "the new customer id is persisted")

	// Second checkout reuses the stored customer
	w = doJSON(t, r, http.MethodPost, "/api/billing/checkout", token, map[string]interface{}{
		"priceId": "price_pro_monthly",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mock.customersCreated)
}

func TestCreateCheckoutValidation(t *testing.T) {
	setupTestEnv(t)
	mock := &mockStripeClient{}
	r := newTestRouter(mock)
	_, token := createTestAccount(t)

	w := doJSON(t, r, http.MethodPost, "/api/billing/checkout", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/billing/checkout", "", map[string]interface{}{
		"priceId": "price_pro_monthly",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateCheckoutStripeFailure(t *testing.T) {
	setupTestEnv(t)
	mock := &mockStripeClient{failCustomer: true}
	r := newTestRouter(mock)
	_, token := createTestAccount(t)

	w := doJSON(t, r, http.MethodPost, "/api/billing/checkout", token, map[string]interface{}{
		"priceId": "price_pro_monthly",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookSubscriptionCreated(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter(&mockStripeClient{})
	user, _ := createTestAccount(t)

	payload, signature := signedEvent(t, "evt_sub_created", "customer.subscription.created",
		subscriptionObject(user.ID.String(), "active"))
	w := postWebhook(t, r, payload, signature)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "received")

	var profile models.Profile
	config.DB.First(&profile, "id = ?", user.ID)
	assert.Equal(t, "active", profile.SubscriptionStatus)
	assert.Equal(t, "pro", profile.SubscriptionPlan)
	assert.NotNil(t, profile.SubscriptionEndsAt)

	var audit models.StripeEvent
	assert.NoError(t, config.DB.First(&audit, "event_id = ?", "evt_sub_created").Error)
	assert.True(t, audit.Processed)
	assert.Equal(t, "customer.subscription.created", audit.Type)
}

func TestWebhookSubscriptionDeleted(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter(&mockStripeClient{})
	user, _ := createTestAccount(t)
	config.DB.Model(&models.Profile{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"subscription_status": "active", "subscription_plan": "pro"})

	payload, signature := signedEvent(t, "evt_sub_deleted", "customer.subscription.deleted",
		subscriptionObject(user.ID.String(), "canceled"))
	w := postWebhook(t, r, payload, signature)
	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	config.DB.First(&profile, "id = ?", user.ID)
	assert.Equal(t, "canceled", profile.SubscriptionStatus)
	assert.Equal(t, "free", profile.SubscriptionPlan)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter(&mockStripeClient{})
	user, _ := createTestAccount(t)

	payload, _ := signedEvent(t, "evt_forged", "customer.subscription.created",
		subscriptionObject(user.ID.String(), "active"))

	w := postWebhook(t, r, payload, "t=12345,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid signature")

	w = postWebhook(t, r, payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	config.DB.Model(&models.StripeEvent{}).Count(&count)
	assert.Equal(t, int64(0), count, "unverified events never reach the audit log")

	var profile models.Profile
	config.DB.First(&profile, "id = ?", user.ID)
	assert.Equal(t, "free", profile.SubscriptionStatus)
}

func TestWebhookUnhandledEventIsAudited(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter(&mockStripeClient{})

	payload, signature := signedEvent(t, "evt_invoice_paid", "invoice.paid", map[string]interface{}{
		"id":     "in_test123",
		"object": "invoice",
	})
	w := postWebhook(t, r, payload, signature)
	assert.Equal(t, http.StatusOK, w.Code)

	var audit models.StripeEvent
	assert.NoError(t, config.DB.First(&audit, "event_id = ?", "evt_invoice_paid").Error)
	assert.True(t, audit.Processed)
}
