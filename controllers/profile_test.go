package controllers

import (
	"net/http"
	"testing"

	"jobdocs-backend/config"
	"jobdocs-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestGetProfile(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter(&mockStripeClient{})
	_, token := createTestAccount(t)

	w := doJSON(t, r, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	decodeBody(t, w, &profile)
	assert.Equal(t, "Acme Contracting", profile.CompanyName)
	assert.Equal(t, "INV-", profile.InvoicePrefix)
}

func TestUpdateProfile(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter(&mockStripeClient{})
	user, token := createTestAccount(t)

	w := doJSON(t, r, http.MethodPut, "/api/profile", token, map[string]interface{}{
		"companyName":    "Smith & Sons",
		"defaultTaxRate": 7.25,
		"invoicePrefix":  "SS-",
		"licenseNumber":  "C-10 883921",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	config.DB.First(&profile, "id = ?", user.ID)
	assert.Equal(t, "Smith & Sons", profile.CompanyName)
	assert.Equal(t, 7.25, profile.DefaultTaxRate)
	assert.Equal(t, "SS-", profile.InvoicePrefix)
	assert.Equal(t, "C-10 883921", profile.LicenseNumber)
	assert.Equal(t, "Net 30", profile.DefaultPaymentTerms, "omitted fields are left alone")
}

func TestUpdateProfileIgnoresSubscriptionFields(t *testing.T) {
	setupTestEnv(t)
	r := newTestRouter(&mockStripeClient{})
	user, token := createTestAccount(t)

	w := doJSON(t, r, http.MethodPut, "/api/profile", token, map[string]interface{}{
		"subscriptionStatus": "active",
		"subscriptionPlan":   "pro",
		"invoiceNextNumber":  999,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	config.DB.First(&profile, "id = ?", user.ID)
	assert.Equal(t, "free", profile.SubscriptionStatus)
	assert.Equal(t, "free", profile.SubscriptionPlan)
	assert.Equal(t, 1, profile.InvoiceNextNumber)
}
