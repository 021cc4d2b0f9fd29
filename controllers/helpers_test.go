package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"jobdocs-backend/config"
	"jobdocs-backend/models"
	"jobdocs-backend/services"
	"jobdocs-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

func newTestDB(t *testing.T, tables ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:controllerstest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(tables...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// setupTestEnv swaps the package-level stores for in-memory databases and
// pins the JWT secret for the duration of the test.
func setupTestEnv(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	config.DB = newTestDB(t, &models.User{}, &models.Profile{}, &models.Document{}, &models.StripeEvent{})
	config.LocalDB = newTestDB(t, &models.LocalDocument{})
}

// newTestRouter mirrors the production route surface against the test stores.
func newTestRouter(stripeClient StripeClient) *gin.Engine {
	billing := &BillingHandler{db: config.DB, client: stripeClient, webhookSecret: "whsec_test"}
	sync := NewSyncHandler(services.NewSyncService(config.LocalDB, config.DB))

	r := gin.New()
	r.POST("/webhooks/stripe", billing.HandleWebhook)

	auth := r.Group("/auth")
	auth.POST("/register", Register)
	auth.POST("/login", Login)
	auth.GET("/me", utils.AuthMiddleware(), Me)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		api.POST("/documents", CreateDocument)
		api.GET("/documents", GetDocuments)
		api.GET("/documents/:id", GetDocument)
		api.PUT("/documents/:id", UpdateDocument)
		api.DELETE("/documents/:id", DeleteDocument)
		api.GET("/documents/:id/pdf", DownloadDocumentPDF)

		api.POST("/local/documents", sync.QueueDocument)
		api.GET("/local/documents", sync.ListLocalDocuments)
		api.POST("/sync", sync.SyncDocuments)

		api.GET("/profile", GetProfile)
		api.PUT("/profile", UpdateProfile)

		api.POST("/billing/checkout", billing.CreateCheckout)

		api.GET("/dashboard", GetDashboard)
	}
	return r
}

// createTestAccount seeds a user with its profile and returns a valid token.
func createTestAccount(t *testing.T) (models.User, string) {
	t.Helper()
	user := models.User{
		Email:    fmt.Sprintf("owner-%s@example.com", uuid.NewString()[:8]),
		Password: "password123",
		Name:     "Test Owner",
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	profile := models.Profile{
		ID:                  user.ID,
		Email:               user.Email,
		CompanyName:         "Acme Contracting",
		DefaultPaymentTerms: "Net 30",
		InvoicePrefix:       "INV-",
		InvoiceNextNumber:   1,
		SubscriptionStatus:  "free",
		SubscriptionPlan:    "free",
	}
	if err := config.DB.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// mockStripeClient records calls instead of hitting the Stripe API.
type mockStripeClient struct {
	customersCreated int
	checkoutCalls    []string
	failCustomer     bool
}

func (m *mockStripeClient) CreateCustomer(email, userID string) (string, error) {
	if m.failCustomer {
		return "", fmt.Errorf("stripe unavailable")
	}
	m.customersCreated++
	return "cus_test123", nil
}

func (m *mockStripeClient) CreateCheckoutSession(customerID, priceID, userID string) (string, error) {
	m.checkoutCalls = append(m.checkoutCalls, customerID+":"+priceID)
	return "https://checkout.stripe.com/c/pay/cs_test", nil
}
