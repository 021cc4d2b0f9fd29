// controllers/billing.go
package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"jobdocs-backend/models"
	"jobdocs-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/gorm"
)

// StripeClient wraps the two Stripe calls the checkout flow needs, so tests
// can stub them out.
type StripeClient interface {
	CreateCustomer(email, userID string) (string, error)
	CreateCheckoutSession(customerID, priceID, userID string) (string, error)
}

type stripeAPIClient struct {
	appURL string
}

func (s stripeAPIClient) CreateCustomer(email, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.AddMetadata("userId", userID)

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (s stripeAPIClient) CreateCheckoutSession(customerID, priceID, userID string) (string, error) {
	subData := &stripe.CheckoutSessionSubscriptionDataParams{}
	subData.AddMetadata("userId", userID)

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:             stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:       stripe.String(s.appURL + "/settings?success=true"),
		CancelURL:        stripe.String(s.appURL + "/settings?canceled=true"),
		SubscriptionData: subData,
	}
	params.AddMetadata("userId", userID)

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// BillingHandler handles checkout initiation and the Stripe webhook.
type BillingHandler struct {
	db            *gorm.DB
	client        StripeClient
	webhookSecret string
}

func NewBillingHandler(db *gorm.DB) *BillingHandler {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &BillingHandler{
		db:            db,
		client:        stripeAPIClient{appURL: os.Getenv("APP_URL")},
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

type CheckoutInput struct {
	PriceID string `json:"priceId" binding:"required"`
}

// CreateCheckout resolves or creates the Stripe customer for the owner and
// returns a subscription checkout redirect URL
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, "id = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	customerID := profile.StripeCustomerID
	if customerID == "" {
		newID, err := h.client.CreateCustomer(profile.Email, userUUID.String())
		if err != nil {
			log.Printf("Failed to create Stripe customer for %s: %v", userUUID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
			return
		}
		customerID = newID

		if err := h.db.Model(&models.Profile{}).Where("id = ?", userUUID).
			Update("stripe_customer_id", customerID).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save customer")
			return
		}
	}

	url, err := h.client.CreateCheckoutSession(customerID, input.PriceID, userUUID.String())
	if err != nil {
		log.Printf("Checkout session creation failed for %s: %v", userUUID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// HandleWebhook verifies the event signature, persists an audit row, then
// applies subscription lifecycle changes to the profile. Acknowledged with
// 200 whatever the event type.
func (h *BillingHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read body")
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid signature")
		return
	}

	// Audit row first, handling second
	audit := models.StripeEvent{
		EventID: event.ID,
		Type:    string(event.Type),
		Data:    models.JSON(event.Data.Raw),
	}
	if err := h.db.Create(&audit).Error; err != nil {
		log.Printf("Failed to persist Stripe event %s: %v", event.ID, err)
	}

	if err := h.applyEvent(&event); err != nil {
		log.Printf("Failed to handle Stripe event %s (%s): %v", event.ID, event.Type, err)
		h.db.Model(&audit).Updates(map[string]interface{}{"error_message": err.Error()})
	} else {
		h.db.Model(&audit).Update("processed", true)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *BillingHandler) applyEvent(event *stripe.Event) error {
	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		userID := sub.Metadata["userId"]
		if userID == "" {
			return nil
		}
		endsAt := time.Unix(sub.CurrentPeriodEnd, 0)
		return h.db.Model(&models.Profile{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"subscription_status":  string(sub.Status),
				"subscription_plan":    "pro",
				"subscription_ends_at": endsAt,
			}).Error

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		userID := sub.Metadata["userId"]
		if userID == "" {
			return nil
		}
		return h.db.Model(&models.Profile{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"subscription_status": "canceled",
				"subscription_plan":   "free",
			}).Error

	case "invoice.paid", "invoice.payment_failed":
		// Audit only; the subscription events carry the state we track.
		return nil
	}

	return nil
}
