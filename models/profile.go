package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile keys on the owning user's ID. One row per account, created at
// registration.
type Profile struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email string    `gorm:"not null" json:"email"`

	CompanyName   string `json:"companyName"`
	CompanyLogo   string `gorm:"type:text" json:"companyLogo"` // data URL
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	BusinessEmail string `json:"businessEmail"`
	LicenseNumber string `json:"licenseNumber"`
	TaxID         string `json:"taxId"`

	DefaultTaxRate      float64 `gorm:"type:decimal(5,2);default:0.0" json:"defaultTaxRate"`
	DefaultPaymentTerms string  `gorm:"default:'Net 30'" json:"defaultPaymentTerms"`
	InvoicePrefix       string  `gorm:"default:'INV-'" json:"invoicePrefix"`
	// Advanced exactly once per created invoice, by the invoice builder only.
	InvoiceNextNumber int `gorm:"default:1" json:"invoiceNextNumber"`

	StripeCustomerID       string     `gorm:"index" json:"stripeCustomerId"`
	SubscriptionStatus     string     `gorm:"type:varchar(20);default:'free'" json:"subscriptionStatus"`
	SubscriptionPlan       string     `gorm:"type:varchar(20);default:'free'" json:"subscriptionPlan"`
	SubscriptionEndsAt     *time.Time `json:"subscriptionEndsAt"`
	DocumentsUsedThisMonth int        `gorm:"default:0" json:"documentsUsedThisMonth"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsPaying reports whether the account is on a paid subscription. Free and
// canceled accounts get the trial watermark and the monthly document cap.
func (p *Profile) IsPaying() bool {
	return p.SubscriptionStatus == "active" || p.SubscriptionStatus == "trialing"
}
