// controllers/profile.go
package controllers

import (
	"net/http"

	"jobdocs-backend/config"
	"jobdocs-backend/models"
	"jobdocs-backend/utils"

	"github.com/gin-gonic/gin"
)

// UpdateProfileInput covers the company identity block and invoicing
// defaults. Subscription fields are owned by the Stripe webhook and the
// invoice counter by the invoice builder; neither is client-writable.
type UpdateProfileInput struct {
	CompanyName   *string `json:"companyName"`
	CompanyLogo   *string `json:"companyLogo"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	BusinessEmail *string `json:"businessEmail"`
	LicenseNumber *string `json:"licenseNumber"`
	TaxID         *string `json:"taxId"`

	DefaultTaxRate      *float64 `json:"defaultTaxRate"`
	DefaultPaymentTerms *string  `json:"defaultPaymentTerms"`
	InvoicePrefix       *string  `json:"invoicePrefix"`
}

func GetProfile(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
		return
	}

	if input.CompanyName != nil {
		profile.CompanyName = *input.CompanyName
	}
	if input.CompanyLogo != nil {
		profile.CompanyLogo = *input.CompanyLogo
	}
	if input.Address != nil {
		profile.Address = *input.Address
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.BusinessEmail != nil {
		profile.BusinessEmail = *input.BusinessEmail
	}
	if input.LicenseNumber != nil {
		profile.LicenseNumber = *input.LicenseNumber
	}
	if input.TaxID != nil {
		profile.TaxID = *input.TaxID
	}
	if input.DefaultTaxRate != nil {
		profile.DefaultTaxRate = *input.DefaultTaxRate
	}
	if input.DefaultPaymentTerms != nil {
		profile.DefaultPaymentTerms = *input.DefaultPaymentTerms
	}
	if input.InvoicePrefix != nil {
		profile.InvoicePrefix = *input.InvoicePrefix
	}

	if err := config.DB.Save(&profile).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
