// controllers/dashboard.go
package controllers

import (
	"net/http"

	"jobdocs-backend/config"
	"jobdocs-backend/models"
	"jobdocs-backend/utils"

	"github.com/gin-gonic/gin"
)

type typeCount struct {
	DocumentType models.DocumentType `json:"documentType"`
	Count        int64               `json:"count"`
}

// GetDashboard returns the home-screen summary: document counts by type,
// total invoiced amount, monthly usage and the most recent documents.
func GetDashboard(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	var counts []typeCount
	if err := config.DB.Model(&models.Document{}).
		Select("document_type, count(*) as count").
		Where("user_id = ?", userUUID).
		Group("document_type").
		Scan(&counts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load document counts")
		return
	}

	var totalInvoiced float64
	config.DB.Model(&models.Document{}).
		Where("user_id = ? AND document_type = ?", userUUID, models.DocTypeInvoice).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalInvoiced)

	var recent []models.Document
	if err := config.DB.Where("user_id = ?", userUUID).
		Order("created_at DESC").Limit(50).Find(&recent).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load recent documents")
		return
	}

	var profile models.Profile
	config.DB.First(&profile, "id = ?", userUUID)

	c.JSON(http.StatusOK, gin.H{
		"countsByType":           counts,
		"totalInvoiced":          totalInvoiced,
		"documentsUsedThisMonth": profile.DocumentsUsedThisMonth,
		"subscriptionStatus":     profile.SubscriptionStatus,
		"recentDocuments":        recent,
	})
}
