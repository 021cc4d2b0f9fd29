// controllers/document.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"jobdocs-backend/config"
	"jobdocs-backend/models"
	"jobdocs-backend/services"
	"jobdocs-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateDocumentInput defines the expected JSON structure for updating a document
type UpdateDocumentInput struct {
	Status        *string      `json:"status"`
	ClientName    *string      `json:"clientName"`
	ClientEmail   *string      `json:"clientEmail"`
	ClientPhone   *string      `json:"clientPhone"`
	ClientAddress *string      `json:"clientAddress"`
	JobLocation   *string      `json:"jobLocation"`
	JobTitle      *string      `json:"jobTitle"`
	Notes         *string      `json:"notes"`
	Data          *models.JSON `json:"data"`
	TotalAmount   *float64     `json:"totalAmount"`
	DueDate       *time.Time   `json:"dueDate"`
	PaidDate      *time.Time   `json:"paidDate"`
	SentDate      *time.Time   `json:"sentDate"`
}

// CreateDocument runs the builder for the submitted document type
func CreateDocument(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	var input services.BuildDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	doc, err := services.NewBuilderService(config.DB).Build(userUUID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentLimit):
			utils.RespondWithError(c, http.StatusForbidden, "Monthly document limit reached. Upgrade to create more documents.")
		case errors.Is(err, services.ErrUnknownDocumentType), errors.Is(err, services.ErrInvalidPayload):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrProfileNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create document")
		}
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// GetDocuments retrieves the owner's documents, newest first
func GetDocuments(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userUUID)
	if docType := c.Query("type"); docType != "" {
		query = query.Where("document_type = ?", docType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var documents []models.Document
	if err := query.Order("created_at DESC").Limit(50).Find(&documents).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve documents")
		return
	}

	c.JSON(http.StatusOK, documents)
}

// GetDocument retrieves a specific document by ID
func GetDocument(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	doc, ok := findOwnedDocument(c, userUUID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UpdateDocument updates an existing document's mutable fields
func UpdateDocument(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	doc, ok := findOwnedDocument(c, userUUID)
	if !ok {
		return
	}

	var input UpdateDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Status != nil {
		doc.Status = *input.Status
	}
	if input.ClientName != nil {
		doc.ClientName = *input.ClientName
	}
	if input.ClientEmail != nil {
		doc.ClientEmail = *input.ClientEmail
	}
	if input.ClientPhone != nil {
		doc.ClientPhone = *input.ClientPhone
	}
	if input.ClientAddress != nil {
		doc.ClientAddress = *input.ClientAddress
	}
	if input.JobLocation != nil {
		doc.JobLocation = *input.JobLocation
	}
	if input.JobTitle != nil {
		doc.JobTitle = *input.JobTitle
	}
	if input.Notes != nil {
		doc.Notes = *input.Notes
	}
	if input.Data != nil {
		doc.Data = *input.Data
	}
	if input.TotalAmount != nil {
		doc.TotalAmount = *input.TotalAmount
	}
	if input.DueDate != nil {
		doc.DueDate = input.DueDate
	}
	if input.PaidDate != nil {
		doc.PaidDate = input.PaidDate
	}
	if input.SentDate != nil {
		doc.SentDate = input.SentDate
	}

	if err := config.DB.Save(&doc).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update document")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// DeleteDocument removes a document on explicit user action
func DeleteDocument(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	doc, ok := findOwnedDocument(c, userUUID)
	if !ok {
		return
	}

	if err := config.DB.Delete(&doc).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// requireUser pulls the authenticated user's UUID out of the request context.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}

	id, ok := userID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}

	userUUID, err := uuid.Parse(id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}

func findOwnedDocument(c *gin.Context, userUUID uuid.UUID) (models.Document, bool) {
	docUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid document ID format")
		return models.Document{}, false
	}

	var doc models.Document
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, docUUID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Document not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return models.Document{}, false
	}
	return doc, true
}
