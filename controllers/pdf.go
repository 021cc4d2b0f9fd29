// controllers/pdf.go
package controllers

import (
	"fmt"
	"net/http"

	"jobdocs-backend/config"
	"jobdocs-backend/models"
	"jobdocs-backend/services"
	"jobdocs-backend/utils"

	"github.com/gin-gonic/gin"
)

// DownloadDocumentPDF renders the document for download
func DownloadDocumentPDF(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	doc, ok := findOwnedDocument(c, userUUID)
	if !ok {
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
		return
	}

	data, err := services.GenerateDocumentPDF(&doc, &profile)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	filename := fmt.Sprintf("%s-%s.pdf", doc.DocumentType, doc.DocumentNumber)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
