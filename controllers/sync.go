// controllers/sync.go
package controllers

import (
	"net/http"

	"jobdocs-backend/services"
	"jobdocs-backend/utils"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the offline cache: queueing documents locally and
// pushing them to the remote store.
type SyncHandler struct {
	service *services.SyncService
}

func NewSyncHandler(service *services.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// QueueDocument stores a built document in the offline cache
func (h *SyncHandler) QueueDocument(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	var input services.QueueDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.DocumentType.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown document type")
		return
	}

	doc, err := h.service.Queue(userUUID, input)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to queue document")
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListLocalDocuments returns the owner's cache rows
func (h *SyncHandler) ListLocalDocuments(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	docs, err := h.service.List(userUUID, c.Query("syncStatus"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve local documents")
		return
	}

	c.JSON(http.StatusOK, docs)
}

// SyncDocuments runs reconciliation for the owner and reports per-record outcomes
func (h *SyncHandler) SyncDocuments(c *gin.Context) {
	userUUID, ok := requireUser(c)
	if !ok {
		return
	}

	results, err := h.service.Push(userUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Sync failed")
		return
	}

	synced, failed := 0, 0
	for _, r := range results {
		if r.Success {
			synced++
		} else {
			failed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"synced":  synced,
		"failed":  failed,
	})
}
