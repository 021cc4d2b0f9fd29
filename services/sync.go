// services/sync.go
package services

import (
	"log"
	"time"

	"jobdocs-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncResult is the per-record outcome of one reconciliation run.
type SyncResult struct {
	LocalID  uint       `json:"localId"`
	RemoteID *uuid.UUID `json:"remoteId,omitempty"`
	Success  bool       `json:"success"`
	Error    string     `json:"error,omitempty"`
}

// QueueDocumentInput is a fully built document headed for the offline cache.
// Numbering and payload math already happened in the builder; the cache only
// holds the finished record until it can be pushed.
type QueueDocumentInput struct {
	DocumentType   models.DocumentType `json:"documentType" binding:"required"`
	DocumentNumber string              `json:"documentNumber" binding:"required"`
	Status         string              `json:"status"`
	ClientName     string              `json:"clientName"`
	ClientEmail    string              `json:"clientEmail"`
	ClientPhone    string              `json:"clientPhone"`
	ClientAddress  string              `json:"clientAddress"`
	JobLocation    string              `json:"jobLocation"`
	JobTitle       string              `json:"jobTitle"`
	Data           models.JSON         `json:"data"`
	Photos         []string            `json:"photos"`
	Notes          string              `json:"notes"`
	TotalAmount    float64             `json:"totalAmount"`
	PDFURL         string              `json:"pdfUrl"`
	DueDate        *time.Time          `json:"dueDate"`
}

// SyncService pushes queued cache records to the remote store, one at a time,
// best effort. A record ends a run either synced (with a remote id) or in
// error (without one); a single failure never aborts the batch.
type SyncService struct {
	local  *gorm.DB
	remote *gorm.DB
}

func NewSyncService(local, remote *gorm.DB) *SyncService {
	return &SyncService{local: local, remote: remote}
}

// Queue stores a record in the offline cache with sync status "pending" and a
// freshly assigned client ref.
func (s *SyncService) Queue(userID uuid.UUID, input QueueDocumentInput) (*models.LocalDocument, error) {
	doc := &models.LocalDocument{
		UserID:         userID,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		Status:         input.Status,
		ClientName:     input.ClientName,
		ClientEmail:    input.ClientEmail,
		ClientPhone:    input.ClientPhone,
		ClientAddress:  input.ClientAddress,
		JobLocation:    input.JobLocation,
		JobTitle:       input.JobTitle,
		Data:           input.Data,
		Photos:         models.StringList(input.Photos),
		Notes:          input.Notes,
		TotalAmount:    input.TotalAmount,
		PDFURL:         input.PDFURL,
		DueDate:        input.DueDate,
	}
	if err := s.local.Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns the owner's cache rows, optionally filtered by sync status.
func (s *SyncService) List(userID uuid.UUID, syncStatus string) ([]models.LocalDocument, error) {
	query := s.local.Where("user_id = ?", userID)
	if syncStatus != "" {
		query = query.Where("sync_status = ?", syncStatus)
	}
	var docs []models.LocalDocument
	err := query.Order("id").Find(&docs).Error
	return docs, err
}

// Push reconciles the owner's unsynced cache rows against the remote store.
// Rows in "error" are retried along with "pending" ones. The remote insert
// carries the client ref as its primary key with ON CONFLICT DO NOTHING, so a
// re-push after a crash between insert and local mark-synced finds the
// existing row instead of duplicating it.
func (s *SyncService) Push(userID uuid.UUID) ([]SyncResult, error) {
	var queued []models.LocalDocument
	err := s.local.
		Where("user_id = ? AND sync_status IN ?", userID, []string{models.SyncStatusPending, models.SyncStatusError}).
		Order("id").
		Find(&queued).Error
	if err != nil {
		return nil, err
	}

	results := make([]SyncResult, 0, len(queued))
	for i := range queued {
		doc := &queued[i]
		remote := doc.ToRemote()

		res := s.remote.
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			Create(remote)
		if res.Error != nil {
			log.Printf("sync: push of local document %d failed: %v", doc.ID, res.Error)
			s.local.Model(doc).Updates(map[string]interface{}{
				"sync_status": models.SyncStatusError,
				"sync_error":  res.Error.Error(),
			})
			results = append(results, SyncResult{LocalID: doc.ID, Error: res.Error.Error()})
			continue
		}

		remoteID := remote.ID
		s.local.Model(doc).Updates(map[string]interface{}{
			"sync_status": models.SyncStatusSynced,
			"sync_error":  "",
			"remote_id":   remoteID,
		})
		results = append(results, SyncResult{LocalID: doc.ID, RemoteID: &remoteID, Success: true})
	}

	return results, nil
}

// OwnersWithUnsynced lists the users who still have rows waiting in the
// cache, for the periodic re-push sweep.
func (s *SyncService) OwnersWithUnsynced() ([]uuid.UUID, error) {
	var owners []uuid.UUID
	err := s.local.Model(&models.LocalDocument{}).
		Where("sync_status <> ?", models.SyncStatusSynced).
		Distinct("user_id").
		Pluck("user_id", &owners).Error
	return owners, err
}
