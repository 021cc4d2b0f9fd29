package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
)

// LocalDocument is a row in the embedded offline cache. ClientRef is assigned
// when the record is queued and becomes the remote row's primary key on push,
// which makes the push idempotent. RemoteID is set once the remote store has
// accepted the record; until then the document exists only locally.
type LocalDocument struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	ClientRef uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"clientRef"`
	RemoteID  *uuid.UUID `gorm:"type:uuid;index" json:"remoteId,omitempty"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`

	DocumentType   DocumentType `gorm:"type:varchar(30);index;not null" json:"documentType"`
	DocumentNumber string       `gorm:"not null" json:"documentNumber"`
	Status         string       `gorm:"index" json:"status"`

	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	ClientPhone   string `json:"clientPhone"`
	ClientAddress string `json:"clientAddress"`
	JobLocation   string `json:"jobLocation"`
	JobTitle      string `json:"jobTitle"`

	Data        JSON       `gorm:"type:jsonb" json:"data"`
	Photos      StringList `gorm:"type:jsonb" json:"photos"`
	Notes       string     `gorm:"type:text" json:"notes"`
	TotalAmount float64    `gorm:"type:decimal(10,2)" json:"totalAmount"`
	PDFURL      string     `json:"pdfUrl"`

	DueDate  *time.Time `json:"dueDate"`
	PaidDate *time.Time `json:"paidDate"`
	SentDate *time.Time `json:"sentDate"`

	SyncStatus string `gorm:"type:varchar(10);index;default:'pending'" json:"syncStatus"`
	SyncError  string `gorm:"type:text" json:"syncError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *LocalDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ClientRef == uuid.Nil {
		d.ClientRef = uuid.New()
	}
	if d.SyncStatus == "" {
		d.SyncStatus = SyncStatusPending
	}
	return
}

// ToRemote maps the cached record onto a remote document row, field for
// field. The remote primary key is the client ref.
func (d *LocalDocument) ToRemote() *Document {
	return &Document{
		ID:             d.ClientRef,
		UserID:         d.UserID,
		DocumentType:   d.DocumentType,
		DocumentNumber: d.DocumentNumber,
		Status:         d.Status,
		ClientName:     d.ClientName,
		ClientEmail:    d.ClientEmail,
		ClientPhone:    d.ClientPhone,
		ClientAddress:  d.ClientAddress,
		JobLocation:    d.JobLocation,
		JobTitle:       d.JobTitle,
		Data:           d.Data,
		Photos:         d.Photos,
		Notes:          d.Notes,
		TotalAmount:    d.TotalAmount,
		PDFURL:         d.PDFURL,
		DueDate:        d.DueDate,
		PaidDate:       d.PaidDate,
		SentDate:       d.SentDate,
	}
}
