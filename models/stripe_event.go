package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StripeEvent is the audit row written for every received webhook event,
// before any handling runs.
type StripeEvent struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID      string    `gorm:"uniqueIndex;not null" json:"eventId"`
	Type         string    `gorm:"index;not null" json:"type"`
	Data         JSON      `gorm:"type:jsonb" json:"data"`
	Processed    bool      `gorm:"default:false" json:"processed"`
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (e *StripeEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
