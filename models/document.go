package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentType string

const (
	DocTypeInvoice        DocumentType = "invoice"
	DocTypeReceipt        DocumentType = "receipt"
	DocTypeWorkOrder      DocumentType = "work_order"
	DocTypeTimeSheet      DocumentType = "time_sheet"
	DocTypeMaterialLog    DocumentType = "material_log"
	DocTypeDailyJobReport DocumentType = "daily_job_report"
	DocTypeEstimate       DocumentType = "estimate"
	DocTypeExpenseLog     DocumentType = "expense_log"
	DocTypeWarranty       DocumentType = "warranty"
	DocTypeNotes          DocumentType = "notes"
)

// DocumentTypes lists every supported type, in builder-menu order.
var DocumentTypes = []DocumentType{
	DocTypeInvoice, DocTypeReceipt, DocTypeWorkOrder, DocTypeTimeSheet,
	DocTypeMaterialLog, DocTypeDailyJobReport, DocTypeEstimate,
	DocTypeExpenseLog, DocTypeWarranty, DocTypeNotes,
}

func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Document is a row in the remote store. When a document arrives through the
// sync reconciler its ID is the client_ref generated at queue time, so a
// re-push after a partial failure upserts instead of duplicating.
type Document struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

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

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// JSON stores raw JSON in a jsonb column without reshaping it.
type JSON json.RawMessage

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSON(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// StringList is a JSON array column, used for attached photo data URLs.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("type assertion to []byte failed")
	}
}
