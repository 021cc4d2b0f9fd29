// services/builder.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobdocs-backend/models"
	"jobdocs-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FreeTierDocumentLimit caps how many documents a free account can create per
// calendar month. The counter is reset by the maintenance scheduler.
const FreeTierDocumentLimit = 5

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrDocumentLimit       = errors.New("monthly document limit reached")
	ErrUnknownDocumentType = errors.New("unknown document type")
	ErrInvalidPayload      = errors.New("invalid document payload")
)

// BuildDocumentInput is the common envelope every builder form submits. The
// payload is decoded into the type-specific struct once the discriminant is
// known.
type BuildDocumentInput struct {
	DocumentType  models.DocumentType `json:"documentType" binding:"required"`
	Status        string              `json:"status"`
	ClientName    string              `json:"clientName"`
	ClientEmail   string              `json:"clientEmail"`
	ClientPhone   string              `json:"clientPhone"`
	ClientAddress string              `json:"clientAddress"`
	JobLocation   string              `json:"jobLocation"`
	JobTitle      string              `json:"jobTitle"`
	Notes         string              `json:"notes"`
	Photos        []string            `json:"photos"`
	DueDate       *time.Time          `json:"dueDate"`
	Payload       json.RawMessage     `json:"payload"`
}

// BuilderService turns a completed builder form into a persisted document,
// computing the derived payload fields and the document number on the way.
type BuilderService struct {
	db *gorm.DB
}

func NewBuilderService(db *gorm.DB) *BuilderService {
	return &BuilderService{db: db}
}

func (s *BuilderService) Build(userID uuid.UUID, input BuildDocumentInput) (*models.Document, error) {
	if !input.DocumentType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, input.DocumentType)
	}
	if input.ClientPhone != "" && !utils.ValidatePhone(input.ClientPhone) {
		return nil, fmt.Errorf("%w: invalid client phone", ErrInvalidPayload)
	}

	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if !profile.IsPaying() && profile.DocumentsUsedThisMonth >= FreeTierDocumentLimit {
		return nil, ErrDocumentLimit
	}

	doc := &models.Document{
		ID:            uuid.New(),
		UserID:        userID,
		DocumentType:  input.DocumentType,
		Status:        input.Status,
		ClientName:    input.ClientName,
		ClientEmail:   input.ClientEmail,
		ClientPhone:   input.ClientPhone,
		ClientAddress: input.ClientAddress,
		JobLocation:   input.JobLocation,
		JobTitle:      input.JobTitle,
		Notes:         input.Notes,
		Photos:        models.StringList(input.Photos),
		DueDate:       input.DueDate,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := s.applyPayload(tx, doc, &profile, input.Payload); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Create(doc).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if doc.DocumentType == models.DocTypeInvoice {
		if err := tx.Model(&models.Profile{}).Where("id = ?", userID).
			UpdateColumn("invoice_next_number", gorm.Expr("invoice_next_number + ?", 1)).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Model(&models.Profile{}).Where("id = ?", userID).
		UpdateColumn("documents_used_this_month", gorm.Expr("documents_used_this_month + ?", 1)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// applyPayload decodes the submitted payload for the document's type,
// recomputes its derived fields and fills in number, status and total.
func (s *BuilderService) applyPayload(tx *gorm.DB, doc *models.Document, profile *models.Profile, raw json.RawMessage) error {
	switch doc.DocumentType {
	case models.DocTypeInvoice:
		var p models.InvoicePayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		computeLineTotals(p.LineItems, &p.Subtotal)
		if p.TaxRate == 0 {
			p.TaxRate = profile.DefaultTaxRate
		}
		p.TaxAmount = utils.Round2(p.Subtotal * p.TaxRate / 100)
		p.Total = utils.Round2(p.Subtotal + p.TaxAmount - p.Discount)
		if p.PaymentTerms == "" {
			p.PaymentTerms = profile.DefaultPaymentTerms
		}
		if p.InvoiceDate == "" {
			p.InvoiceDate = time.Now().Format("2006-01-02")
		}
		doc.DocumentNumber = fmt.Sprintf("%s%03d", profile.InvoicePrefix, profile.InvoiceNextNumber)
		doc.TotalAmount = p.Total
		defaultStatus(doc, "draft")
		return encodeInto(doc, p)

	case models.DocTypeEstimate:
		var p models.EstimatePayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		computeLineTotals(p.LineItems, &p.Subtotal)
		p.TaxAmount = utils.Round2(p.Subtotal * p.TaxRate / 100)
		p.Total = utils.Round2(p.Subtotal + p.TaxAmount - p.Discount)
		if p.EstimateDate == "" {
			p.EstimateDate = time.Now().Format("2006-01-02")
		}
		doc.DocumentNumber = stampedNumber("EST")
		doc.TotalAmount = p.Total
		defaultStatus(doc, "draft")
		return encodeInto(doc, p)

	case models.DocTypeReceipt:
		var p models.ReceiptPayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		p.AmountReceived = utils.Round2(p.AmountReceived)
		doc.DocumentNumber = stampedNumber("REC")
		doc.TotalAmount = p.AmountReceived
		defaultStatus(doc, "completed")
		return encodeInto(doc, p)

	case models.DocTypeWorkOrder:
		var p models.WorkOrderPayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		doc.DocumentNumber = stampedNumber("WO")
		defaultStatus(doc, "open")
		return encodeInto(doc, p)

	case models.DocTypeTimeSheet:
		var p models.TimeSheetPayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		p.TotalHours = 0
		for _, e := range p.Entries {
			p.TotalHours += e.TotalHours
		}
		p.TotalPay = utils.Round2(p.TotalHours * p.HourlyRate)
		doc.DocumentNumber = stampedNumber("TS")
		doc.TotalAmount = p.TotalPay
		defaultStatus(doc, "draft")
		return encodeInto(doc, p)

	case models.DocTypeMaterialLog:
		var p models.MaterialLogPayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		p.Subtotal = 0
		for i := range p.Materials {
			p.Materials[i].TotalCost = utils.Round2(p.Materials[i].Quantity * p.Materials[i].UnitCost)
			p.Subtotal += p.Materials[i].TotalCost
		}
		p.Subtotal = utils.Round2(p.Subtotal)
		p.Tax = utils.Round2(p.Subtotal * p.TaxRate / 100)
		p.GrandTotal = utils.Round2(p.Subtotal + p.Tax)
		doc.DocumentNumber = stampedNumber("ML")
		doc.TotalAmount = p.GrandTotal
		defaultStatus(doc, "draft")
		return encodeInto(doc, p)

	case models.DocTypeDailyJobReport:
		var p models.DailyJobReportPayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		if p.ReportDate == "" {
			p.ReportDate = time.Now().Format("2006-01-02")
		}
		doc.DocumentNumber = stampedNumber("DJR")
		defaultStatus(doc, "completed")
		return encodeInto(doc, p)

	case models.DocTypeExpenseLog:
		var p models.ExpenseLogPayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		p.GrandTotal = 0
		p.ReimbursableTotal = 0
		p.TotalByCategory = map[string]float64{}
		for _, e := range p.Expenses {
			p.GrandTotal += e.Amount
			p.TotalByCategory[e.Category] = utils.Round2(p.TotalByCategory[e.Category] + e.Amount)
			if e.Reimbursable {
				p.ReimbursableTotal += e.Amount
			}
		}
		p.GrandTotal = utils.Round2(p.GrandTotal)
		p.ReimbursableTotal = utils.Round2(p.ReimbursableTotal)
		doc.DocumentNumber = stampedNumber("EXP")
		doc.TotalAmount = p.GrandTotal
		defaultStatus(doc, "draft")
		return encodeInto(doc, p)

	case models.DocTypeWarranty:
		var p models.WarrantyPayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		doc.DocumentNumber = stampedNumber("WAR")
		defaultStatus(doc, "active")
		return encodeInto(doc, p)

	case models.DocTypeNotes:
		var p models.NotesPayload
		if err := decodeInto(raw, &p); err != nil {
			return err
		}
		if doc.JobTitle == "" {
			doc.JobTitle = p.NoteTitle
		}
		if doc.Notes == "" {
			doc.Notes = p.NoteBody
		}
		doc.DocumentNumber = stampedNumber("NOTE")
		defaultStatus(doc, "active")
		return encodeInto(doc, p)
	}

	return fmt.Errorf("%w: %q", ErrUnknownDocumentType, doc.DocumentType)
}

func computeLineTotals(items []models.InvoiceLineItem, subtotal *float64) {
	*subtotal = 0
	for i := range items {
		items[i].Amount = utils.Round2(items[i].Quantity * items[i].Rate)
		*subtotal += items[i].Amount
	}
	*subtotal = utils.Round2(*subtotal)
}

func decodeInto(raw json.RawMessage, target interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload missing", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func encodeInto(doc *models.Document, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	doc.Data = models.JSON(data)
	return nil
}

func defaultStatus(doc *models.Document, status string) {
	if doc.Status == "" {
		doc.Status = status
	}
}

func stampedNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixMilli())
}
