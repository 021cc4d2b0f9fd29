package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Each document type carries a payload with a fixed shape. The builder encodes
// one of these structs into Document.Data and the renderer decodes the same
// struct back out, so the two sides share a single field-name contract.

type InvoiceLineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type InvoicePayload struct {
	LineItems          []InvoiceLineItem `json:"lineItems"`
	Subtotal           float64           `json:"subtotal"`
	TaxRate            float64           `json:"taxRate"`
	TaxAmount          float64           `json:"taxAmount"`
	Discount           float64           `json:"discount"`
	Total              float64           `json:"total"`
	PaymentTerms       string            `json:"paymentTerms"`
	TermsAndConditions string            `json:"termsAndConditions,omitempty"`
	InvoiceDate        string            `json:"invoiceDate"`
}

// EstimatePayload mirrors the invoice shape; an estimate is priced the same
// way but carries a validity window instead of payment terms.
type EstimatePayload struct {
	LineItems    []InvoiceLineItem `json:"lineItems"`
	Subtotal     float64           `json:"subtotal"`
	TaxRate      float64           `json:"taxRate"`
	TaxAmount    float64           `json:"taxAmount"`
	Discount     float64           `json:"discount"`
	Total        float64           `json:"total"`
	EstimateDate string            `json:"estimateDate"`
	ValidUntil   string            `json:"validUntil"`
	ScopeOfWork  string            `json:"scopeOfWork,omitempty"`
}

type ReceiptPayload struct {
	ReceiptDate      string  `json:"receiptDate"`
	AmountReceived   float64 `json:"amountReceived"`
	PaymentMethod    string  `json:"paymentMethod"`
	ReceivedFor      string  `json:"receivedFor,omitempty"`
	InvoiceReference string  `json:"invoiceReference,omitempty"`
}

type WorkOrderPayload struct {
	WorkOrderDate    string `json:"workOrderDate"`
	ServiceRequested string `json:"serviceRequested"`
	Priority         string `json:"priority"`
	WorkPerformed    string `json:"workPerformed,omitempty"`
	MaterialsUsed    string `json:"materialsUsed,omitempty"`
	StartTime        string `json:"startTime,omitempty"`
	EndTime          string `json:"endTime,omitempty"`
}

type TimeSheetEntry struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	BreakMinutes float64 `json:"breakMinutes"`
	TotalHours   float64 `json:"totalHours"`
	Notes        string  `json:"notes,omitempty"`
}

type TimeSheetPayload struct {
	WeekEnding   string           `json:"weekEnding"`
	EmployeeName string           `json:"employeeName"`
	JobTitle     string           `json:"jobTitle"`
	HourlyRate   float64          `json:"hourlyRate"`
	Entries      []TimeSheetEntry `json:"entries"`
	TotalHours   float64          `json:"totalHours"`
	TotalPay     float64          `json:"totalPay"`
}

type MaterialItem struct {
	ID        string  `json:"id"`
	Item      string  `json:"item"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitCost  float64 `json:"unitCost"`
	TotalCost float64 `json:"totalCost"`
}

type MaterialLogPayload struct {
	LogDate    string         `json:"logDate"`
	Supplier   string         `json:"supplier"`
	Materials  []MaterialItem `json:"materials"`
	Subtotal   float64        `json:"subtotal"`
	TaxRate    float64        `json:"taxRate"`
	Tax        float64        `json:"tax"`
	GrandTotal float64        `json:"grandTotal"`
}

type DailyJobReportPayload struct {
	ReportDate         string   `json:"reportDate"`
	Weather            string   `json:"weather,omitempty"`
	Temperature        string   `json:"temperature,omitempty"`
	CrewMembers        []string `json:"crewMembers"`
	WorkCompleted      string   `json:"workCompleted"`
	MaterialsDelivered []string `json:"materialsDelivered"`
	EquipmentUsed      []string `json:"equipmentUsed"`
	Issues             string   `json:"issues,omitempty"`
	SafetyNotes        string   `json:"safetyNotes,omitempty"`
	NextSteps          string   `json:"nextSteps,omitempty"`
}

type ExpenseItem struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Category     string  `json:"category"`
	Vendor       string  `json:"vendor"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	ReceiptPhoto string  `json:"receiptPhoto,omitempty"`
	Reimbursable bool    `json:"reimbursable"`
}

type ExpenseLogPayload struct {
	StartDate         string             `json:"startDate"`
	EndDate           string             `json:"endDate"`
	Expenses          []ExpenseItem      `json:"expenses"`
	TotalByCategory   map[string]float64 `json:"totalByCategory"`
	GrandTotal        float64            `json:"grandTotal"`
	ReimbursableTotal float64            `json:"reimbursableTotal"`
}

type WarrantyPayload struct {
	JobReference    string `json:"jobReference,omitempty"`
	WorkCovered     string `json:"workCovered"`
	Duration        string `json:"duration"`
	StartDate       string `json:"startDate"`
	ExpirationDate  string `json:"expirationDate"`
	CoverageDetails string `json:"coverageDetails,omitempty"`
	Exclusions      string `json:"exclusions,omitempty"`
	ClaimsProcedure string `json:"claimsProcedure,omitempty"`
}

type NotesPayload struct {
	NoteTitle    string   `json:"noteTitle"`
	NoteBody     string   `json:"noteBody"`
	Tags         []string `json:"tags,omitempty"`
	Important    bool     `json:"important"`
	ReminderDate string   `json:"reminderDate,omitempty"`
}

// DecodePayload unmarshals Data into the payload struct matching the
// document's type discriminant.
func (d *Document) DecodePayload() (interface{}, error) {
	if len(d.Data) == 0 {
		return nil, errors.New("document has no payload")
	}

	var target interface{}
	switch d.DocumentType {
	case DocTypeInvoice:
		target = &InvoicePayload{}
	case DocTypeEstimate:
		target = &EstimatePayload{}
	case DocTypeReceipt:
		target = &ReceiptPayload{}
	case DocTypeWorkOrder:
		target = &WorkOrderPayload{}
	case DocTypeTimeSheet:
		target = &TimeSheetPayload{}
	case DocTypeMaterialLog:
		target = &MaterialLogPayload{}
	case DocTypeDailyJobReport:
		target = &DailyJobReportPayload{}
	case DocTypeExpenseLog:
		target = &ExpenseLogPayload{}
	case DocTypeWarranty:
		target = &WarrantyPayload{}
	case DocTypeNotes:
		target = &NotesPayload{}
	default:
		return nil, fmt.Errorf("unknown document type %q", d.DocumentType)
	}

	if err := json.Unmarshal(d.Data, target); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", d.DocumentType, err)
	}
	return target, nil
}
