// services/pdf.go
package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"jobdocs-backend/models"
	"jobdocs-backend/utils"

	"github.com/jung-kurt/gofpdf"
)

// GenerateDocumentPDF renders a document and its owner's profile to a PDF.
// Invoices and receipts get tailored layouts; every other type falls through
// to the generic layout. The output is a pure function of its two inputs:
// compression is off and the file dates are pinned to the document, so the
// same pair always produces identical bytes.
func GenerateDocumentPDF(doc *models.Document, profile *models.Profile) ([]byte, error) {
	switch doc.DocumentType {
	case models.DocTypeInvoice:
		return generateInvoicePDF(doc, profile)
	case models.DocTypeReceipt:
		return generateReceiptPDF(doc, profile)
	default:
		return generateGenericPDF(doc, profile)
	}
}

func newDocumentPDF(doc *models.Document) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	stamp := doc.UpdatedAt
	if stamp.IsZero() {
		stamp = time.Unix(0, 0)
	}
	pdf.SetCreationDate(stamp.UTC())
	pdf.SetModificationDate(stamp.UTC())
	pdf.AddPage()
	return pdf
}

func generateInvoicePDF(doc *models.Document, profile *models.Profile) ([]byte, error) {
	decoded, err := doc.DecodePayload()
	if err != nil {
		return nil, err
	}
	payload, ok := decoded.(*models.InvoicePayload)
	if !ok {
		return nil, fmt.Errorf("document %s is not an invoice", doc.ID)
	}

	pdf := newDocumentPDF(doc)

	embedLogo(pdf, profile.CompanyLogo, 15, 10, 30, 30)

	// Header
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(37, 99, 235)
	pdf.Text(150, 20, "INVOICE")

	// Company info
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	companyY := 45.0
	for _, line := range []string{profile.CompanyName, profile.Address, profile.Phone, profile.BusinessEmail} {
		if line != "" {
			pdf.Text(15, companyY, line)
		}
		companyY += 5
	}

	// Invoice details
	textRight(pdf, 150, 30, "Invoice #: "+doc.DocumentNumber)
	invoiceDate := payload.InvoiceDate
	if invoiceDate == "" {
		invoiceDate = doc.CreatedAt.Format("2006-01-02")
	}
	textRight(pdf, 150, 35, "Date: "+utils.FormatDisplayDate(invoiceDate))
	if doc.DueDate != nil {
		textRight(pdf, 150, 40, "Due: "+doc.DueDate.Format("Jan 2, 2006"))
	}

	// Client info
	pdf.SetFont("Arial", "B", 11)
	pdf.Text(15, 75, "Bill To:")
	pdf.SetFont("Arial", "", 10)
	billY := 80.0
	for _, line := range []string{doc.ClientName, doc.ClientAddress, doc.ClientEmail, doc.ClientPhone} {
		if line != "" {
			pdf.Text(15, billY, line)
		}
		billY += 5
	}

	finalY := drawLineItemTable(pdf, payload.LineItems) + 10

	// Totals, straight from the stored payload
	pdf.SetFont("Arial", "", 10)
	textRight(pdf, 150, finalY, "Subtotal:")
	textRight(pdf, 195, finalY, utils.FormatAmount(payload.Subtotal))

	if payload.TaxAmount > 0 {
		taxRate := strconv.FormatFloat(payload.TaxRate, 'f', -1, 64)
		textRight(pdf, 150, finalY+5, "Tax ("+taxRate+"%):")
		textRight(pdf, 195, finalY+5, utils.FormatAmount(payload.TaxAmount))
	}
	if payload.Discount > 0 {
		textRight(pdf, 150, finalY+10, "Discount:")
		textRight(pdf, 195, finalY+10, "-"+utils.FormatAmount(payload.Discount))
	}

	totalY := finalY + 10
	if payload.TaxAmount > 0 {
		totalY = finalY + 15
	}
	pdf.SetFont("Arial", "B", 12)
	textRight(pdf, 150, totalY, "Total:")
	textRight(pdf, 195, totalY, utils.FormatAmount(payload.Total))

	if payload.PaymentTerms != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.Text(15, totalY+10, "Payment Terms: "+payload.PaymentTerms)
	}

	if doc.Notes != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.Text(15, totalY+20, "Notes:")
		pdf.SetXY(15, totalY+21)
		pdf.MultiCell(180, 5, doc.Notes, "", "L", false)
	}

	drawTrialWatermark(pdf, profile, 150)

	pdf.SetTextColor(100, 100, 100)
	pdf.SetFont("Arial", "", 8)
	textCenter(pdf, 105, 280, "Thank you for your business!")

	return outputPDF(pdf)
}

func generateReceiptPDF(doc *models.Document, profile *models.Profile) ([]byte, error) {
	decoded, err := doc.DecodePayload()
	if err != nil {
		return nil, err
	}
	payload, ok := decoded.(*models.ReceiptPayload)
	if !ok {
		return nil, fmt.Errorf("document %s is not a receipt", doc.ID)
	}

	pdf := newDocumentPDF(doc)

	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(37, 99, 235)
	textCenter(pdf, 105, 20, "RECEIPT")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	if profile.CompanyName != "" {
		textCenter(pdf, 105, 35, profile.CompanyName)
	}
	if profile.Address != "" {
		textCenter(pdf, 105, 40, profile.Address)
	}

	pdf.SetFont("Arial", "", 11)
	pdf.Text(15, 60, "Receipt #: "+doc.DocumentNumber)
	pdf.Text(15, 65, "Date: "+utils.FormatDisplayDate(payload.ReceiptDate))
	if doc.ClientName != "" {
		pdf.Text(15, 75, "Received From: "+doc.ClientName)
	}
	if payload.PaymentMethod != "" {
		pdf.Text(15, 80, "Payment Method: "+payload.PaymentMethod)
	}

	// Amount box
	pdf.SetDrawColor(37, 99, 235)
	pdf.SetLineWidth(0.5)
	pdf.Rect(15, 90, 180, 30, "D")
	pdf.SetFont("Arial", "B", 14)
	pdf.Text(20, 100, "Amount Received:")
	pdf.SetFont("Arial", "B", 20)
	pdf.Text(20, 112, utils.FormatAmount(payload.AmountReceived))

	if payload.ReceivedFor != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.Text(15, 130, "Received For:")
		pdf.SetXY(15, 131)
		pdf.MultiCell(180, 5, payload.ReceivedFor, "", "L", false)
	}

	drawTrialWatermark(pdf, profile, 180)

	return outputPDF(pdf)
}

func generateGenericPDF(doc *models.Document, profile *models.Profile) ([]byte, error) {
	pdf := newDocumentPDF(doc)

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	textCenter(pdf, 105, 20, strings.ToUpper(string(doc.DocumentType)))

	pdf.SetFont("Arial", "", 12)
	pdf.Text(15, 40, "Document #: "+doc.DocumentNumber)
	pdf.Text(15, 50, "Date: "+doc.CreatedAt.Format("Jan 2, 2006"))
	if doc.ClientName != "" {
		pdf.Text(15, 60, "Client: "+doc.ClientName)
	}

	drawTrialWatermark(pdf, profile, 150)

	return outputPDF(pdf)
}

// drawLineItemTable draws the striped items table starting at y=105 and
// returns the y position just past the rendered rows.
func drawLineItemTable(pdf *gofpdf.Fpdf, items []models.InvoiceLineItem) float64 {
	widths := []float64{90, 25, 30, 35}
	headers := []string{"Description", "Qty", "Rate", "Amount"}

	y := 105.0
	pdf.SetXY(15, y)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(37, 99, 235)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "", 0, "L", true, 0, "")
	}
	y += 8

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, item := range items {
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(240, 240, 240)
		}
		pdf.SetXY(15, y)
		pdf.CellFormat(widths[0], 7, item.Description, "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 7, strconv.FormatFloat(item.Quantity, 'f', -1, 64), "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 7, utils.FormatAmount(item.Rate), "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[3], 7, utils.FormatAmount(item.Amount), "", 0, "L", fill, 0, "")
		y += 7
	}

	return y
}

// drawTrialWatermark overlays the diagonal trial banner for non-paying
// accounts, centered at (105, yCenter). Receipts sit lower on the page than
// the other layouts.
func drawTrialWatermark(pdf *gofpdf.Fpdf, profile *models.Profile, yCenter float64) {
	if profile.IsPaying() {
		return
	}
	pdf.TransformBegin()
	pdf.TransformRotate(45, 105, yCenter)
	pdf.SetFont("Arial", "B", 50)
	pdf.SetTextColor(220, 220, 220)
	textCenter(pdf, 105, yCenter, "TRIAL VERSION")
	pdf.TransformEnd()
}

// embedLogo places the profile's logo data URL on the page. A logo that
// fails to decode is skipped and the page continues without it.
func embedLogo(pdf *gofpdf.Fpdf, dataURL string, x, y, w, h float64) {
	raw, ok := decodeImageDataURL(dataURL)
	if !ok {
		return
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return
	}
	// Re-encode as baseline PNG so the embedder always gets a format it
	// accepts, whatever the stored logo was.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("company-logo", opts, &buf)
	pdf.ImageOptions("company-logo", x, y, w, h, false, opts, 0, "")
}

func decodeImageDataURL(dataURL string) ([]byte, bool) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, false
	}
	idx := strings.Index(dataURL, "base64,")
	if idx < 0 {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(dataURL[idx+len("base64,"):])
	if err != nil {
		return nil, false
	}
	return raw, true
}

func textRight(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

func textCenter(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}

func outputPDF(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
