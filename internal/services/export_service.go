package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService produces the arrears report and payment receipts as
// downloadable documents
type ExportService struct {
	accountRepo repository.AccountRepository
	paymentRepo repository.PaymentRepository
}

// NewExportService creates an export service
func NewExportService(accountRepo repository.AccountRepository, paymentRepo repository.PaymentRepository) *ExportService {
	return &ExportService{accountRepo: accountRepo, paymentRepo: paymentRepo}
}

// ArrearsCSV renders the arrears report as CSV, worst balances first
func (s *ExportService) ArrearsCSV(ctx context.Context) ([]byte, string, error) {
	accounts, err := s.accountRepo.ListByStatus(ctx, models.AccountStatusArrears)
	if err != nil {
		return nil, "", fmt.Errorf("load arrears accounts: %w", err)
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Arrears Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Tenant", "Phone", "Total Invoiced", "Total Paid", "Outstanding", "Last Reconciled"})

	for _, account := range accounts {
		_ = writer.Write([]string{
			account.Tenant.FullName,
			account.Tenant.Phone,
			account.TotalInvoiced.StringFixed(2),
			account.TotalPaid.StringFixed(2),
			account.Balance.Abs().StringFixed(2),
			account.ReconciledAt.Format("2006-01-02 15:04"),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("arrears_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ArrearsXLSX renders the arrears report as a spreadsheet
func (s *ExportService) ArrearsXLSX(ctx context.Context) ([]byte, string, error) {
	accounts, err := s.accountRepo.ListByStatus(ctx, models.AccountStatusArrears)
	if err != nil {
		return nil, "", fmt.Errorf("load arrears accounts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Arrears"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Arrears Report")
	_ = f.SetCellValue(sheet, "B1", time.Now().Format("2006-01-02 15:04"))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	headers := []string{"Tenant", "Phone", "Total Invoiced", "Total Paid", "Outstanding", "Last Reconciled"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, account := range accounts {
		values := []interface{}{
			account.Tenant.FullName,
			account.Tenant.Phone,
			account.TotalInvoiced.InexactFloat64(),
			account.TotalPaid.InexactFloat64(),
			account.Balance.Abs().InexactFloat64(),
			account.ReconciledAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+4)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("arrears_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ReceiptPDF renders a payment receipt document for one payment
func (s *ExportService) ReceiptPDF(ctx context.Context, paymentID uint) ([]byte, string, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("load payment: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Receipt No:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", payment.ID))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Date:")
	pdf.Cell(40, 10, payment.PaymentDate.Format("2006-01-02"))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Tenant:")
	pdf.Cell(40, 10, payment.Lease.Tenant.FullName)
	pdf.Ln(6)

	if payment.Lease.Unit.ID != 0 {
		unitLabel := payment.Lease.Unit.Label
		if payment.Lease.Unit.Property.ID != 0 {
			unitLabel = payment.Lease.Unit.Property.Name + " - " + unitLabel
		}
		pdf.Cell(60, 10, "Unit:")
		pdf.Cell(40, 10, unitLabel)
		pdf.Ln(6)
	}

	pdf.Cell(60, 10, "Method:")
	pdf.Cell(40, 10, payment.Method)
	pdf.Ln(6)

	if payment.TransactionRef != nil {
		pdf.Cell(60, 10, "Transaction Ref:")
		pdf.Cell(40, 10, *payment.TransactionRef)
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(60, 10, "Amount Received:")
	pdf.Cell(40, 10, fmt.Sprintf("KES %s", payment.Amount.StringFixed(2)))
	pdf.Ln(6)

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("receipt_%d.pdf", payment.ID)
	return buf.Bytes(), filename, nil
}
