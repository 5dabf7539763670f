package settlement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptPDF renders a payment receipt for a paid record and returns the file
// path. Pending payments have nothing to receipt yet.
func (s *Service) ReceiptPDF(ctx context.Context, paymentID string) (string, error) {
	record, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return "", err
	}
	if record.Status != StatusPaid {
		return "", ErrPaymentNotPaid
	}

	if err := os.MkdirAll(s.receiptDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.receiptDir, record.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", record.EmployeeEmail))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Approved by: %s", record.ApproverID))
	pdf.Ln(7)
	if record.PaymentDate != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Paid on: %s", record.PaymentDate.Format("2006-01-02")))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Amount: %.2f %s", record.Amount, s.currency))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Settled worksheet entries")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, entry := range record.Entries {
		line := fmt.Sprintf("%s  %.2fh  %s", entry.WorkDate.Format("2006-01-02"), entry.Hours, entry.Task)
		pdf.Cell(0, 7, line)
		pdf.Ln(6)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
