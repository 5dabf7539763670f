package settlement

import (
	"context"
	"time"

	"worksync/internal/domain/worksheet"
)

// StoreAPI spans the worksheet store and the payment ledger. Settle is the
// single cross-collection write and must be atomic: ledger insert and
// worksheet delete commit together or not at all.
type StoreAPI interface {
	ListEntries(ctx context.Context, employeeEmail string) ([]worksheet.Entry, error)
	ListPayments(ctx context.Context, employeeEmail string) ([]PaymentRecord, error)
	GetPayment(ctx context.Context, paymentID string) (PaymentRecord, error)
	HasPendingPayment(ctx context.Context, employeeEmail string) (bool, error)
	Settle(ctx context.Context, record PaymentRecord, entryIDs []string) (PaymentRecord, error)
	MarkPaid(ctx context.Context, paymentID string, paidAt time.Time) (PaymentRecord, error)
}
