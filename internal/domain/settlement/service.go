package settlement

import (
	"context"
	"strings"
	"time"

	"worksync/internal/domain/worksheet"
)

type Service struct {
	store      StoreAPI
	hourlyRate float64
	currency   string
	receiptDir string
}

func NewService(store StoreAPI, hourlyRate float64, currency, receiptDir string) *Service {
	return &Service{store: store, hourlyRate: hourlyRate, currency: currency, receiptDir: receiptDir}
}

func (s *Service) HourlyRate() float64 {
	return s.hourlyRate
}

// ComputeOwed reconciles the worksheet store against the payment ledger for
// one employee. Read-only; an employee with no records gets a zeroed
// snapshot, not an error.
func (s *Service) ComputeOwed(ctx context.Context, employeeEmail string) (OwedSnapshot, error) {
	employeeEmail, err := normalizeEmail(employeeEmail)
	if err != nil {
		return OwedSnapshot{}, err
	}

	entries, err := s.store.ListEntries(ctx, employeeEmail)
	if err != nil {
		return OwedSnapshot{}, err
	}
	payments, err := s.store.ListPayments(ctx, employeeEmail)
	if err != nil {
		return OwedSnapshot{}, err
	}
	return Reconcile(entries, payments, s.hourlyRate), nil
}

func (s *Service) ListUnpaidEntries(ctx context.Context, employeeEmail string) ([]worksheet.Entry, error) {
	snapshot, err := s.ComputeOwed(ctx, employeeEmail)
	if err != nil {
		return nil, err
	}
	return snapshot.UnpaidEntries, nil
}

func (s *Service) HasPendingPayment(ctx context.Context, employeeEmail string) (bool, error) {
	employeeEmail, err := normalizeEmail(employeeEmail)
	if err != nil {
		return false, err
	}
	return s.store.HasPendingPayment(ctx, employeeEmail)
}

func (s *Service) ListPayments(ctx context.Context, employeeEmail string) ([]PaymentRecord, error) {
	employeeEmail, err := normalizeEmail(employeeEmail)
	if err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, employeeEmail)
}

// ProcessPayment settles a batch of unpaid worksheet entries into a new
// pending payment record. All-or-nothing: any entry already consumed by a
// concurrent payment aborts the whole operation with ErrEntryConflict.
func (s *Service) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (PaymentRecord, error) {
	employeeEmail, err := normalizeEmail(input.EmployeeEmail)
	if err != nil {
		return PaymentRecord{}, err
	}
	if strings.TrimSpace(input.ApproverID) == "" {
		return PaymentRecord{}, ErrApproverRequired
	}
	if input.Amount <= 0 {
		return PaymentRecord{}, ErrAmountInvalid
	}

	entryIDs := dedupe(input.EntryIDs)
	if len(entryIDs) == 0 {
		return PaymentRecord{}, ErrNoEntries
	}

	record := PaymentRecord{
		EmployeeEmail: employeeEmail,
		Amount:        input.Amount,
		ApproverID:    strings.TrimSpace(input.ApproverID),
		Status:        StatusPending,
	}
	return s.store.Settle(ctx, record, entryIDs)
}

// SetStatus drives the approval state machine. Transitions are one-way:
// pending payments can be marked paid, never the reverse. Re-asserting the
// current status is a no-op.
func (s *Service) SetStatus(ctx context.Context, paymentID, status string) (PaymentRecord, error) {
	if !ValidStatus(status) {
		return PaymentRecord{}, ErrInvalidStatus
	}

	record, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return PaymentRecord{}, err
	}
	if record.Status == status {
		return record, nil
	}
	if record.Status == StatusPaid && status == StatusPending {
		return PaymentRecord{}, ErrInvalidTransition
	}
	return s.store.MarkPaid(ctx, paymentID, time.Now().UTC())
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrEmployeeRequired
	}
	return email, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
