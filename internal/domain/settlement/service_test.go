package settlement

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"worksync/internal/domain/worksheet"
)

// fakeStore implements StoreAPI in memory with the same consumption
// semantics as the SQL store: Settle is atomic and conflicts when any
// requested entry is gone.
type fakeStore struct {
	mu       sync.Mutex
	entries  map[string]worksheet.Entry
	payments []PaymentRecord
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]worksheet.Entry)}
}

func (f *fakeStore) addEntry(id, email string, hours float64, workDate time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[id] = worksheet.Entry{ID: id, EmployeeEmail: email, Hours: hours, WorkDate: workDate}
}

func (f *fakeStore) ListEntries(_ context.Context, employeeEmail string) ([]worksheet.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []worksheet.Entry
	for _, entry := range f.entries {
		if entry.EmployeeEmail == employeeEmail {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPayments(_ context.Context, employeeEmail string) ([]PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []PaymentRecord
	for _, record := range f.payments {
		if record.EmployeeEmail == employeeEmail {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeStore) GetPayment(_ context.Context, paymentID string) (PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.payments {
		if record.ID == paymentID {
			return record, nil
		}
	}
	return PaymentRecord{}, ErrPaymentNotFound
}

func (f *fakeStore) HasPendingPayment(_ context.Context, employeeEmail string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.payments {
		if record.EmployeeEmail == employeeEmail && record.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Settle(_ context.Context, record PaymentRecord, entryIDs []string) (PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var snapshots []EntrySnapshot
	for _, id := range entryIDs {
		entry, ok := f.entries[id]
		if !ok || entry.EmployeeEmail != record.EmployeeEmail {
			return PaymentRecord{}, ErrEntryConflict
		}
		snapshots = append(snapshots, EntrySnapshot{EntryID: entry.ID, WorkDate: entry.WorkDate, Hours: entry.Hours, Task: entry.Task})
	}
	for _, id := range entryIDs {
		delete(f.entries, id)
	}

	f.nextID++
	record.ID = fmt.Sprintf("payment-%d", f.nextID)
	record.Entries = snapshots
	record.CreatedAt = time.Now().UTC()
	f.payments = append(f.payments, record)
	return record, nil
}

func (f *fakeStore) MarkPaid(_ context.Context, paymentID string, paidAt time.Time) (PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.payments {
		if f.payments[i].ID != paymentID {
			continue
		}
		if f.payments[i].Status == StatusPaid {
			return f.payments[i], nil
		}
		f.payments[i].Status = StatusPaid
		f.payments[i].PaymentDate = &paidAt
		return f.payments[i], nil
	}
	return PaymentRecord{}, ErrPaymentNotFound
}

func TestSettlementRoundTrip(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 5, day("2024-03-01"))
	store.addEntry("e2", "e@x.com", 3, day("2024-03-02"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	owed, err := service.ComputeOwed(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("compute owed: %v", err)
	}
	if owed.TotalOwed != 160 || owed.TotalHours != 8 {
		t.Fatalf("expected owed 160 over 8h, got %+v", owed)
	}

	record, err := service.ProcessPayment(ctx, ProcessPaymentInput{
		EmployeeEmail: "e@x.com",
		Amount:        160,
		ApproverID:    "approver1",
		EntryIDs:      []string{"e1", "e2"},
	})
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	if record.Status != StatusPending {
		t.Fatalf("expected new payment to be pending, got %s", record.Status)
	}
	if len(record.Entries) != 2 {
		t.Fatalf("expected 2 snapshot entries, got %d", len(record.Entries))
	}

	unpaid, err := service.ListUnpaidEntries(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("list unpaid: %v", err)
	}
	if len(unpaid) != 0 {
		t.Fatalf("expected no unpaid entries after settlement, got %d", len(unpaid))
	}

	pending, err := service.HasPendingPayment(ctx, "e@x.com")
	if err != nil || !pending {
		t.Fatalf("expected pending payment, got %v %v", pending, err)
	}

	if _, err := service.SetStatus(ctx, record.ID, StatusPaid); err != nil {
		t.Fatalf("set status: %v", err)
	}

	owed, err = service.ComputeOwed(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("compute owed after payment: %v", err)
	}
	if owed.TotalOwed != 0 {
		t.Fatalf("expected totalOwed 0 after payment, got %v", owed.TotalOwed)
	}
	if owed.TotalPaid != 160 || owed.Salary != 160 {
		t.Fatalf("expected totalPaid/salary 160, got %+v", owed)
	}
	if owed.HasPendingPayment {
		t.Fatal("expected no pending payment after approval")
	}
}

func TestProcessPaymentValidation(t *testing.T) {
	service := NewService(newFakeStore(), 20, "USD", t.TempDir())
	ctx := context.Background()

	cases := []struct {
		name  string
		input ProcessPaymentInput
		want  error
	}{
		{"empty email", ProcessPaymentInput{Amount: 10, ApproverID: "a", EntryIDs: []string{"e1"}}, ErrEmployeeRequired},
		{"malformed email", ProcessPaymentInput{EmployeeEmail: "nope", Amount: 10, ApproverID: "a", EntryIDs: []string{"e1"}}, ErrEmployeeRequired},
		{"zero amount", ProcessPaymentInput{EmployeeEmail: "e@x.com", ApproverID: "a", EntryIDs: []string{"e1"}}, ErrAmountInvalid},
		{"negative amount", ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: -5, ApproverID: "a", EntryIDs: []string{"e1"}}, ErrAmountInvalid},
		{"missing approver", ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: 10, EntryIDs: []string{"e1"}}, ErrApproverRequired},
		{"no entries", ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: 10, ApproverID: "a"}, ErrNoEntries},
	}
	for _, tc := range cases {
		if _, err := service.ProcessPayment(ctx, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestProcessPaymentConflictLeavesStateUntouched(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 5, day("2024-03-01"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	_, err := service.ProcessPayment(ctx, ProcessPaymentInput{
		EmployeeEmail: "e@x.com",
		Amount:        200,
		ApproverID:    "approver1",
		EntryIDs:      []string{"e1", "gone"},
	})
	if !errors.Is(err, ErrEntryConflict) {
		t.Fatalf("expected ErrEntryConflict, got %v", err)
	}

	entries, err := service.ListUnpaidEntries(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("list unpaid: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("conflict must not consume entries, got %d left", len(entries))
	}
	payments, err := service.ListPayments(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 0 {
		t.Fatalf("conflict must not create a payment, got %d", len(payments))
	}
}

func TestConcurrentSettlementExactlyOneSucceeds(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 5, day("2024-03-01"))
	store.addEntry("e2", "e@x.com", 3, day("2024-03-02"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	input := ProcessPaymentInput{
		EmployeeEmail: "e@x.com",
		Amount:        160,
		ApproverID:    "approver1",
		EntryIDs:      []string{"e1", "e2"},
	}

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.ProcessPayment(ctx, input)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrEntryConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", successes, conflicts)
	}

	payments, err := service.ListPayments(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected a single payment record, got %d", len(payments))
	}
}

func TestNoEntryPaidTwice(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 2, day("2024-03-01"))
	store.addEntry("e2", "e@x.com", 4, day("2024-03-02"))
	store.addEntry("e3", "e@x.com", 1, day("2024-03-03"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	first, err := service.ProcessPayment(ctx, ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: 40, ApproverID: "a", EntryIDs: []string{"e1"}})
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if _, err := service.SetStatus(ctx, first.ID, StatusPaid); err != nil {
		t.Fatalf("approve first: %v", err)
	}

	if _, err := service.ProcessPayment(ctx, ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: 100, ApproverID: "a", EntryIDs: []string{"e1", "e2"}}); !errors.Is(err, ErrEntryConflict) {
		t.Fatalf("expected conflict re-settling e1, got %v", err)
	}

	second, err := service.ProcessPayment(ctx, ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: 100, ApproverID: "a", EntryIDs: []string{"e2", "e3"}})
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if _, err := service.SetStatus(ctx, second.ID, StatusPaid); err != nil {
		t.Fatalf("approve second: %v", err)
	}

	payments, err := service.ListPayments(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	seen := make(map[string]bool)
	for _, record := range payments {
		if record.Status != StatusPaid {
			continue
		}
		for _, entry := range record.Entries {
			if seen[entry.EntryID] {
				t.Fatalf("entry %s appears in two paid records", entry.EntryID)
			}
			seen[entry.EntryID] = true
		}
	}
}

func TestOwedConservation(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 5, day("2024-03-01"))
	store.addEntry("e2", "e@x.com", 3, day("2024-03-02"))
	store.addEntry("e3", "e@x.com", 2, day("2024-03-03"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	before, err := service.ComputeOwed(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("compute owed: %v", err)
	}

	var paidOut float64
	for _, batch := range [][]string{{"e1"}, {"e2", "e3"}} {
		owed, err := service.ComputeOwed(ctx, "e@x.com")
		if err != nil {
			t.Fatalf("compute owed: %v", err)
		}
		var amount float64
		for _, entry := range owed.UnpaidEntries {
			for _, id := range batch {
				if entry.ID == id {
					amount += entry.Hours * service.HourlyRate()
				}
			}
		}
		record, err := service.ProcessPayment(ctx, ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: amount, ApproverID: "a", EntryIDs: batch})
		if err != nil {
			t.Fatalf("process payment: %v", err)
		}
		if _, err := service.SetStatus(ctx, record.ID, StatusPaid); err != nil {
			t.Fatalf("approve: %v", err)
		}
		paidOut += amount
	}

	after, err := service.ComputeOwed(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("compute owed: %v", err)
	}
	if diff := before.TotalOwed - (paidOut + after.TotalOwed); diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("conservation violated: before=%v paid=%v after=%v", before.TotalOwed, paidOut, after.TotalOwed)
	}
}

func TestComputeOwedIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 5, day("2024-03-01"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	first, err := service.ComputeOwed(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("compute owed: %v", err)
	}
	second, err := service.ComputeOwed(ctx, "e@x.com")
	if err != nil {
		t.Fatalf("compute owed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical snapshots, got %+v vs %+v", first, second)
	}
}

func TestComputeOwedNoDataIsZeroNotError(t *testing.T) {
	service := NewService(newFakeStore(), 20, "USD", t.TempDir())

	snapshot, err := service.ComputeOwed(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("expected zero snapshot, got error %v", err)
	}
	if snapshot.TotalOwed != 0 || snapshot.TotalHours != 0 || len(snapshot.UnpaidEntries) != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snapshot)
	}
}

func TestComputeOwedRejectsEmptyEmail(t *testing.T) {
	service := NewService(newFakeStore(), 20, "USD", t.TempDir())
	if _, err := service.ComputeOwed(context.Background(), "  "); !errors.Is(err, ErrEmployeeRequired) {
		t.Fatalf("expected ErrEmployeeRequired, got %v", err)
	}
}

func TestSetStatusUnknownPayment(t *testing.T) {
	service := NewService(newFakeStore(), 20, "USD", t.TempDir())
	if _, err := service.SetStatus(context.Background(), "nonexistent-id", StatusPaid); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestSetStatusRejectsUnknownLiteral(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 5, day("2024-03-01"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	record, err := service.ProcessPayment(ctx, ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: 100, ApproverID: "a", EntryIDs: []string{"e1"}})
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	if _, err := service.SetStatus(ctx, record.ID, "cancelled"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSetStatusIsOneWay(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 5, day("2024-03-01"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	record, err := service.ProcessPayment(ctx, ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: 100, ApproverID: "a", EntryIDs: []string{"e1"}})
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}

	// Re-asserting the current status is a no-op.
	if again, err := service.SetStatus(ctx, record.ID, StatusPending); err != nil || again.Status != StatusPending {
		t.Fatalf("expected pending no-op, got %+v %v", again, err)
	}

	paid, err := service.SetStatus(ctx, record.ID, StatusPaid)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if paid.Status != StatusPaid || paid.PaymentDate == nil {
		t.Fatalf("expected paid record with payment date, got %+v", paid)
	}

	if _, err := service.SetStatus(ctx, record.ID, StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestReceiptRequiresPaidStatus(t *testing.T) {
	store := newFakeStore()
	store.addEntry("e1", "e@x.com", 5, day("2024-03-01"))
	service := NewService(store, 20, "USD", t.TempDir())
	ctx := context.Background()

	record, err := service.ProcessPayment(ctx, ProcessPaymentInput{EmployeeEmail: "e@x.com", Amount: 100, ApproverID: "a", EntryIDs: []string{"e1"}})
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	if _, err := service.ReceiptPDF(ctx, record.ID); !errors.Is(err, ErrPaymentNotPaid) {
		t.Fatalf("expected ErrPaymentNotPaid, got %v", err)
	}

	if _, err := service.SetStatus(ctx, record.ID, StatusPaid); err != nil {
		t.Fatalf("approve: %v", err)
	}
	path, err := service.ReceiptPDF(ctx, record.ID)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if path == "" {
		t.Fatal("expected receipt file path")
	}
}
