package settlement

import (
	"github.com/shopspring/decimal"

	"worksync/internal/domain/worksheet"
)

// Reconcile derives an employee's owed snapshot from the current worksheet
// entries and payment history.
//
// An entry counts as unpaid when it is still in the worksheet and no paid
// payment references it. Entries referenced by a paid record normally no
// longer exist in the worksheet (settlement deletes them), but a record whose
// entries linger from the pre-deletion data model is still excluded here, so
// the same work is never valued twice. totalOwed is the rate-valued unpaid
// work; totalPaid is reported alongside rather than subtracted, since with
// settlement-time deletion the subtraction would count every paid record
// against work it never covered.
func Reconcile(entries []worksheet.Entry, payments []PaymentRecord, hourlyRate float64) OwedSnapshot {
	paidEntryIDs := make(map[string]struct{})
	totalPaid := decimal.Zero
	salary := decimal.Zero
	var snapshot OwedSnapshot
	var latestPaid *PaymentRecord

	for i := range payments {
		payment := &payments[i]
		switch payment.Status {
		case StatusPaid:
			totalPaid = totalPaid.Add(decimal.NewFromFloat(payment.Amount))
			for _, entry := range payment.Entries {
				paidEntryIDs[entry.EntryID] = struct{}{}
			}
			if latestPaid == nil || paidAfter(payment, latestPaid) {
				latestPaid = payment
			}
		case StatusPending:
			snapshot.HasPendingPayment = true
		}
	}
	if latestPaid != nil {
		salary = decimal.NewFromFloat(latestPaid.Amount)
	}

	rate := decimal.NewFromFloat(hourlyRate)
	totalHours := decimal.Zero
	for _, entry := range entries {
		if _, paid := paidEntryIDs[entry.ID]; paid {
			continue
		}
		totalHours = totalHours.Add(decimal.NewFromFloat(entry.Hours))
		snapshot.UnpaidEntries = append(snapshot.UnpaidEntries, entry)
	}

	snapshot.TotalHours, _ = totalHours.Float64()
	snapshot.TotalOwed, _ = rate.Mul(totalHours).Float64()
	snapshot.TotalPaid, _ = totalPaid.Float64()
	snapshot.Salary, _ = salary.Float64()
	return snapshot
}

func paidAfter(a, b *PaymentRecord) bool {
	aDate, bDate := a.CreatedAt, b.CreatedAt
	if a.PaymentDate != nil {
		aDate = *a.PaymentDate
	}
	if b.PaymentDate != nil {
		bDate = *b.PaymentDate
	}
	return aDate.After(bDate)
}
