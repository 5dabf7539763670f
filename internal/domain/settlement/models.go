package settlement

import (
	"time"

	"worksync/internal/domain/worksheet"
)

// EntrySnapshot is the copy of a worksheet entry embedded in the payment that
// consumed it. The original entry is deleted at settlement time; the snapshot
// is what remains for auditing and reconciliation.
type EntrySnapshot struct {
	EntryID  string    `json:"entryId"`
	WorkDate time.Time `json:"workDate"`
	Hours    float64   `json:"hours"`
	Task     string    `json:"task,omitempty"`
}

type PaymentRecord struct {
	ID            string          `json:"id"`
	EmployeeEmail string          `json:"employeeEmail"`
	Amount        float64         `json:"amount"`
	ApproverID    string          `json:"approverId"`
	Status        string          `json:"status"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	Entries       []EntrySnapshot `json:"entries"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OwedSnapshot is derived per employee on demand and never persisted.
type OwedSnapshot struct {
	TotalOwed         float64           `json:"totalOwed"`
	TotalHours        float64           `json:"totalHours"`
	TotalPaid         float64           `json:"totalPaid"`
	Salary            float64           `json:"salary"`
	HasPendingPayment bool              `json:"hasPendingPayment"`
	UnpaidEntries     []worksheet.Entry `json:"unpaidEntries"`
}

type ProcessPaymentInput struct {
	EmployeeEmail string   `json:"employeeEmail"`
	Amount        float64  `json:"amount"`
	ApproverID    string   `json:"approverId"`
	EntryIDs      []string `json:"entryIds"`
}
