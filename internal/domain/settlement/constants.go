package settlement

// Payment status literals. The legacy data model also carried "approved" for
// what is the same concept as "paid"; the ledger now stores exactly these two.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusPaid
}
