package settlement

import "errors"

var (
	ErrEmployeeRequired  = errors.New("employee email is required")
	ErrApproverRequired  = errors.New("approver id is required")
	ErrAmountInvalid     = errors.New("amount must be positive")
	ErrNoEntries         = errors.New("at least one worksheet entry is required")
	ErrEntryConflict     = errors.New("worksheet entry already consumed by another payment")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidStatus     = errors.New("invalid payment status")
	ErrInvalidTransition = errors.New("paid payments cannot move back to pending")
	ErrPaymentNotPaid    = errors.New("payment has not been paid yet")
)
