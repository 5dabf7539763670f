package worksheet

import "time"

type Entry struct {
	ID            string    `json:"id"`
	EmployeeEmail string    `json:"employeeEmail"`
	WorkDate      time.Time `json:"workDate"`
	Hours         float64   `json:"hours"`
	Task          string    `json:"task"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// EntryPatch carries field updates applied before an entry is settled.
// Nil fields are left untouched.
type EntryPatch struct {
	WorkDate *time.Time `json:"workDate,omitempty"`
	Hours    *float64   `json:"hours,omitempty"`
	Task     *string    `json:"task,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}
