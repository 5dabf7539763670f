package directory

import "time"

type User struct {
	ID         string     `json:"id"`
	UID        string     `json:"uid"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	PhotoURL   string     `json:"photoURL,omitempty"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	IsVerified bool       `json:"isVerified"`
	Salary     float64    `json:"salary"`
	PromotedAt *time.Time `json:"promotedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// SalaryPayout is one row of an employee's payout history, aggregated from
// paid payment records.
type SalaryPayout struct {
	Month  string    `json:"month"`
	Year   int       `json:"year"`
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paidAt"`
}

type RegisterInput struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
