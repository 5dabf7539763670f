package directory

import "context"

type StoreAPI interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetByUID(ctx context.Context, uid string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, string, error)
	GetByID(ctx context.Context, id string) (User, error)
	ListEmployees(ctx context.Context) ([]User, error)
	PromoteToHRTx(ctx context.Context, userID string) (User, error)
	SetStatus(ctx context.Context, uid, status string) error
	SetVerification(ctx context.Context, userID string, verified bool) error
	SetSalary(ctx context.Context, userID string, salary float64) error
	SalaryHistory(ctx context.Context, email string) ([]SalaryPayout, error)
}
