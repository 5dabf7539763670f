package directory

import (
	"context"
	"errors"
	"strings"

	"worksync/internal/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Register creates a directory entry. Registration is idempotent on email:
// a duplicate returns the existing user instead of failing, matching the
// upsert-on-first-login flow.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrEmailRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return User{}, ErrNameRequired
	}
	if strings.TrimSpace(input.Password) == "" {
		return User{}, ErrWeakCredential
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = auth.RoleEmployee
	}
	if !auth.ValidRole(role) {
		return User{}, ErrInvalidRole
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		UID:      strings.TrimSpace(input.UID),
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		PhotoURL: strings.TrimSpace(input.PhotoURL),
		Role:     role,
		Status:   StatusActive,
	}
	created, err := s.store.CreateUser(ctx, user, passwordHash)
	if errors.Is(err, ErrEmailTaken) {
		existing, _, lookupErr := s.store.GetByEmail(ctx, email)
		if lookupErr != nil {
			return User{}, lookupErr
		}
		return existing, nil
	}
	return created, err
}

// Authenticate verifies credentials and refuses fired users.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return User{}, ErrEmailRequired
	}

	user, passwordHash, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if user.Status == StatusFired {
		return User{}, ErrUserFired
	}
	if err := auth.CheckPassword(passwordHash, password); err != nil {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) GetByUID(ctx context.Context, uid string) (User, error) {
	return s.store.GetByUID(ctx, strings.TrimSpace(uid))
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.store.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListEmployees(ctx context.Context) ([]User, error) {
	return s.store.ListEmployees(ctx)
}

func (s *Service) PromoteToHR(ctx context.Context, userID string) (User, error) {
	return s.store.PromoteToHRTx(ctx, strings.TrimSpace(userID))
}

func (s *Service) Fire(ctx context.Context, uid string) error {
	return s.store.SetStatus(ctx, strings.TrimSpace(uid), StatusFired)
}

// CheckStatus reports whether the user may still sign in.
func (s *Service) CheckStatus(ctx context.Context, uid string) (string, error) {
	user, err := s.store.GetByUID(ctx, strings.TrimSpace(uid))
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

func (s *Service) ToggleVerification(ctx context.Context, userID string, verified bool) error {
	return s.store.SetVerification(ctx, strings.TrimSpace(userID), verified)
}

func (s *Service) AdjustSalary(ctx context.Context, userID string, salary float64) error {
	if salary < 0 {
		return ErrSalaryInvalid
	}
	return s.store.SetSalary(ctx, strings.TrimSpace(userID), salary)
}

// SalaryHistory resolves the user first so callers can key on ID.
func (s *Service) SalaryHistory(ctx context.Context, userID string) ([]SalaryPayout, error) {
	user, err := s.store.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	return s.store.SalaryHistory(ctx, user.Email)
}
