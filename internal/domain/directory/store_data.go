package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `
  id, COALESCE(uid, ''), name, email,
  COALESCE(photo_url, ''), role, status, is_verified,
  COALESCE(salary, 0), promoted_at, created_at
`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.UID, &user.Name, &user.Email,
		&user.PhotoURL, &user.Role, &user.Status, &user.IsVerified,
		&user.Salary, &user.PromotedAt, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO users (uid, name, email, photo_url, password_hash, role, status, is_verified, salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING `+userColumns+`
  `, user.UID, user.Name, user.Email, user.PhotoURL, passwordHash,
		user.Role, user.Status, user.IsVerified, user.Salary)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return created, nil
}

func (s *Store) GetByUID(ctx context.Context, uid string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE uid = $1
  `, uid))
}

func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE id = $1
  `, id))
}

// GetByEmail also returns the stored password hash for credential checks.
func (s *Store) GetByEmail(ctx context.Context, email string) (User, string, error) {
	var user User
	var passwordHash string
	err := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`, COALESCE(password_hash, '')
    FROM users
    WHERE email = $1
  `, email).Scan(
		&user.ID, &user.UID, &user.Name, &user.Email,
		&user.PhotoURL, &user.Role, &user.Status, &user.IsVerified,
		&user.Salary, &user.PromotedAt, &user.CreatedAt, &passwordHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", ErrUserNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	return user, passwordHash, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE role <> 'admin'
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// PromoteToHRTx updates the role and promotion timestamp in one transaction.
func (s *Store) PromoteToHRTx(ctx context.Context, userID string) (User, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx)

	var role string
	err = tx.QueryRow(ctx, `
    SELECT role FROM users WHERE id = $1 FOR UPDATE
  `, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	if role == "hr" {
		return User{}, ErrAlreadyHR
	}

	row := tx.QueryRow(ctx, `
    UPDATE users
    SET role = 'hr', promoted_at = NOW()
    WHERE id = $1
    RETURNING `+userColumns+`
  `, userID)
	user, err := scanUser(row)
	if err != nil {
		return User{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Store) SetStatus(ctx context.Context, uid, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET status = $1 WHERE uid = $2
  `, status, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) SetVerification(ctx context.Context, userID string, verified bool) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET is_verified = $1 WHERE id = $2
  `, verified, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) SetSalary(ctx context.Context, userID string, salary float64) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET salary = $1 WHERE id = $2
  `, salary, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SalaryHistory lists paid payouts newest first.
func (s *Store) SalaryHistory(ctx context.Context, email string) ([]SalaryPayout, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT TRIM(TO_CHAR(payment_date, 'Month')),
           EXTRACT(YEAR FROM payment_date)::int,
           amount, payment_date
    FROM payments
    WHERE employee_email = $1 AND status = 'paid' AND payment_date IS NOT NULL
    ORDER BY payment_date DESC
  `, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []SalaryPayout
	for rows.Next() {
		var payout SalaryPayout
		if err := rows.Scan(&payout.Month, &payout.Year, &payout.Amount, &payout.PaidAt); err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}
