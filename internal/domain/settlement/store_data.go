package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"worksync/internal/domain/worksheet"
)

func (s *Store) ListEntries(ctx context.Context, employeeEmail string) ([]worksheet.Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_email, work_date, hours, task, notes, created_at
    FROM worksheet_entries
    WHERE employee_email = $1
    ORDER BY work_date, created_at
  `, employeeEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []worksheet.Entry
	for rows.Next() {
		var entry worksheet.Entry
		if err := rows.Scan(&entry.ID, &entry.EmployeeEmail, &entry.WorkDate, &entry.Hours, &entry.Task, &entry.Notes, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) ListPayments(ctx context.Context, employeeEmail string) ([]PaymentRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_email, amount, approver_id, status, payment_date, created_at
    FROM payments
    WHERE employee_email = $1
    ORDER BY created_at DESC
  `, employeeEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []PaymentRecord
	index := make(map[string]int)
	for rows.Next() {
		var record PaymentRecord
		if err := rows.Scan(&record.ID, &record.EmployeeEmail, &record.Amount, &record.ApproverID, &record.Status, &record.PaymentDate, &record.CreatedAt); err != nil {
			return nil, err
		}
		index[record.ID] = len(payments)
		payments = append(payments, record)
	}
	if len(payments) == 0 {
		return nil, nil
	}

	entryRows, err := s.DB.Query(ctx, `
    SELECT payment_id, entry_id, work_date, hours, task
    FROM payment_entries
    WHERE employee_email = $1
  `, employeeEmail)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var paymentID string
		var snapshot EntrySnapshot
		if err := entryRows.Scan(&paymentID, &snapshot.EntryID, &snapshot.WorkDate, &snapshot.Hours, &snapshot.Task); err != nil {
			return nil, err
		}
		if i, ok := index[paymentID]; ok {
			payments[i].Entries = append(payments[i].Entries, snapshot)
		}
	}
	return payments, nil
}

func (s *Store) GetPayment(ctx context.Context, paymentID string) (PaymentRecord, error) {
	var record PaymentRecord
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_email, amount, approver_id, status, payment_date, created_at
    FROM payments
    WHERE id = $1
  `, paymentID).Scan(&record.ID, &record.EmployeeEmail, &record.Amount, &record.ApproverID, &record.Status, &record.PaymentDate, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PaymentRecord{}, ErrPaymentNotFound
	}
	if err != nil {
		return PaymentRecord{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT entry_id, work_date, hours, task
    FROM payment_entries
    WHERE payment_id = $1
  `, paymentID)
	if err != nil {
		return PaymentRecord{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var snapshot EntrySnapshot
		if err := rows.Scan(&snapshot.EntryID, &snapshot.WorkDate, &snapshot.Hours, &snapshot.Task); err != nil {
			return PaymentRecord{}, err
		}
		record.Entries = append(record.Entries, snapshot)
	}
	return record, nil
}

func (s *Store) HasPendingPayment(ctx context.Context, employeeEmail string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payments
    WHERE employee_email = $1 AND status = $2
  `, employeeEmail, StatusPending).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) MarkPaid(ctx context.Context, paymentID string, paidAt time.Time) (PaymentRecord, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payments
    SET status = $1, payment_date = $2
    WHERE id = $3 AND status = $4
  `, StatusPaid, paidAt, paymentID, StatusPending)
	if err != nil {
		return PaymentRecord{}, err
	}
	if tag.RowsAffected() == 0 {
		// Either the record is gone or a concurrent approval got there first.
		record, err := s.GetPayment(ctx, paymentID)
		if err != nil {
			return PaymentRecord{}, err
		}
		if record.Status == StatusPaid {
			return record, nil
		}
		return PaymentRecord{}, ErrInvalidTransition
	}
	return s.GetPayment(ctx, paymentID)
}
