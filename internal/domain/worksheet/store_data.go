package worksheet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateEntry(ctx context.Context, entry Entry) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO worksheet_entries (employee_email, work_date, hours, task, notes)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, entry.EmployeeEmail, entry.WorkDate, entry.Hours, entry.Task, entry.Notes).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetEntry(ctx context.Context, entryID string) (Entry, error) {
	var entry Entry
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_email, work_date, hours, task, notes, created_at
    FROM worksheet_entries
    WHERE id = $1
  `, entryID).Scan(&entry.ID, &entry.EmployeeEmail, &entry.WorkDate, &entry.Hours, &entry.Task, &entry.Notes, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeEmail string, limit, offset int) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_email, work_date, hours, task, notes, created_at
    FROM worksheet_entries
    WHERE employee_email = $1
    ORDER BY work_date DESC, created_at DESC
    LIMIT $2 OFFSET $3
  `, employeeEmail, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.EmployeeEmail, &entry.WorkDate, &entry.Hours, &entry.Task, &entry.Notes, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) UpdateEntry(ctx context.Context, entryID string, patch EntryPatch) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE worksheet_entries
    SET work_date = COALESCE($1, work_date),
        hours = COALESCE($2, hours),
        task = COALESCE($3, task),
        notes = COALESCE($4, notes)
    WHERE id = $5
  `, patch.WorkDate, patch.Hours, patch.Task, patch.Notes, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM worksheet_entries WHERE id = $1", entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
