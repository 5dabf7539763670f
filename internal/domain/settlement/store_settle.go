package settlement

import (
	"context"
)

// Settle converts a batch of worksheet entries into a payment record. The
// ledger insert and the worksheet delete share one transaction: row locks on
// the selected entries serialize concurrent settlements for the same
// employee, and a delete count short of the requested set aborts the whole
// operation with ErrEntryConflict.
func (s *Store) Settle(ctx context.Context, record PaymentRecord, entryIDs []string) (PaymentRecord, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return PaymentRecord{}, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
    SELECT id, work_date, hours, task
    FROM worksheet_entries
    WHERE id = ANY($1::uuid[]) AND employee_email = $2
    FOR UPDATE
  `, entryIDs, record.EmployeeEmail)
	if err != nil {
		return PaymentRecord{}, err
	}

	var snapshots []EntrySnapshot
	for rows.Next() {
		var snapshot EntrySnapshot
		if err := rows.Scan(&snapshot.EntryID, &snapshot.WorkDate, &snapshot.Hours, &snapshot.Task); err != nil {
			rows.Close()
			return PaymentRecord{}, err
		}
		snapshots = append(snapshots, snapshot)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return PaymentRecord{}, err
	}

	if len(snapshots) != len(entryIDs) {
		return PaymentRecord{}, ErrEntryConflict
	}

	if err := tx.QueryRow(ctx, `
    INSERT INTO payments (employee_email, amount, approver_id, status)
    VALUES ($1,$2,$3,$4)
    RETURNING id, created_at
  `, record.EmployeeEmail, record.Amount, record.ApproverID, record.Status).Scan(&record.ID, &record.CreatedAt); err != nil {
		return PaymentRecord{}, err
	}

	for _, snapshot := range snapshots {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payment_entries (payment_id, entry_id, employee_email, work_date, hours, task)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, record.ID, snapshot.EntryID, record.EmployeeEmail, snapshot.WorkDate, snapshot.Hours, snapshot.Task); err != nil {
			return PaymentRecord{}, err
		}
	}

	tag, err := tx.Exec(ctx, `
    DELETE FROM worksheet_entries WHERE id = ANY($1::uuid[])
  `, entryIDs)
	if err != nil {
		return PaymentRecord{}, err
	}
	if tag.RowsAffected() != int64(len(entryIDs)) {
		return PaymentRecord{}, ErrEntryConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return PaymentRecord{}, err
	}

	record.Entries = snapshots
	return record, nil
}
