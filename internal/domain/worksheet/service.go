package worksheet

import (
	"context"
	"strings"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) CreateEntry(ctx context.Context, entry Entry) (Entry, error) {
	entry.EmployeeEmail = strings.TrimSpace(strings.ToLower(entry.EmployeeEmail))
	if entry.EmployeeEmail == "" || !strings.Contains(entry.EmployeeEmail, "@") {
		return Entry{}, ErrEmailRequired
	}
	if entry.WorkDate.IsZero() {
		return Entry{}, ErrDateRequired
	}
	if entry.Hours < 0 {
		return Entry{}, ErrHoursInvalid
	}

	id, err := s.Store.CreateEntry(ctx, entry)
	if err != nil {
		return Entry{}, err
	}
	return s.Store.GetEntry(ctx, id)
}

func (s *Service) UpdateEntry(ctx context.Context, entryID string, patch EntryPatch) (Entry, error) {
	if patch.Hours != nil && *patch.Hours < 0 {
		return Entry{}, ErrHoursInvalid
	}
	if err := s.Store.UpdateEntry(ctx, entryID, patch); err != nil {
		return Entry{}, err
	}
	return s.Store.GetEntry(ctx, entryID)
}

func (s *Service) ListEntries(ctx context.Context, employeeEmail string, limit, offset int) ([]Entry, error) {
	employeeEmail = strings.TrimSpace(strings.ToLower(employeeEmail))
	if employeeEmail == "" {
		return nil, ErrEmailRequired
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.ListByEmployee(ctx, employeeEmail, limit, offset)
}

func (s *Service) DeleteEntry(ctx context.Context, entryID string) error {
	return s.Store.DeleteEntry(ctx, entryID)
}
