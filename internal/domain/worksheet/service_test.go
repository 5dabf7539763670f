package worksheet

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeStore struct {
	entries map[string]Entry
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]Entry)}
}

func (f *fakeStore) CreateEntry(_ context.Context, entry Entry) (string, error) {
	f.nextID++
	entry.ID = fmt.Sprintf("entry-%d", f.nextID)
	entry.CreatedAt = time.Now().UTC()
	f.entries[entry.ID] = entry
	return entry.ID, nil
}

func (f *fakeStore) GetEntry(_ context.Context, entryID string) (Entry, error) {
	entry, ok := f.entries[entryID]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (f *fakeStore) ListByEmployee(_ context.Context, employeeEmail string, limit, offset int) ([]Entry, error) {
	var out []Entry
	for _, entry := range f.entries {
		if entry.EmployeeEmail == employeeEmail {
			out = append(out, entry)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateEntry(_ context.Context, entryID string, patch EntryPatch) error {
	entry, ok := f.entries[entryID]
	if !ok {
		return ErrEntryNotFound
	}
	if patch.WorkDate != nil {
		entry.WorkDate = *patch.WorkDate
	}
	if patch.Hours != nil {
		entry.Hours = *patch.Hours
	}
	if patch.Task != nil {
		entry.Task = *patch.Task
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	f.entries[entryID] = entry
	return nil
}

func (f *fakeStore) DeleteEntry(_ context.Context, entryID string) error {
	if _, ok := f.entries[entryID]; !ok {
		return ErrEntryNotFound
	}
	delete(f.entries, entryID)
	return nil
}

func TestCreateEntryValidation(t *testing.T) {
	service := NewService(newFakeStore())
	ctx := context.Background()
	workDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		entry Entry
		want  error
	}{
		{"no email", Entry{WorkDate: workDate, Hours: 4}, ErrEmailRequired},
		{"bad email", Entry{EmployeeEmail: "nope", WorkDate: workDate, Hours: 4}, ErrEmailRequired},
		{"no date", Entry{EmployeeEmail: "e@x.com", Hours: 4}, ErrDateRequired},
		{"negative hours", Entry{EmployeeEmail: "e@x.com", WorkDate: workDate, Hours: -1}, ErrHoursInvalid},
	}
	for _, tc := range cases {
		if _, err := service.CreateEntry(ctx, tc.entry); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCreateEntryNormalizesEmail(t *testing.T) {
	service := NewService(newFakeStore())
	workDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	entry, err := service.CreateEntry(context.Background(), Entry{
		EmployeeEmail: "  Worker@X.com ",
		WorkDate:      workDate,
		Hours:         7.5,
		Task:          "support rotation",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.EmployeeEmail != "worker@x.com" {
		t.Fatalf("expected normalized email, got %q", entry.EmployeeEmail)
	}
	if entry.ID == "" || entry.Hours != 7.5 {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestUpdateEntryPartialPatch(t *testing.T) {
	service := NewService(newFakeStore())
	ctx := context.Background()
	workDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	entry, err := service.CreateEntry(ctx, Entry{EmployeeEmail: "e@x.com", WorkDate: workDate, Hours: 4, Task: "initial"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newHours := 6.0
	updated, err := service.UpdateEntry(ctx, entry.ID, EntryPatch{Hours: &newHours})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Hours != 6 {
		t.Fatalf("expected hours 6, got %v", updated.Hours)
	}
	if updated.Task != "initial" || !updated.WorkDate.Equal(workDate) {
		t.Fatalf("untouched fields must survive the patch, got %+v", updated)
	}

	negative := -2.0
	if _, err := service.UpdateEntry(ctx, entry.ID, EntryPatch{Hours: &negative}); !errors.Is(err, ErrHoursInvalid) {
		t.Fatalf("expected ErrHoursInvalid, got %v", err)
	}
}

func TestUpdateMissingEntry(t *testing.T) {
	service := NewService(newFakeStore())
	hours := 5.0
	if _, err := service.UpdateEntry(context.Background(), "ghost", EntryPatch{Hours: &hours}); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestListEntriesRequiresEmail(t *testing.T) {
	service := NewService(newFakeStore())
	if _, err := service.ListEntries(context.Background(), " ", 0, 0); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	service := NewService(newFakeStore())
	ctx := context.Background()
	workDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	entry, err := service.CreateEntry(ctx, Entry{EmployeeEmail: "e@x.com", WorkDate: workDate, Hours: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := service.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := service.DeleteEntry(ctx, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on second delete, got %v", err)
	}
}
