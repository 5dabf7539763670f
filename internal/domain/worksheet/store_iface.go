package worksheet

import "context"

type StoreAPI interface {
	CreateEntry(ctx context.Context, entry Entry) (string, error)
	GetEntry(ctx context.Context, entryID string) (Entry, error)
	ListByEmployee(ctx context.Context, employeeEmail string, limit, offset int) ([]Entry, error)
	UpdateEntry(ctx context.Context, entryID string, patch EntryPatch) error
	DeleteEntry(ctx context.Context, entryID string) error
}
