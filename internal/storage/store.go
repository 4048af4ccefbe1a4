// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tabsplit/internal/models"
)

// ErrNotFound is returned when a bill does not exist.
var ErrNotFound = errors.New("bill not found")

// Store defines the interface for bill history storage.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// SaveBill inserts or replaces a bill and moves it to the front of the
	// history. Missing bill and item IDs, names and timestamps are filled in.
	// History beyond the store's limit is pruned, oldest saves first.
	SaveBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	// Returns ErrNotFound if the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// LoadBillHistory returns up to limit bills, most recently saved first.
	// A non-positive limit returns the whole history.
	LoadBillHistory(ctx context.Context, limit int) ([]models.Bill, error)

	// DeleteBill removes a bill from the history.
	// Returns ErrNotFound if the bill does not exist.
	DeleteBill(ctx context.Context, billID string) error

	// ImportBills merges bills into the history ahead of the existing ones.
	// An imported bill replaces a stored bill with the same ID. It returns
	// the number of bills written.
	ImportBills(ctx context.Context, bills []models.Bill) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
