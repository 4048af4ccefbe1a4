// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tabsplit/internal/history"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithHistoryLimit caps how many bills are kept. Non-positive means unlimited.
func WithHistoryLimit(n int) Option {
	return func(s *SQLiteStore) {
		s.limit = n
	}
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, opts ...Option) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, limit: history.DefaultLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBill upserts a bill and makes it the most recent entry in the history.
func (s *SQLiteStore) SaveBill(ctx context.Context, bill *models.Bill) error {
	prepareBill(bill)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return err
	}
	if err := writeBill(ctx, tx, bill, seq); err != nil {
		return err
	}
	if err := s.prune(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ImportBills writes bills ahead of the current history, first bill first.
// Within bills, the first occurrence of an ID wins.
func (s *SQLiteStore) ImportBills(ctx context.Context, bills []models.Bill) (int, error) {
	unique := history.Merge(bills, nil, 0)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	base, err := nextSeq(ctx, tx)
	if err != nil {
		return 0, err
	}
	for i := range unique {
		bill := &unique[i]
		prepareBill(bill)
		// Earlier bills get higher sequence numbers so they sort first.
		if err := writeBill(ctx, tx, bill, base+int64(len(unique)-1-i)); err != nil {
			return 0, fmt.Errorf("import bill %s: %w", bill.ID, err)
		}
	}
	if err := s.prune(ctx, tx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(unique), nil
}

// GetBill retrieves a bill by ID, including its people, items, assignments
// and custom splits.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	row := s.db.QueryRowContext(ctx, selectBill+" WHERE id = ?", billID)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if err := s.loadDetails(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// LoadBillHistory returns bills most recently saved first.
func (s *SQLiteStore) LoadBillHistory(ctx context.Context, limit int) ([]models.Bill, error) {
	query := selectBill + " ORDER BY seq DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	rows.Close()

	for i := range bills {
		if err := s.loadDetails(ctx, &bills[i]); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

// DeleteBill removes a bill; people, items and splits cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, billID)
	}
	return nil
}

const selectBill = `SELECT id, name, base_currency, tax, tax_currency, tip, tip_currency, created_at FROM bills`

type scanner interface {
	Scan(dest ...any) error
}

func scanBill(row scanner) (*models.Bill, error) {
	var (
		bill      models.Bill
		createdAt int64
	)
	err := row.Scan(&bill.ID, &bill.Name, &bill.BaseCurrency,
		&bill.Tax, &bill.TaxCurrency, &bill.Tip, &bill.TipCurrency, &createdAt)
	if err != nil {
		return nil, err
	}
	bill.CreatedAt = time.UnixMilli(createdAt).UTC()
	bill.People = []models.Person{}
	bill.Items = []models.Item{}
	return &bill, nil
}

func (s *SQLiteStore) loadDetails(ctx context.Context, bill *models.Bill) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, color FROM people WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get people: %w", err)
	}
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan person: %w", err)
		}
		bill.People = append(bill.People, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate people: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price, currency, split_type FROM items WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	index := make(map[string]int)
	for itemRows.Next() {
		var item models.Item
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Price, &item.Currency, &item.SplitType); err != nil {
			itemRows.Close()
			return fmt.Errorf("failed to scan item: %w", err)
		}
		item.AssignedTo = []string{}
		index[item.ID] = len(bill.Items)
		bill.Items = append(bill.Items, item)
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	assignRows, err := s.db.QueryContext(ctx,
		"SELECT item_id, person_id FROM item_assignments WHERE bill_id = ? ORDER BY item_id, position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get item assignments: %w", err)
	}
	for assignRows.Next() {
		var itemID, personID string
		if err := assignRows.Scan(&itemID, &personID); err != nil {
			assignRows.Close()
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		item := &bill.Items[index[itemID]]
		item.AssignedTo = append(item.AssignedTo, personID)
	}
	assignRows.Close()
	if err := assignRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate assignments: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		"SELECT item_id, person_id, amount FROM custom_splits WHERE bill_id = ?",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get custom splits: %w", err)
	}
	defer splitRows.Close()
	for splitRows.Next() {
		var (
			itemID, personID string
			amount           float64
		)
		if err := splitRows.Scan(&itemID, &personID, &amount); err != nil {
			return fmt.Errorf("failed to scan custom split: %w", err)
		}
		item := &bill.Items[index[itemID]]
		if item.CustomSplits == nil {
			item.CustomSplits = make(map[string]float64)
		}
		item.CustomSplits[personID] = amount
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate custom splits: %w", err)
	}
	return nil
}

// prepareBill fills in the fields a stored bill must have.
func prepareBill(bill *models.Bill) {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}
	// Stored with millisecond precision.
	bill.CreatedAt = bill.CreatedAt.Truncate(time.Millisecond)
	if bill.Name == "" {
		bill.Name = generateTitle(bill.People)
	}
	if bill.BaseCurrency == "" {
		bill.BaseCurrency = "USD"
	}
	for i := range bill.Items {
		item := &bill.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if item.Currency == "" {
			item.Currency = bill.BaseCurrency
		}
		if item.SplitType == "" {
			item.SplitType = models.SplitEqual
		}
	}
}

func nextSeq(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM bills").Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to read history sequence: %w", err)
	}
	return seq, nil
}

// writeBill replaces any stored copy of bill with the given sequence number.
func writeBill(ctx context.Context, tx *sql.Tx, bill *models.Bill, seq int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to replace bill: %w", err)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO bills (id, name, base_currency, tax, tax_currency, tip, tip_currency, created_at, seq)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Name, bill.BaseCurrency, bill.Tax, bill.TaxCurrency,
		bill.Tip, bill.TipCurrency, bill.CreatedAt.UnixMilli(), seq,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i, p := range bill.People {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO people (bill_id, id, name, color, position) VALUES (?, ?, ?, ?, ?)",
			bill.ID, p.ID, p.Name, p.Color, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	for i, item := range bill.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (bill_id, id, name, price, currency, split_type, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			bill.ID, item.ID, item.Name, item.Price, item.Currency, string(item.SplitType), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for pos, personID := range item.AssignedTo {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_assignments (bill_id, item_id, person_id, position) VALUES (?, ?, ?, ?)",
				bill.ID, item.ID, personID, pos,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}

		for personID, amount := range item.CustomSplits {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO custom_splits (bill_id, item_id, person_id, amount) VALUES (?, ?, ?, ?)",
				bill.ID, item.ID, personID, amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert custom split: %w", err)
			}
		}
	}
	return nil
}

// prune drops everything past the history limit, oldest saves first.
func (s *SQLiteStore) prune(ctx context.Context, tx *sql.Tx) error {
	if s.limit <= 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM bills WHERE id NOT IN (SELECT id FROM bills ORDER BY seq DESC LIMIT ?)",
		s.limit,
	)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.Debug("Pruned bill history", "removed", n, "limit", s.limit)
	}
	return nil
}

// generateTitle creates an auto-generated title from the bill's people.
func generateTitle(people []models.Person) string {
	if len(people) == 0 {
		return models.DefaultBillName
	}
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.Name
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
