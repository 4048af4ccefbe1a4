package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mmynk/tabsplit/internal/models"
)

// ErrInvalidExport is returned when an import payload is not a bill list.
var ErrInvalidExport = errors.New("invalid bill export")

// Export writes bills as an indented JSON array.
func Export(w io.Writer, bills []models.Bill) error {
	if bills == nil {
		bills = []models.Bill{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bills); err != nil {
		return fmt.Errorf("encode bills: %w", err)
	}
	return nil
}

// Import reads a JSON array of bills written by Export. The input may be in
// any common text encoding; it is transcoded to UTF-8 before decoding.
// Every bill must carry an ID.
func Import(r io.Reader) ([]models.Bill, error) {
	ur, err := newUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	var bills []models.Bill
	if err := json.NewDecoder(ur).Decode(&bills); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	for i := range bills {
		b := &bills[i]
		if b.ID == "" {
			return nil, fmt.Errorf("%w: bill %d has no id", ErrInvalidExport, i)
		}
		if b.People == nil {
			b.People = []models.Person{}
		}
		if b.Items == nil {
			b.Items = []models.Item{}
		}
	}
	return bills, nil
}

// Merge combines imported and existing bills, imported first. When both
// contain the same ID the first occurrence wins. The result is capped at
// limit entries when limit is positive.
func Merge(imported, existing []models.Bill, limit int) []models.Bill {
	seen := make(map[string]bool, len(imported)+len(existing))
	out := make([]models.Bill, 0, len(imported)+len(existing))
	for _, list := range [][]models.Bill{imported, existing} {
		for _, b := range list {
			if seen[b.ID] {
				continue
			}
			seen[b.ID] = true
			out = append(out, b)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
