package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmynk/tabsplit/internal/models"
)

// ErrSplitMismatch is returned when a custom split does not add up.
var ErrSplitMismatch = errors.New("custom split does not add up")

const splitTolerance = 0.01

// The builders below produce CustomSplits maps for the split editor. Only the
// builders validate totals; Share accepts any map as-is.

// EqualSplits returns a custom split giving every assignee the same amount.
func EqualSplits(item models.Item) map[string]float64 {
	assignees := item.Assignees()
	splits := make(map[string]float64, len(assignees))
	if len(assignees) == 0 {
		return splits
	}
	each := item.Price / float64(len(assignees))
	for _, id := range assignees {
		splits[id] = each
	}
	return splits
}

// PercentageSplits converts per-assignee percentages into amounts.
// The assignees' percentages must total 100 within 0.01.
func PercentageSplits(item models.Item, percentages map[string]float64) (map[string]float64, error) {
	assignees := item.Assignees()

	var total float64
	for _, id := range assignees {
		total += percentages[id]
	}
	if math.Abs(total-100) > splitTolerance {
		return nil, fmt.Errorf("%w: percentages must add up to 100%%, got %.1f%%", ErrSplitMismatch, total)
	}

	splits := make(map[string]float64, len(assignees))
	for _, id := range assignees {
		splits[id] = item.Price * percentages[id] / 100
	}
	return splits, nil
}

// AmountSplits validates explicit per-assignee amounts against the item price.
// The assignees' amounts must total the price within 0.01.
func AmountSplits(item models.Item, amounts map[string]float64) (map[string]float64, error) {
	assignees := item.Assignees()

	var total float64
	for _, id := range assignees {
		total += amounts[id]
	}
	if math.Abs(total-item.Price) > splitTolerance {
		return nil, fmt.Errorf("%w: amounts must add up to %.2f, got %.2f", ErrSplitMismatch, item.Price, total)
	}

	splits := make(map[string]float64, len(assignees))
	for _, id := range assignees {
		splits[id] = amounts[id]
	}
	return splits, nil
}
