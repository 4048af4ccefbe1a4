package analytics

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tabsplit/internal/models"
)

// Dashboard bundles the overall aggregate with per-person and per-category views.
type Dashboard struct {
	Overall    SpendingAnalytics    `json:"overall"`
	People     []PersonAnalytics    `json:"people"`
	Categories map[Category]float64 `json:"categories"`
}

// BuildDashboard computes the overall analytics and every participant's
// analytics concurrently. People are listed in order of first appearance.
func (a *Aggregator) BuildDashboard(ctx context.Context, bills []models.Bill, base string) (*Dashboard, error) {
	ids := participantIDs(bills)

	var (
		overall    SpendingAnalytics
		categories map[Category]float64
		people     = make([]*PersonAnalytics, len(ids))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		overall = a.Aggregate(bills, base)
		categories = a.SpendingByCategory(bills, base)
		return nil
	})
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			people[i] = a.ForPerson(bills, id, base)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		Overall:    overall,
		People:     make([]PersonAnalytics, 0, len(people)),
		Categories: categories,
	}
	for _, p := range people {
		if p != nil {
			d.People = append(d.People, *p)
		}
	}
	return d, nil
}

func participantIDs(bills []models.Bill) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, b := range bills {
		for _, p := range b.People {
			if !seen[p.ID] {
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
		}
	}
	return ids
}
