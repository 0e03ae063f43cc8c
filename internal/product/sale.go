package product

import (
	"context"
	"errors"
	"log"
	"time"
)

// Recalculator flips the on_sale flag for every product by comparing
// this month's price against last month's. Intended to run once a
// month, right after the new price list lands.
type Recalculator struct {
	repo  Repository
	quiet bool

	// now is swapped out in tests.
	now func() time.Time
}

func NewRecalculator(repo Repository, quiet bool) *Recalculator {
	return &Recalculator{
		repo:  repo,
		quiet: quiet,
		now:   time.Now,
	}
}

// Run recomputes on_sale for all products and returns how many were
// flagged on sale. Unless force is set it only does work on the first
// of the month; any other day is a silent no-op.
func (r *Recalculator) Run(ctx context.Context, force bool) (int, error) {
	today := r.now()

	if !force && today.Day() != 1 {
		if !r.quiet {
			log.Println("[SALE] Not the first of the month, skipping recompute")
		}
		return 0, nil
	}

	thisMonth := MonthStart(today)
	lastMonth := PrevMonth(today)

	products, err := r.repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range products {
		current, err := r.repo.PriceAt(ctx, p.ID, thisMonth)
		if errors.Is(err, ErrNotFound) {
			// Missing data is not an error; leave the flag alone.
			continue
		} else if err != nil {
			return count, err
		}

		previous, err := r.repo.PriceAt(ctx, p.ID, lastMonth)
		if errors.Is(err, ErrNotFound) {
			continue
		} else if err != nil {
			return count, err
		}

		onSale := current.Amount.LessThan(previous.Amount)
		if err := r.repo.SetOnSale(ctx, p.ID, onSale); err != nil {
			return count, err
		}

		if onSale {
			count++
			if !r.quiet {
				log.Printf("[SALE] %s (%s)", p.Title, p.Size)
			}
		}
	}

	if !r.quiet {
		log.Printf("[SALE] %d items have dropped in price", count)
	}
	return count, nil
}
