package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// Result summarizes one seeding run
type Result struct {
	Year     int
	Deleted  int64
	Inserted int
}

// Seeder replaces a year of movements with generated demo data
type Seeder struct {
	repo    movement.Repository
	logger  *slog.Logger
	workers int
	seed    uint64
}

// NewSeeder creates a seeder generating months on a pool of the given size.
// Runs with the same seed produce the same movements.
func NewSeeder(logger *slog.Logger, repo movement.Repository, workers int, seed uint64) *Seeder {
	if workers < 1 {
		workers = 1
	}
	return &Seeder{
		repo:    repo,
		logger:  logger,
		workers: workers,
		seed:    seed,
	}
}

// SeedYear deletes the year's existing movements, then inserts twelve
// generated months in one batch
func (s *Seeder) SeedYear(ctx context.Context, year int) (*Result, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	movements, err := s.generateYear(year)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to clear movements of %d: %w", year, err)
	}
	if deleted > 0 {
		s.logger.Info("Deleted existing movements", "year", year, "count", deleted)
	}

	s.logger.Info("Inserting movements", "year", year, "count", len(movements))
	if err := s.repo.CreateMany(ctx, movements); err != nil {
		return nil, fmt.Errorf("failed to insert movements of %d: %w", year, err)
	}

	return &Result{Year: year, Deleted: deleted, Inserted: len(movements)}, nil
}

// generateYear fans the twelve months out to the worker pool. Each month has
// its own rng so the output does not depend on scheduling.
func (s *Seeder) generateYear(year int) ([]*movement.Movement, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		months = make([][]*movement.Movement, 12)
		errs   = make([]error, 12)
	)

	for i := 0; i < 12; i++ {
		month := time.Month(i + 1)
		rng := rand.New(rand.NewPCG(s.seed, uint64(year)*100+uint64(month)))

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			months[i], errs[i] = GenerateMonth(year, month, rng)
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("failed to submit month %d: %w", month, err)
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	var out []*movement.Movement
	for _, m := range months {
		out = append(out, m...)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out, nil
}
