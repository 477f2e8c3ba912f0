package service

import (
	"context"
	"time"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/stats"
)

// CreateMovementInput carries the fields of a new movement
type CreateMovementInput struct {
	Type     movement.Type
	Amount   float64
	Date     time.Time
	Category string
	Note     string
}

// MovementService defines the interface for movement operations
type MovementService interface {
	// CreateMovement validates and stores a new movement
	// Returns a movement.ValidationError for malformed input
	CreateMovement(ctx context.Context, in CreateMovementInput) (*movement.Movement, error)

	// ListMovements returns one page of movements matching the filter, newest first
	ListMovements(ctx context.Context, filter movement.ListFilter) (*movement.Page, error)

	// ExportMovements returns every movement matching the filter, ignoring pagination
	// Returns a movement.ValidationError when more than MaxExportRows match
	ExportMovements(ctx context.Context, filter movement.ListFilter) ([]*movement.Movement, error)

	// UpdateMovement applies a partial update
	// Returns ErrMovementNotFound if the movement doesn't exist
	UpdateMovement(ctx context.Context, id string, patch movement.Patch) (*movement.Movement, error)

	// DeleteMovement removes a movement
	// Returns ErrMovementNotFound if the movement doesn't exist
	DeleteMovement(ctx context.Context, id string) error
}

// StatsService defines the interface for the reporting views
type StatsService interface {
	Summary(ctx context.Context) (*stats.Summary, error)

	// BalanceSeries defaults to the trailing DefaultBalanceWindow ending now
	BalanceSeries(ctx context.Context, from, to *time.Time) (*stats.BalanceSeries, error)

	// ExpensesByCategory defaults to the current UTC year and month
	ExpensesByCategory(ctx context.Context, year, month *int) (*stats.ExpensesByCategory, error)

	// ExpensesMonthly fills empty months with zero totals when both bounds are given
	ExpensesMonthly(ctx context.Context, from, to *time.Time) ([]stats.MonthlyTotal, error)

	ExpensesMonthlyByCategory(ctx context.Context, from, to *time.Time) ([]stats.MonthlyCategoryTotal, error)
}
