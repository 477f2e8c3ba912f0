package movement

import (
	"context"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListFilter narrows a movement listing. Zero values mean "no constraint",
// except Page and Limit which fall back to DefaultPage and DefaultLimit.
type ListFilter struct {
	Type     Type
	Category string
	From     *time.Time // inclusive
	To       *time.Time // inclusive
	Page     int
	Limit    int
}

// WithDefaults fills Page and Limit and clamps Limit to MaxLimit
func (f ListFilter) WithDefaults() ListFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Offset is the number of items skipped before the current page
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Page is one page of a movement listing. Total ignores pagination.
type Page struct {
	Items []*Movement `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Repository manages movement persistence
type Repository interface {
	Create(ctx context.Context, m *Movement) error
	CreateMany(ctx context.Context, ms []*Movement) error
	List(ctx context.Context, filter ListFilter) (*Page, error)
	Patch(ctx context.Context, id string, patch Patch) (*Movement, error)
	Delete(ctx context.Context, id string) error
	DeleteByDateRange(ctx context.Context, from, to time.Time) (int64, error)
}
