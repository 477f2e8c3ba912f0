package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/logger"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/platform/messaging/producers"
)

// MaxExportRows bounds a single export
const MaxExportRows = 10000

// MovementServiceImpl implements the MovementService interface
type MovementServiceImpl struct {
	movementRepo movement.Repository
	publisher    producers.EventPublisher
	logger       *slog.Logger
}

// NewMovementService creates a new movement service
func NewMovementService(logger *slog.Logger, movementRepo movement.Repository, publisher producers.EventPublisher) MovementService {
	return &MovementServiceImpl{
		movementRepo: movementRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateMovement validates the input, persists the movement and emits a created event
func (s *MovementServiceImpl) CreateMovement(ctx context.Context, in CreateMovementInput) (*movement.Movement, error) {
	m, err := movement.New(in.Type, in.Amount, in.Date, in.Category, in.Note)
	if err != nil {
		return nil, err
	}

	if err := s.movementRepo.Create(ctx, m); err != nil {
		s.logger.Error("Failed to create movement",
			"type", string(in.Type),
			"category", m.Category,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("Movement created",
		"movement_id", m.ID.Hex(),
		"type", string(m.Type),
		"amount", m.Amount,
		"category", m.Category,
	)

	s.publish(ctx, movement.EventCreated, m.ID.Hex(), m)
	return m, nil
}

// ListMovements returns a page of movements; Page and Limit default when unset
func (s *MovementServiceImpl) ListMovements(ctx context.Context, filter movement.ListFilter) (*movement.Page, error) {
	page, err := s.movementRepo.List(ctx, filter.WithDefaults())
	if err != nil {
		s.logger.Error("Failed to list movements", "error", err)
		return nil, err
	}
	return page, nil
}

// ExportMovements collects every movement matching the filter, newest first.
// Page and Limit in the filter are ignored.
func (s *MovementServiceImpl) ExportMovements(ctx context.Context, filter movement.ListFilter) ([]*movement.Movement, error) {
	filter.Page = 1
	filter.Limit = movement.MaxLimit

	var items []*movement.Movement
	for {
		page, err := s.movementRepo.List(ctx, filter)
		if err != nil {
			s.logger.Error("Failed to export movements", "page", filter.Page, "error", err)
			return nil, err
		}
		if page.Total > MaxExportRows {
			return nil, movement.ValidationError{
				Field:  "from",
				Reason: fmt.Sprintf("export matches %d movements, more than %d; narrow the date range", page.Total, MaxExportRows),
			}
		}
		if items == nil {
			items = make([]*movement.Movement, 0, page.Total)
		}
		items = append(items, page.Items...)
		if len(page.Items) < filter.Limit || int64(len(items)) >= page.Total {
			break
		}
		filter.Page++
	}

	s.logger.Info("Movements exported", "count", len(items))
	return items, nil
}

// UpdateMovement re-validates the supplied fields before applying them
func (s *MovementServiceImpl) UpdateMovement(ctx context.Context, id string, patch movement.Patch) (*movement.Movement, error) {
	normalized, err := patch.Normalize()
	if err != nil {
		return nil, err
	}

	m, err := s.movementRepo.Patch(ctx, id, normalized)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("Failed to update movement", "movement_id", id, "error", err)
		}
		return nil, err
	}

	s.logger.Info("Movement updated", "movement_id", id)
	s.publish(ctx, movement.EventUpdated, id, m)
	return m, nil
}

func (s *MovementServiceImpl) DeleteMovement(ctx context.Context, id string) error {
	if err := s.movementRepo.Delete(ctx, id); err != nil {
		if !isNotFound(err) {
			s.logger.Error("Failed to delete movement", "movement_id", id, "error", err)
		}
		return err
	}

	s.logger.Info("Movement deleted", "movement_id", id)
	s.publish(ctx, movement.EventDeleted, id, nil)
	return nil
}

// publish emits a change event. The write already succeeded, so a failed
// publish is only logged.
func (s *MovementServiceImpl) publish(ctx context.Context, typ movement.EventType, id string, m *movement.Movement) {
	event := movement.NewEvent(typ, id, m, logger.CorrelationID(ctx))
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish movement event",
			"event_type", string(typ),
			"movement_id", id,
			"error", err,
		)
	}
}
