package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api/service"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/export"
)

// MovementHandler handles HTTP requests for movement operations
type MovementHandler struct {
	movementService service.MovementService
	logger          *slog.Logger
}

// NewMovementHandler creates a new movement handler
func NewMovementHandler(logger *slog.Logger, movementService service.MovementService) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
		logger:          logger,
	}
}

// Create records a new income or expense
func (h *MovementHandler) Create(c *gin.Context) {
	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		field, msg := describeBindingError(err)
		h.logger.Warn("Invalid request body", "field", field, "error", err)
		RespondValidationError(c, field, msg)
		return
	}

	date, _, err := parseDate(req.Date)
	if err != nil {
		RespondValidationError(c, "date", "invalid date: "+err.Error())
		return
	}

	m, err := h.movementService.CreateMovement(c.Request.Context(), service.CreateMovementInput{
		Type:     movement.Type(req.Type),
		Amount:   req.Amount,
		Date:     date,
		Category: req.Category,
		Note:     req.Note,
	})
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, m)
}

// List returns a filtered, paginated listing, newest first
func (h *MovementHandler) List(c *gin.Context) {
	var query ListMovementsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		field, msg := describeBindingError(err)
		RespondValidationError(c, field, msg)
		return
	}

	from, to, field, err := parseRange(query.From, query.To)
	if err != nil {
		RespondValidationError(c, field, "invalid "+field+": "+err.Error())
		return
	}

	page, err := h.movementService.ListMovements(c.Request.Context(), movement.ListFilter{
		Type:     movement.Type(query.Type),
		Category: query.Category,
		From:     from,
		To:       to,
		Page:     query.Page,
		Limit:    query.Limit,
	})
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, page)
}

// Export downloads every movement matching the filters as CSV (default) or XLSX
func (h *MovementHandler) Export(c *gin.Context) {
	var query ExportMovementsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		field, msg := describeBindingError(err)
		RespondValidationError(c, field, msg)
		return
	}

	format, err := export.ParseFormat(query.Format)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}

	from, to, field, err := parseRange(query.From, query.To)
	if err != nil {
		RespondValidationError(c, field, "invalid "+field+": "+err.Error())
		return
	}

	items, err := h.movementService.ExportMovements(c.Request.Context(), movement.ListFilter{
		Type:     movement.Type(query.Type),
		Category: query.Category,
		From:     from,
		To:       to,
	})
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}

	// Render fully first so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := export.Write(&buf, format, items); err != nil {
		h.logger.Error("Failed to render export", "format", string(format), "error", err)
		RespondInternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.FileName(time.Now())+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Update applies a partial update, 404 when the movement does not exist.
// Ids that are not object ids can never exist and get the same 404.
func (h *MovementHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !primitive.IsValidObjectID(id) {
		RespondWithDomainError(c, h.logger, movement.ErrMovementNotFound{ID: id})
		return
	}

	var req UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		field, msg := describeBindingError(err)
		h.logger.Warn("Invalid request body", "movement_id", id, "field", field, "error", err)
		RespondValidationError(c, field, msg)
		return
	}

	patch := movement.Patch{
		Amount:   req.Amount,
		Category: req.Category,
		Note:     req.Note,
	}
	if req.Type != nil {
		typ := movement.Type(*req.Type)
		patch.Type = &typ
	}
	if req.Date != nil {
		date, _, err := parseDate(*req.Date)
		if err != nil {
			RespondValidationError(c, "date", "invalid date: "+err.Error())
			return
		}
		patch.Date = &date
	}

	m, err := h.movementService.UpdateMovement(c.Request.Context(), id, patch)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, m)
}

// Delete removes a movement, 404 when it does not exist
func (h *MovementHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !primitive.IsValidObjectID(id) {
		RespondWithDomainError(c, h.logger, movement.ErrMovementNotFound{ID: id})
		return
	}

	if err := h.movementService.DeleteMovement(c.Request.Context(), id); err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, DeleteMovementResponse{OK: true})
}
