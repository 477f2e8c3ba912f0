package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api/service"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/stats"
)

// StatsHandler serves the read-only reporting endpoints
type StatsHandler struct {
	statsService service.StatsService
	logger       *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(logger *slog.Logger, statsService service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

func (h *StatsHandler) Summary(c *gin.Context) {
	summary, err := h.statsService.Summary(c.Request.Context())
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, summary)
}

// BalanceSeries returns the daily running balance over an optional window
func (h *StatsHandler) BalanceSeries(c *gin.Context) {
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	series, err := h.statsService.BalanceSeries(c.Request.Context(), from, to)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, series)
}

// ExpensesByCategory returns the category breakdown of one month
func (h *StatsHandler) ExpensesByCategory(c *gin.Context) {
	var query MonthQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		field, msg := describeBindingError(err)
		RespondValidationError(c, field, msg)
		return
	}

	res, err := h.statsService.ExpensesByCategory(c.Request.Context(), query.Year, query.Month)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, res)
}

func (h *StatsHandler) ExpensesMonthly(c *gin.Context) {
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	rows, err := h.statsService.ExpensesMonthly(c.Request.Context(), from, to)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, MonthlyExpensesResponse[stats.MonthlyTotal]{Data: rows})
}

func (h *StatsHandler) ExpensesMonthlyByCategory(c *gin.Context) {
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	rows, err := h.statsService.ExpensesMonthlyByCategory(c.Request.Context(), from, to)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, MonthlyExpensesResponse[stats.MonthlyCategoryTotal]{Data: rows})
}

// bindRange parses from/to, responding 400 itself on failure
func (h *StatsHandler) bindRange(c *gin.Context) (from, to *time.Time, ok bool) {
	var query DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		field, msg := describeBindingError(err)
		RespondValidationError(c, field, msg)
		return nil, nil, false
	}

	from, to, field, err := parseRange(query.From, query.To)
	if err != nil {
		RespondValidationError(c, field, "invalid "+field+": "+err.Error())
		return nil, nil, false
	}
	return from, to, true
}
