package api

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"StockOutlook/internal/collector"
	"StockOutlook/internal/model"
)

// OutlookRequest selects a symbol and forecast horizon. Horizon accepts
// every name model.ParseHorizon does.
type OutlookRequest struct {
	Symbol  string `param:"symbol" validate:"required,max=32"`
	Horizon string `query:"horizon" default:"short" validate:"max=16"`
}

// IndicatorsRequest returns the last Limit rows; 0 means all.
type IndicatorsRequest struct {
	Symbol string `param:"symbol" validate:"required,max=32"`
	Limit  int    `query:"limit" validate:"gte=0,lte=5000"`
}

// ValueRequest reads one indicator column on one trading date.
type ValueRequest struct {
	Symbol string `param:"symbol" validate:"required,max=32"`
	Date   string `query:"date" validate:"required,datetime=2006-01-02"`
	Field  string `query:"field" validate:"required,oneof=close daily_return rsi14 macd macd_signal ma20 ma50"`
}

// ValueResponse is the body of the single-value endpoint.
type ValueResponse struct {
	Symbol string      `json:"symbol"`
	Date   string      `json:"date"`
	Field  model.Field `json:"field"`
	Value  float64     `json:"value"`
}

// LevelsRequest estimates levels over Window bars; 0 means the default.
type LevelsRequest struct {
	Symbol string `param:"symbol" validate:"required,max=32"`
	Window int    `query:"window" validate:"gte=0,lte=1000"`
}

// CompareRequest names the two symbols to align.
type CompareRequest struct {
	Symbol string `query:"symbol" validate:"required,max=32"`
	Other  string `query:"other" validate:"required,max=32,nefield=Symbol"`
}

// LevelsResponse is the body of the levels endpoint.
type LevelsResponse struct {
	Symbol string `json:"symbol"`
	model.SupportResistance
}

// Handler serves the outlook API on top of a Collector.
type Handler struct {
	col *collector.Collector
	log zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(col *collector.Collector, log zerolog.Logger) *Handler {
	return &Handler{col: col, log: log}
}

// RegisterRoutes mounts the API under /api/v1 and the health probe.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api/v1")
	g.GET("/outlook/:symbol", h.Outlook)
	g.GET("/indicators/:symbol", h.Indicators)
	g.GET("/indicators/:symbol/value", h.Value)
	g.GET("/levels/:symbol", h.Levels)
	g.GET("/compare", h.Compare)
}

// Health reports liveness and the configured provider.
func (h *Handler) Health(c echo.Context) error {
	return SuccessResponse(c, map[string]string{
		"status":   "ok",
		"provider": h.col.Fetcher.Name(),
	})
}

// Outlook returns the full report for one symbol and horizon.
func (h *Handler) Outlook(c echo.Context) error {
	req := &OutlookRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	horizon, err := model.ParseHorizon(req.Horizon)
	if err != nil {
		appErr := FromDomainError(err)
		appErr.Field = "horizon"
		return AppErrorResponse(c, appErr)
	}
	rep, err := h.col.Analyze(c.Request().Context(), normalize(req.Symbol), horizon)
	if err != nil {
		return h.fail(c, "outlook", err)
	}
	return SuccessResponse(c, rep)
}

// Indicators returns the derived indicator table.
func (h *Handler) Indicators(c echo.Context) error {
	req := &IndicatorsRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	ind, err := h.col.Indicators(c.Request().Context(), normalize(req.Symbol))
	if err != nil {
		return h.fail(c, "indicators", err)
	}
	if req.Limit > 0 {
		ind = &model.IndicatorSeries{Symbol: ind.Symbol, Points: ind.Window(req.Limit)}
	}
	return SuccessResponse(c, ind)
}

// Value returns a single defined indicator value for a date.
func (h *Handler) Value(c echo.Context) error {
	req := &ValueRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	date, _ := time.Parse(time.DateOnly, req.Date) // checked by the datetime tag
	ind, err := h.col.Indicators(c.Request().Context(), normalize(req.Symbol))
	if err != nil {
		return h.fail(c, "value", err)
	}
	field := model.Field(req.Field)
	v, err := ind.Value(date, field)
	if err != nil {
		return h.fail(c, "value", err)
	}
	return SuccessResponse(c, ValueResponse{Symbol: ind.Symbol, Date: req.Date, Field: field, Value: v})
}

// Levels returns support and resistance.
func (h *Handler) Levels(c echo.Context) error {
	req := &LevelsRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	sym := normalize(req.Symbol)
	lv, err := h.col.Levels(c.Request().Context(), sym, req.Window)
	if err != nil {
		return h.fail(c, "levels", err)
	}
	return SuccessResponse(c, LevelsResponse{Symbol: sym, SupportResistance: lv})
}

// Compare aligns the closes of two symbols on shared dates.
func (h *Handler) Compare(c echo.Context) error {
	req := &CompareRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	cmp, err := h.col.Compare(c.Request().Context(), normalize(req.Symbol), normalize(req.Other))
	if err != nil {
		return h.fail(c, "compare", err)
	}
	return SuccessResponse(c, cmp)
}

func (h *Handler) fail(c echo.Context, op string, err error) error {
	appErr := FromDomainError(err)
	if appErr.Status >= 500 {
		h.log.Error().Err(err).Str("op", op).Msg("request failed")
	} else {
		h.log.Debug().Err(err).Str("op", op).Msg("request rejected")
	}
	return AppErrorResponse(c, appErr)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
