package transport

import (
	"net/http"

	"rsm-commerce/internal/middleware"
	"rsm-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatsHandler serves the dashboard aggregates
type StatsHandler struct {
	statsService service.StatsService
	logger       *zap.Logger
}

func NewStatsHandler(statsService service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{statsService: statsService, logger: logger}
}

func (h *StatsHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/stats", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/user-stats/{email}", h.UserStats)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff(h.logger))
			r.Get("/admin-stats", h.AdminStats)
			r.Get("/monthly-product-sales", h.MonthlyProductSales)
		})
	})
}

func (h *StatsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.UserStats(r.Context(), actor, chi.URLParam(r, "email"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to compute user stats")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.AdminStats(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to compute admin stats")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) MonthlyProductSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.statsService.MonthlyProductSales(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to compute monthly sales")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}
