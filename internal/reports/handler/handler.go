package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotelchain/internal/reports/models"
	"hotelchain/internal/web/render"
	id "hotelchain/pkg/domain"
	authmw "hotelchain/pkg/platform/middleware/auth"
)

type Service interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	ChainReport(ctx context.Context) (*models.ChainReport, error)
}

// Handler serves the super admin dashboard and reports pages.
type Handler struct {
	service Service
	render  *render.Renderer
	logger  *slog.Logger
}

func New(svc Service, rd *render.Renderer, logger *slog.Logger) *Handler {
	return &Handler{service: svc, render: rd, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(h.logger, id.RoleSuperAdmin))
		r.Get("/admin", h.handleDashboard)
		r.Get("/admin/reports", h.handleReports)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := render.Page{Title: "Dashboard"}
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.render.Fail(w, r, "admin_dashboard", page, err)
		return
	}
	page.Data = d
	h.render.HTML(w, r, http.StatusOK, "admin_dashboard", page)
}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	page := render.Page{Title: "Reports"}
	report, err := h.service.ChainReport(r.Context())
	if err != nil {
		h.render.Fail(w, r, "admin_reports", page, err)
		return
	}
	page.Data = report
	h.render.HTML(w, r, http.StatusOK, "admin_reports", page)
}
