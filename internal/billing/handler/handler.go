package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hotelchain/internal/billing/models"
	bookingmodels "hotelchain/internal/booking/models"
	"hotelchain/internal/web/render"
	id "hotelchain/pkg/domain"
	authmw "hotelchain/pkg/platform/middleware/auth"
)

// Service defines the billing operations the desk and manager pages need.
type Service interface {
	GenerateInvoice(ctx context.Context, bookingID id.BookingID, serviceCharges id.Money) (*models.Invoice, error)
	SearchInvoice(ctx context.Context, query string) ([]models.InvoiceView, error)
	ProcessPayment(ctx context.Context, invoiceID id.InvoiceID, method, cardLastFour string) (*models.Payment, error)
	BranchSummary(ctx context.Context, branchID id.BranchID) (*models.Summary, error)
}

// StayFinder lists in-house guests that can be invoiced.
type StayFinder interface {
	SearchStay(ctx context.Context, query string) ([]bookingmodels.BookingView, error)
}

type Handler struct {
	service Service
	stays   StayFinder
	render  *render.Renderer
	logger  *slog.Logger
}

func New(svc Service, stays StayFinder, rd *render.Renderer, logger *slog.Logger) *Handler {
	return &Handler{service: svc, stays: stays, render: rd, logger: logger}
}

// Register mounts the clerk billing pages and the manager summary.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(h.logger, id.RoleClerk))
		r.Get("/clerk/billing", h.handleBillingPage)
		r.Post("/clerk/billing/search", h.handleBillingPage)
		r.Post("/clerk/billing/invoices", h.handleGenerateInvoice)
		r.Get("/clerk/payments", h.handlePaymentsPage)
		r.Post("/clerk/payments/search", h.handlePaymentsPage)
		r.Post("/clerk/payments", h.handleProcessPayment)
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(h.logger, id.RoleManager))
		r.Get("/manager/billing", h.handleSummary)
	})
}

type billingPage struct {
	Query    string
	Stays    []bookingmodels.BookingView
	Invoices []models.InvoiceView
}

func (h *Handler) handleBillingPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := billingPage{Query: strings.TrimSpace(r.PostFormValue("query"))}
	var err error
	if data.Stays, err = h.stays.SearchStay(ctx, data.Query); err == nil {
		data.Invoices, err = h.service.SearchInvoice(ctx, "")
	}
	page := render.Page{Title: "Billing", Data: data}
	if err != nil {
		h.render.Fail(w, r, "clerk_billing", page, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "clerk_billing", page)
}

func (h *Handler) handleGenerateInvoice(w http.ResponseWriter, r *http.Request) {
	bookingID, err := id.ParseBookingID(r.PostFormValue("booking_id"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/billing", err)
		return
	}
	charges, err := formMoney(r.PostFormValue("service_charges"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/billing", err)
		return
	}
	inv, err := h.service.GenerateInvoice(r.Context(), bookingID, charges)
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/billing", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/clerk/billing", "Invoice "+inv.ID.String()+" issued for "+inv.Amount.String()+".")
}

type paymentsPage struct {
	Query    string
	Invoices []models.InvoiceView
}

func (h *Handler) handlePaymentsPage(w http.ResponseWriter, r *http.Request) {
	data := paymentsPage{Query: strings.TrimSpace(r.PostFormValue("query"))}
	var err error
	data.Invoices, err = h.service.SearchInvoice(r.Context(), data.Query)
	page := render.Page{Title: "Payments", Data: data}
	if err != nil {
		h.render.Fail(w, r, "clerk_payments", page, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "clerk_payments", page)
}

func (h *Handler) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := id.ParseInvoiceID(r.PostFormValue("invoice_id"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/payments", err)
		return
	}
	p, err := h.service.ProcessPayment(r.Context(), invoiceID, r.PostFormValue("payment_method"), r.PostFormValue("card_last_four"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/payments", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/clerk/payments", "Payment of "+p.Amount.String()+" received.")
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := render.Page{Title: "Billing summary"}
	branchID, err := authmw.BranchScope(ctx)
	if err != nil {
		h.render.Fail(w, r, "manager_billing", page, err)
		return
	}
	summary, err := h.service.BranchSummary(ctx, branchID)
	if err != nil {
		h.render.Fail(w, r, "manager_billing", page, err)
		return
	}
	page.Data = summary
	h.render.HTML(w, r, http.StatusOK, "manager_billing", page)
}

// formMoney reads an optional amount; blank means zero.
func formMoney(s string) (id.Money, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return id.ParseMoney(s)
}
