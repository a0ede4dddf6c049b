package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelchain/internal/billing/models"
	bookingmodels "hotelchain/internal/booking/models"
	"hotelchain/internal/web/render"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	authmw "hotelchain/pkg/platform/middleware/auth"
	"hotelchain/pkg/requestcontext"
)

type stubBilling struct {
	charges   *id.Money
	method    string
	summaryOf id.BranchID
	invoices  []models.InvoiceView
}

func (s *stubBilling) GenerateInvoice(_ context.Context, _ id.BookingID, charges id.Money) (*models.Invoice, error) {
	s.charges = &charges
	return &models.Invoice{ID: id.InvoiceID(uuid.New()), Amount: 30000 + charges}, nil
}

func (s *stubBilling) SearchInvoice(context.Context, string) ([]models.InvoiceView, error) {
	return s.invoices, nil
}

func (s *stubBilling) ProcessPayment(_ context.Context, _ id.InvoiceID, method, _ string) (*models.Payment, error) {
	s.method = method
	if method != "cash" {
		return nil, dErrors.New(dErrors.CodeValidation, "payment method must be cash or credit card")
	}
	return &models.Payment{Amount: 4500}, nil
}

func (s *stubBilling) BranchSummary(_ context.Context, branchID id.BranchID) (*models.Summary, error) {
	s.summaryOf = branchID
	return &models.Summary{TotalInvoiced: 50000, TotalPaid: 20000, Outstanding: 30000}, nil
}

type noStays struct{}

func (noStays) SearchStay(context.Context, string) ([]bookingmodels.BookingView, error) { return nil, nil }

func newRouter(t *testing.T, svc Service, p requestcontext.Principal) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rd, err := render.New(logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authmw.WithSession(req.Context(), &authmw.Authenticated{Principal: p})))
		})
	})
	New(svc, noStays{}, rd, logger).Register(r)
	return r
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestGenerateInvoiceDefaultsCharges(t *testing.T) {
	svc := &stubBilling{}
	router := newRouter(t, svc, requestcontext.Principal{Role: id.RoleClerk, BranchID: id.BranchID(uuid.New())})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/clerk/billing/invoices", url.Values{"booking_id": {uuid.NewString()}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, svc.charges)
	assert.Equal(t, id.Money(0), *svc.charges)

	svc.charges = nil
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/clerk/billing/invoices", url.Values{"booking_id": {uuid.NewString()}, "service_charges": {"-5"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, id.Money(-500), *svc.charges, "sign is checked by the service")
}

func TestProcessPaymentRedirects(t *testing.T) {
	svc := &stubBilling{}
	router := newRouter(t, svc, requestcontext.Principal{Role: id.RoleClerk, BranchID: id.BranchID(uuid.New())})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/clerk/payments", url.Values{"invoice_id": {"not-an-id"}}))
	assert.Equal(t, "/clerk/payments", rec.Header().Get("Location"))
	assert.Empty(t, svc.method)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/clerk/payments", url.Values{"invoice_id": {uuid.NewString()}, "payment_method": {"cash"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "cash", svc.method)
}

func TestPaymentsPageShowsOverdue(t *testing.T) {
	due := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	svc := &stubBilling{invoices: []models.InvoiceView{{
		Invoice:   &models.Invoice{ID: id.InvoiceID(uuid.New()), Amount: 12000, Status: models.InvoicePending, DueAt: &due},
		GuestName: "Late Payer",
		Current:   models.InvoiceOverdue,
	}}}
	router := newRouter(t, svc, requestcontext.Principal{Role: id.RoleClerk, BranchID: id.BranchID(uuid.New())})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clerk/payments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Late Payer")
	assert.Contains(t, rec.Body.String(), "overdue")
	assert.Contains(t, rec.Body.String(), "2026-09-01 19:00")
}

func TestManagerSummaryUsesOwnBranch(t *testing.T) {
	branchID := id.BranchID(uuid.New())
	svc := &stubBilling{}
	router := newRouter(t, svc, requestcontext.Principal{Role: id.RoleManager, BranchID: branchID})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manager/billing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, branchID, svc.summaryOf)
	assert.Contains(t, rec.Body.String(), "300.00")
}

func TestManagerWithoutBranch(t *testing.T) {
	router := newRouter(t, &stubBilling{}, requestcontext.Principal{Role: id.RoleManager})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manager/billing", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "No branch assigned")
}
