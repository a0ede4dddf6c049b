package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	billingmodels "hotelchain/internal/billing/models"
	"hotelchain/internal/booking/models"
	"hotelchain/internal/booking/service"
	inventory "hotelchain/internal/inventory/models"
	"hotelchain/internal/web/render"
	"hotelchain/pkg/card"
	id "hotelchain/pkg/domain"
	authmw "hotelchain/pkg/platform/middleware/auth"
)

// Service defines the booking operations the pages need.
type Service interface {
	MakeReservation(ctx context.Context, cmd service.ReservationCommand) (*models.Reservation, error)
	ListReservations(ctx context.Context) ([]models.ReservationView, error)
	EditReservation(ctx context.Context, reservationID id.ReservationID, cmd service.EditReservationCommand) (*models.Reservation, error)
	CancelReservation(ctx context.Context, reservationID id.ReservationID) error
	PayReservation(ctx context.Context, reservationID id.ReservationID, details card.Details) (*billingmodels.Payment, error)
	ListBookings(ctx context.Context) ([]models.BookingView, error)

	SearchArrival(ctx context.Context, query string) ([]models.BookingView, error)
	CheckIn(ctx context.Context, bookingID id.BookingID, roomID id.RoomID) (*models.Booking, error)
	WalkIn(ctx context.Context, cmd service.WalkInCommand) (*models.Booking, error)
	SearchStay(ctx context.Context, query string) ([]models.BookingView, error)
	CheckOut(ctx context.Context, bookingID id.BookingID, cmd service.CheckOutCommand) (*service.CheckOutResult, error)
	ModifyCheckOut(ctx context.Context, bookingID id.BookingID, newCheckOut string) (*models.Booking, error)
	AvailableRooms(ctx context.Context) ([]inventory.RoomView, error)
}

// Catalog feeds the branch and room type pickers on the reservation form.
type Catalog interface {
	ListBranches(ctx context.Context) ([]*inventory.Branch, error)
	ListRoomTypes(ctx context.Context) ([]*inventory.RoomType, error)
}

// Handler serves the guest reservation pages and the front desk.
type Handler struct {
	service Service
	catalog Catalog
	render  *render.Renderer
	logger  *slog.Logger
}

// New creates a booking Handler.
func New(svc Service, catalog Catalog, rd *render.Renderer, logger *slog.Logger) *Handler {
	return &Handler{service: svc, catalog: catalog, render: rd, logger: logger}
}

// Register mounts the customer and clerk booking pages.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(h.logger, id.RoleCustomer, id.RoleTravelCompany))
		r.Get("/customer", h.handleDashboard)
		r.Get("/customer/reservations", h.handleReservationsPage)
		r.Post("/customer/reservations", h.handleMakeReservation)
		r.Post("/customer/reservations/{id}/edit", h.handleEditReservation)
		r.Post("/customer/reservations/{id}/cancel", h.handleCancelReservation)
		r.Post("/customer/reservations/{id}/pay", h.handlePayReservation)
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(h.logger, id.RoleClerk))
		r.Get("/clerk/check-in", h.handleCheckInPage)
		r.Post("/clerk/check-in/search", h.handleCheckInPage)
		r.Post("/clerk/check-in", h.handleCheckIn)
		r.Post("/clerk/check-in/walk-in", h.handleWalkIn)
		r.Get("/clerk/check-out", h.handleCheckOutPage)
		r.Post("/clerk/check-out/search", h.handleCheckOutPage)
		r.Post("/clerk/check-out", h.handleCheckOut)
		r.Get("/clerk/stays", h.handleStaysPage)
		r.Post("/clerk/stays/search", h.handleStaysPage)
		r.Post("/clerk/stays/{id}/check-out-date", h.handleModifyCheckOut)
	})
}

type dashboardPage struct {
	Bookings []models.BookingView
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	page := render.Page{Title: "My bookings", Data: dashboardPage{Bookings: bookings}}
	if err != nil {
		h.render.Fail(w, r, "customer_dashboard", page, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "customer_dashboard", page)
}

type reservationForm struct {
	BranchID      string
	RoomTypeID    string
	CheckIn       string
	CheckOut      string
	Occupants     string
	NumberOfRooms string
	Payment       string
}

type reservationsPage struct {
	Reservations []models.ReservationView
	Branches     []*inventory.Branch
	Types        []*inventory.RoomType
	Form         reservationForm
}

func (h *Handler) reservationsPage(ctx context.Context, form reservationForm) (reservationsPage, error) {
	page := reservationsPage{Form: form}
	var err error
	if page.Reservations, err = h.service.ListReservations(ctx); err != nil {
		return page, err
	}
	if page.Branches, err = h.catalog.ListBranches(ctx); err != nil {
		return page, err
	}
	if page.Types, err = h.catalog.ListRoomTypes(ctx); err != nil {
		return page, err
	}
	return page, nil
}

func (h *Handler) handleReservationsPage(w http.ResponseWriter, r *http.Request) {
	data, err := h.reservationsPage(r.Context(), reservationForm{Occupants: "1", NumberOfRooms: "1", Payment: string(models.PayByCard)})
	page := render.Page{Title: "Reservations", Data: data}
	if err != nil {
		h.render.Fail(w, r, "customer_reservations", page, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "customer_reservations", page)
}

func (h *Handler) handleMakeReservation(w http.ResponseWriter, r *http.Request) {
	form := reservationForm{
		BranchID:      r.PostFormValue("branch_id"),
		RoomTypeID:    r.PostFormValue("room_type_id"),
		CheckIn:       r.PostFormValue("check_in"),
		CheckOut:      r.PostFormValue("check_out"),
		Occupants:     r.PostFormValue("occupants"),
		NumberOfRooms: r.PostFormValue("number_of_rooms"),
		Payment:       r.PostFormValue("payment_method"),
	}
	_, err := h.service.MakeReservation(r.Context(), service.ReservationCommand{
		BranchID:      form.BranchID,
		RoomTypeID:    form.RoomTypeID,
		CheckIn:       form.CheckIn,
		CheckOut:      form.CheckOut,
		Occupants:     formInt(form.Occupants),
		NumberOfRooms: formInt(form.NumberOfRooms),
		Payment:       form.Payment,
		Card:          cardDetails(r),
	})
	if err != nil {
		// Re-render so the guest keeps what they typed; card fields are never echoed.
		data, _ := h.reservationsPage(r.Context(), form)
		h.render.Fail(w, r, "customer_reservations", render.Page{Title: "Reservations", Data: data}, err)
		return
	}
	msg := "Reservation created. Please complete payment before 7 PM on your check-in day."
	if form.Payment == string(models.PayByCard) {
		msg = "Reservation created and card payment recorded."
	}
	h.render.RedirectSuccess(w, r, "/customer/reservations", msg)
}

func (h *Handler) handleEditReservation(w http.ResponseWriter, r *http.Request) {
	reservationID, err := id.ParseReservationID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/customer/reservations", err)
		return
	}
	_, err = h.service.EditReservation(r.Context(), reservationID, service.EditReservationCommand{
		CheckIn:       r.PostFormValue("check_in"),
		CheckOut:      r.PostFormValue("check_out"),
		Occupants:     formInt(r.PostFormValue("occupants")),
		NumberOfRooms: formInt(r.PostFormValue("number_of_rooms")),
	})
	if err != nil {
		h.render.RedirectError(w, r, "/customer/reservations", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/customer/reservations", "Reservation updated.")
}

func (h *Handler) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	reservationID, err := id.ParseReservationID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/customer/reservations", err)
		return
	}
	if err := h.service.CancelReservation(r.Context(), reservationID); err != nil {
		h.render.RedirectError(w, r, "/customer/reservations", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/customer/reservations", "Reservation cancelled.")
}

func (h *Handler) handlePayReservation(w http.ResponseWriter, r *http.Request) {
	reservationID, err := id.ParseReservationID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/customer/reservations", err)
		return
	}
	p, err := h.service.PayReservation(r.Context(), reservationID, cardDetails(r))
	if err != nil {
		h.render.RedirectError(w, r, "/customer/reservations", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/customer/reservations", "Payment of "+p.Amount.String()+" received. Thank you.")
}

type deskPage struct {
	Query    string
	Bookings []models.BookingView
	Rooms    []inventory.RoomView
}

func (h *Handler) handleCheckInPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := deskPage{Query: strings.TrimSpace(r.PostFormValue("query"))}
	page := render.Page{Title: "Check-in"}
	var err error
	if data.Bookings, err = h.service.SearchArrival(ctx, data.Query); err == nil {
		data.Rooms, err = h.service.AvailableRooms(ctx)
	}
	page.Data = data
	if err != nil {
		h.render.Fail(w, r, "clerk_checkin", page, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "clerk_checkin", page)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	bookingID, err := id.ParseBookingID(r.PostFormValue("booking_id"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/check-in", err)
		return
	}
	roomID, err := id.ParseRoomID(r.PostFormValue("room_id"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/check-in", err)
		return
	}
	if _, err := h.service.CheckIn(r.Context(), bookingID, roomID); err != nil {
		h.render.RedirectError(w, r, "/clerk/check-in", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/clerk/check-in", "Guest checked in.")
}

func (h *Handler) handleWalkIn(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.WalkIn(r.Context(), service.WalkInCommand{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		CheckIn:  r.PostFormValue("check_in"),
		CheckOut: r.PostFormValue("check_out"),
		RoomID:   r.PostFormValue("room_id"),
	})
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/check-in", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/clerk/check-in", "Walk-in guest checked in.")
}

func (h *Handler) renderStays(w http.ResponseWriter, r *http.Request, name, title string) {
	data := deskPage{Query: strings.TrimSpace(r.PostFormValue("query"))}
	var err error
	data.Bookings, err = h.service.SearchStay(r.Context(), data.Query)
	page := render.Page{Title: title, Data: data}
	if err != nil {
		h.render.Fail(w, r, name, page, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, name, page)
}

func (h *Handler) handleCheckOutPage(w http.ResponseWriter, r *http.Request) {
	h.renderStays(w, r, "clerk_checkout", "Check-out")
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	bookingID, err := id.ParseBookingID(r.PostFormValue("booking_id"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/check-out", err)
		return
	}
	charges, err := formMoney(r.PostFormValue("service_charges"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/check-out", err)
		return
	}
	res, err := h.service.CheckOut(r.Context(), bookingID, service.CheckOutCommand{
		Method:         r.PostFormValue("payment_method"),
		CardLastFour:   r.PostFormValue("card_last_four"),
		ServiceCharges: charges,
	})
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/check-out", err)
		return
	}
	msg := "Guest checked out. Payment of " + res.Quote.Due.String() + " recorded for " + strconv.Itoa(res.Quote.Nights) + " nights."
	if res.Quote.Prepaid > 0 {
		msg += " " + res.Quote.Prepaid.String() + " was paid with the reservation."
	}
	if res.Payment == nil {
		msg = "Guest checked out. The stay was paid in full with the reservation."
	}
	h.render.RedirectSuccess(w, r, "/clerk/check-out", msg)
}

func (h *Handler) handleStaysPage(w http.ResponseWriter, r *http.Request) {
	h.renderStays(w, r, "clerk_stays", "Manage stays")
}

func (h *Handler) handleModifyCheckOut(w http.ResponseWriter, r *http.Request) {
	bookingID, err := id.ParseBookingID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/stays", err)
		return
	}
	b, err := h.service.ModifyCheckOut(r.Context(), bookingID, r.PostFormValue("check_out"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/stays", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/clerk/stays", "Check-out date moved to "+b.Stay.CheckOut.Format("2006-01-02")+".")
}

func cardDetails(r *http.Request) card.Details {
	return card.Details{
		Holder: r.PostFormValue("card_holder"),
		Number: r.PostFormValue("card_number"),
		Expiry: r.PostFormValue("card_expiry"),
		CVC:    r.PostFormValue("card_cvc"),
	}
}

// formInt reads a count field; anything unparsable counts as zero and fails
// validation downstream.
func formInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// formMoney reads an optional amount; blank means zero.
func formMoney(s string) (id.Money, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return id.ParseMoney(s)
}
