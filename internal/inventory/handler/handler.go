package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/service"
	"hotelchain/internal/inventory/store/room"
	"hotelchain/internal/web/render"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	authmw "hotelchain/pkg/platform/middleware/auth"
)

// Service defines the inventory operations behind the admin pages.
type Service interface {
	CreateBranch(ctx context.Context, name, location string) (*models.Branch, error)
	UpdateBranch(ctx context.Context, branchID id.BranchID, name, location string) (*models.Branch, error)
	DeleteBranch(ctx context.Context, branchID id.BranchID) error
	ListBranches(ctx context.Context) ([]*models.Branch, error)
	CreateRoomType(ctx context.Context, cmd service.RoomTypeCommand) (*models.RoomType, error)
	ListRoomTypes(ctx context.Context) ([]*models.RoomType, error)
	CreateRoom(ctx context.Context, cmd service.RoomCommand) (*models.Room, error)
	UpdateRoom(ctx context.Context, roomID id.RoomID, cmd service.RoomCommand) (*models.Room, error)
	DeleteRoom(ctx context.Context, roomID id.RoomID) error
	ListRooms(ctx context.Context, f room.Filter) ([]models.RoomView, error)
}

// Handler serves the super admin inventory pages.
type Handler struct {
	service Service
	render  *render.Renderer
	logger  *slog.Logger
}

func New(svc Service, rd *render.Renderer, logger *slog.Logger) *Handler {
	return &Handler{service: svc, render: rd, logger: logger}
}

// Register mounts the inventory pages under /admin.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(h.logger, id.RoleSuperAdmin))
		r.Get("/admin/branches", h.handleBranchesPage)
		r.Post("/admin/branches", h.handleCreateBranch)
		r.Post("/admin/branches/{id}/update", h.handleUpdateBranch)
		r.Post("/admin/branches/{id}/delete", h.handleDeleteBranch)

		r.Get("/admin/room-types", h.handleRoomTypesPage)
		r.Post("/admin/room-types", h.handleCreateRoomType)

		r.Get("/admin/rooms", h.handleRoomsPage)
		r.Post("/admin/rooms", h.handleCreateRoom)
		r.Post("/admin/rooms/{id}/update", h.handleUpdateRoom)
		r.Post("/admin/rooms/{id}/delete", h.handleDeleteRoom)
	})
}

func (h *Handler) handleBranchesPage(w http.ResponseWriter, r *http.Request) {
	page := render.Page{Title: "Branches"}
	branches, err := h.service.ListBranches(r.Context())
	if err != nil {
		h.render.Fail(w, r, "admin_branches", page, err)
		return
	}
	page.Data = branches
	h.render.HTML(w, r, http.StatusOK, "admin_branches", page)
}

func (h *Handler) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.CreateBranch(r.Context(), r.PostFormValue("name"), r.PostFormValue("location"))
	if err != nil {
		h.render.RedirectError(w, r, "/admin/branches", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/branches", "Branch "+b.Name+" created.")
}

func (h *Handler) handleUpdateBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/admin/branches", err)
		return
	}
	if _, err := h.service.UpdateBranch(r.Context(), branchID, r.PostFormValue("name"), r.PostFormValue("location")); err != nil {
		h.render.RedirectError(w, r, "/admin/branches", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/branches", "Branch updated.")
}

func (h *Handler) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/admin/branches", err)
		return
	}
	if err := h.service.DeleteBranch(r.Context(), branchID); err != nil {
		h.render.RedirectError(w, r, "/admin/branches", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/branches", "Branch deleted.")
}

func (h *Handler) handleRoomTypesPage(w http.ResponseWriter, r *http.Request) {
	page := render.Page{Title: "Room types"}
	types, err := h.service.ListRoomTypes(r.Context())
	if err != nil {
		h.render.Fail(w, r, "admin_room_types", page, err)
		return
	}
	page.Data = types
	h.render.HTML(w, r, http.StatusOK, "admin_room_types", page)
}

func (h *Handler) handleCreateRoomType(w http.ResponseWriter, r *http.Request) {
	price, err := id.ParseMoney(r.PostFormValue("base_price"))
	if err != nil {
		h.render.RedirectError(w, r, "/admin/room-types", err)
		return
	}
	occupancy, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("max_occupancy")))
	if err != nil {
		h.render.RedirectError(w, r, "/admin/room-types", dErrors.New(dErrors.CodeValidation, "max occupancy must be a number"))
		return
	}
	rt, err := h.service.CreateRoomType(r.Context(), service.RoomTypeCommand{
		Name:         r.PostFormValue("name"),
		Description:  r.PostFormValue("description"),
		BasePrice:    price,
		MaxOccupancy: occupancy,
	})
	if err != nil {
		h.render.RedirectError(w, r, "/admin/room-types", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/room-types", "Room type "+rt.Name+" created.")
}

type roomsPage struct {
	Rooms    []models.RoomView
	Branches []*models.Branch
	Types    []*models.RoomType
	Statuses []models.RoomStatus
	BranchID string
}

func (h *Handler) handleRoomsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := render.Page{Title: "Rooms"}
	data := roomsPage{
		Statuses: []models.RoomStatus{models.RoomAvailable, models.RoomOccupied, models.RoomMaintenance},
		BranchID: r.URL.Query().Get("branch_id"),
	}
	var filter room.Filter
	if data.BranchID != "" {
		branchID, err := id.ParseBranchID(data.BranchID)
		if err != nil {
			h.render.Fail(w, r, "admin_rooms", page, err)
			return
		}
		filter.BranchID = branchID
	}
	var err error
	if data.Rooms, err = h.service.ListRooms(ctx, filter); err != nil {
		h.render.Fail(w, r, "admin_rooms", page, err)
		return
	}
	if data.Branches, err = h.service.ListBranches(ctx); err != nil {
		h.render.Fail(w, r, "admin_rooms", page, err)
		return
	}
	if data.Types, err = h.service.ListRoomTypes(ctx); err != nil {
		h.render.Fail(w, r, "admin_rooms", page, err)
		return
	}
	page.Data = data
	h.render.HTML(w, r, http.StatusOK, "admin_rooms", page)
}

func parseRoomForm(r *http.Request) (service.RoomCommand, error) {
	branchID, err := id.ParseBranchID(r.PostFormValue("branch_id"))
	if err != nil {
		return service.RoomCommand{}, err
	}
	typeID, err := id.ParseRoomTypeID(r.PostFormValue("room_type_id"))
	if err != nil {
		return service.RoomCommand{}, err
	}
	cmd := service.RoomCommand{
		BranchID:   branchID,
		RoomTypeID: typeID,
		RoomNumber: r.PostFormValue("room_number"),
	}
	if raw := r.PostFormValue("status"); raw != "" {
		if cmd.Status, err = models.ParseRoomStatus(raw); err != nil {
			return service.RoomCommand{}, err
		}
	}
	return cmd, nil
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	cmd, err := parseRoomForm(r)
	if err != nil {
		h.render.RedirectError(w, r, "/admin/rooms", err)
		return
	}
	rm, err := h.service.CreateRoom(r.Context(), cmd)
	if err != nil {
		h.render.RedirectError(w, r, "/admin/rooms", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/rooms", "Room "+rm.RoomNumber+" created.")
}

func (h *Handler) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := id.ParseRoomID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/admin/rooms", err)
		return
	}
	cmd, err := parseRoomForm(r)
	if err != nil {
		h.render.RedirectError(w, r, "/admin/rooms", err)
		return
	}
	if _, err := h.service.UpdateRoom(r.Context(), roomID, cmd); err != nil {
		h.render.RedirectError(w, r, "/admin/rooms", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/rooms", "Room updated.")
}

func (h *Handler) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := id.ParseRoomID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/admin/rooms", err)
		return
	}
	if err := h.service.DeleteRoom(r.Context(), roomID); err != nil {
		h.render.RedirectError(w, r, "/admin/rooms", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/rooms", "Room deleted.")
}
