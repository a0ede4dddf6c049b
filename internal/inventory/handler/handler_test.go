package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/service"
	"hotelchain/internal/inventory/store/room"
	"hotelchain/internal/web/render"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	"hotelchain/pkg/requestcontext"
	"hotelchain/pkg/testutil"
)

type stubInventory struct {
	Service
	roomType  *service.RoomTypeCommand
	room      *service.RoomCommand
	filter    room.Filter
	deleteErr error
	branches  []*models.Branch
	rooms     []models.RoomView
}

func (s *stubInventory) ListBranches(context.Context) ([]*models.Branch, error) { return s.branches, nil }
func (s *stubInventory) ListRoomTypes(context.Context) ([]*models.RoomType, error) {
	return nil, nil
}

func (s *stubInventory) ListRooms(_ context.Context, f room.Filter) ([]models.RoomView, error) {
	s.filter = f
	return s.rooms, nil
}

func (s *stubInventory) CreateRoomType(_ context.Context, cmd service.RoomTypeCommand) (*models.RoomType, error) {
	s.roomType = &cmd
	return &models.RoomType{ID: id.RoomTypeID(uuid.New()), Name: cmd.Name}, nil
}

func (s *stubInventory) CreateRoom(_ context.Context, cmd service.RoomCommand) (*models.Room, error) {
	s.room = &cmd
	return &models.Room{ID: id.RoomID(uuid.New()), RoomNumber: cmd.RoomNumber}, nil
}

func (s *stubInventory) DeleteBranch(context.Context, id.BranchID) error { return s.deleteErr }

type InventoryHandlerSuite struct {
	suite.Suite
	svc       *stubInventory
	principal *requestcontext.Principal
	router    http.Handler
}

func TestInventoryHandlerSuite(t *testing.T) {
	suite.Run(t, new(InventoryHandlerSuite))
}

func (s *InventoryHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rd, err := render.New(logger)
	s.Require().NoError(err)

	admin := testutil.NewPrincipal(id.RoleSuperAdmin)
	s.principal = &admin
	s.svc = &stubInventory{}
	r := chi.NewRouter()
	r.Use(testutil.InjectPrincipal(&s.principal))
	New(s.svc, rd, logger).Register(r)
	s.router = r
}

func (s *InventoryHandlerSuite) post(path string, form url.Values) (int, string, string) {
	rec := testutil.DoRequest(s.router, testutil.NewFormRequest(s.T(), http.MethodPost, path, form))
	return rec.Code, rec.Header().Get("Location"), testutil.Flash(rec)
}

func (s *InventoryHandlerSuite) TestOnlySuperAdmin() {
	manager := testutil.NewPrincipal(id.RoleManager)
	s.principal = &manager
	rec := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/branches"))
	s.Equal(http.StatusSeeOther, rec.Code)
	s.Equal("/manager/billing", rec.Header().Get("Location"))
}

func (s *InventoryHandlerSuite) TestCreateRoomTypeParsesPrice() {
	code, location, flash := s.post("/admin/room-types", url.Values{
		"name": {"Deluxe"}, "base_price": {"189.90"}, "max_occupancy": {"3"},
	})
	s.Equal(http.StatusSeeOther, code)
	s.Equal("/admin/room-types", location)
	s.Equal("success|Room type Deluxe created.", flash)
	s.Require().NotNil(s.svc.roomType)
	s.Equal(id.Money(18990), s.svc.roomType.BasePrice)
	s.Equal(3, s.svc.roomType.MaxOccupancy)

	s.svc.roomType = nil
	_, _, flash = s.post("/admin/room-types", url.Values{
		"name": {"Deluxe"}, "base_price": {"189.90"}, "max_occupancy": {"many"},
	})
	s.Equal("error|max occupancy must be a number", flash)
	s.Nil(s.svc.roomType)
}

func (s *InventoryHandlerSuite) TestCreateRoomDefaultsStatus() {
	branchID, typeID := uuid.NewString(), uuid.NewString()
	_, _, flash := s.post("/admin/rooms", url.Values{
		"branch_id": {branchID}, "room_type_id": {typeID}, "room_number": {"204"},
	})
	s.Equal("success|Room 204 created.", flash)
	s.Require().NotNil(s.svc.room)
	s.Equal(branchID, s.svc.room.BranchID.String())
	s.Empty(s.svc.room.Status)

	s.svc.room = nil
	_, _, flash = s.post("/admin/rooms", url.Values{
		"branch_id": {branchID}, "room_type_id": {typeID}, "room_number": {"205"}, "status": {"flooded"},
	})
	s.Contains(flash, "error|")
	s.Nil(s.svc.room)
}

func (s *InventoryHandlerSuite) TestRoomsPageFiltersByBranch() {
	branch := &models.Branch{ID: id.BranchID(uuid.New()), Name: "Harbour"}
	s.svc.branches = []*models.Branch{branch}
	s.svc.rooms = []models.RoomView{{
		Room:         &models.Room{ID: id.RoomID(uuid.New()), BranchID: branch.ID, RoomNumber: "101", Status: models.RoomAvailable},
		BranchName:   "Harbour",
		RoomTypeName: "Single",
		BasePrice:    9000,
	}}

	rec := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/rooms?branch_id="+branch.ID.String()))
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(branch.ID, s.svc.filter.BranchID)
	body := testutil.ReadBody(s.T(), rec)
	s.Contains(body, "101")
	s.Contains(body, "Harbour")

	rec = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/rooms?branch_id=nope"))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *InventoryHandlerSuite) TestDeleteBranchInUse() {
	s.svc.deleteErr = dErrors.New(dErrors.CodeConflict, "branch still has rooms or staff")
	_, location, flash := s.post("/admin/branches/"+uuid.NewString()+"/delete", url.Values{})
	s.Equal("/admin/branches", location)
	s.Equal("error|branch still has rooms or staff", flash)
}
