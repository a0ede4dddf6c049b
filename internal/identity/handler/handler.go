package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hotelchain/internal/identity/models"
	"hotelchain/internal/identity/service"
	inventory "hotelchain/internal/inventory/models"
	"hotelchain/internal/web/render"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	authmw "hotelchain/pkg/platform/middleware/auth"
	"hotelchain/pkg/requestcontext"
)

// Service defines the identity operations the pages need.
type Service interface {
	Register(ctx context.Context, cmd service.RegisterCommand) (*models.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, sessionID id.SessionID) error
	CreateUser(ctx context.Context, cmd service.CreateUserCommand) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, userID id.UserID) error
	UpdateCustomer(ctx context.Context, userID id.UserID, name, email string) (*models.User, error)
	SessionTTL() time.Duration
}

// BranchLister feeds the branch picker on the user form.
type BranchLister interface {
	ListBranches(ctx context.Context) ([]*inventory.Branch, error)
}

// Handler serves login, registration and user administration pages.
type Handler struct {
	service      Service
	branches     BranchLister
	render       *render.Renderer
	logger       *slog.Logger
	secureCookie bool
}

// New creates an identity Handler.
func New(svc Service, branches BranchLister, rd *render.Renderer, logger *slog.Logger, secureCookie bool) *Handler {
	return &Handler{
		service:      svc,
		branches:     branches,
		render:       rd,
		logger:       logger,
		secureCookie: secureCookie,
	}
}

// Register mounts the identity pages.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/register", h.handleRegisterPage)
	r.Post("/register", h.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(h.logger, id.RoleSuperAdmin))
		r.Get("/admin/users", h.handleUsersPage)
		r.Post("/admin/users", h.handleCreateUser)
		r.Post("/admin/users/{id}/delete", h.handleDeleteUser)
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireRole(h.logger, id.RoleClerk))
		r.Post("/clerk/customers/{id}", h.handleUpdateCustomer)
	})
}

type credentialsForm struct {
	Name  string
	Email string
	Role  string
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if p, ok := requestcontext.CurrentPrincipal(r.Context()); ok {
		http.Redirect(w, r, p.Role.Home(), http.StatusSeeOther)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "home", render.Page{Title: "Welcome"})
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if p, ok := requestcontext.CurrentPrincipal(r.Context()); ok {
		http.Redirect(w, r, p.Role.Home(), http.StatusSeeOther)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "login", render.Page{Title: "Log in", Data: credentialsForm{}})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	res, err := h.service.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		h.render.Fail(w, r, "login", render.Page{Title: "Log in", Data: credentialsForm{Email: email}}, err)
		return
	}
	authmw.SetCookie(w, res.Token, int(h.service.SessionTTL().Seconds()), h.secureCookie)
	http.Redirect(w, r, res.Session.Role.Home(), http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Logout(ctx, requestcontext.SessionID(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "logout failed", "error", err)
	}
	authmw.ClearCookie(w)
	h.render.RedirectSuccess(w, r, "/login", "You have been logged out.")
}

func (h *Handler) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "register", render.Page{Title: "Register", Data: credentialsForm{Role: "customer"}})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	form := credentialsForm{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Role:  r.PostFormValue("role"),
	}
	page := render.Page{Title: "Register", Data: form}
	password := r.PostFormValue("password")
	if password != r.PostFormValue("confirm_password") {
		h.render.Fail(w, r, "register", page, dErrors.New(dErrors.CodeValidation, "passwords do not match"))
		return
	}
	_, err := h.service.Register(r.Context(), service.RegisterCommand{
		Name:     form.Name,
		Email:    form.Email,
		Password: password,
		Role:     form.Role,
	})
	if err != nil {
		h.render.Fail(w, r, "register", page, err)
		return
	}
	h.render.RedirectSuccess(w, r, "/login", "Registration successful. Please log in.")
}

type userRow struct {
	*models.User
	BranchName string
}

type usersPage struct {
	Users    []userRow
	Branches []*inventory.Branch
	Roles    []id.Role
}

func (h *Handler) usersPage(ctx context.Context) (usersPage, error) {
	users, err := h.service.ListUsers(ctx)
	if err != nil {
		return usersPage{}, err
	}
	branches, err := h.branches.ListBranches(ctx)
	if err != nil {
		return usersPage{}, err
	}
	names := make(map[id.BranchID]string, len(branches))
	for _, b := range branches {
		names[b.ID] = b.Name
	}
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		row := userRow{User: u}
		if u.BranchID != nil {
			row.BranchName = names[*u.BranchID]
		}
		rows = append(rows, row)
	}
	return usersPage{
		Users:    rows,
		Branches: branches,
		Roles:    []id.Role{id.RoleSuperAdmin, id.RoleManager, id.RoleClerk, id.RoleCustomer, id.RoleTravelCompany},
	}, nil
}

func (h *Handler) handleUsersPage(w http.ResponseWriter, r *http.Request) {
	data, err := h.usersPage(r.Context())
	if err != nil {
		h.render.Fail(w, r, "admin_users", render.Page{Title: "Users", Data: data}, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "admin_users", render.Page{Title: "Users", Data: data})
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.CreateUser(r.Context(), service.CreateUserCommand{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
		BranchID: r.PostFormValue("branch_id"),
	})
	if err != nil {
		h.render.RedirectError(w, r, "/admin/users", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/users", "User "+u.Email+" created.")
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/admin/users", err)
		return
	}
	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		h.render.RedirectError(w, r, "/admin/users", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/admin/users", "User deleted.")
}

func (h *Handler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/stays", err)
		return
	}
	u, err := h.service.UpdateCustomer(r.Context(), userID, r.PostFormValue("name"), r.PostFormValue("email"))
	if err != nil {
		h.render.RedirectError(w, r, "/clerk/stays", err)
		return
	}
	h.render.RedirectSuccess(w, r, "/clerk/stays", "Customer "+u.Name+" updated.")
}
