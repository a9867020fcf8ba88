package user

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

type Handler struct {
	svc *identity.Service
}

func NewHandler(svc *identity.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/me", h.me)
	r.Get("/team", h.team)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(identity.RoleAdmin))

		r.Get("/", h.list)
		r.Post("/", h.add)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.deactivate)
		r.Post("/{id}/invitation", h.invite)
	})
}

type userResponse struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Role       identity.Role `json:"role"`
	ManagerID  *uuid.UUID    `json:"manager_id,omitempty"`
	Department string        `json:"department,omitempty"`
	IsActive   bool          `json:"is_active"`
	Invited    bool          `json:"invited"`
	LastLogin  *time.Time    `json:"last_login,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

func toResponse(u *identity.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		ManagerID:  u.ManagerID,
		Department: u.Department,
		IsActive:   u.IsActive,
		Invited:    u.InvitationToken != nil,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}

func toResponseList(users []*identity.User) []userResponse {
	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toResponse(u)
	}

	return resp
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, toResponse(auth.UserFrom(r.Context())))
}

func (h *Handler) team(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Team(r.Context(), auth.UserFrom(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(users))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFrom(r.Context())
	q := r.URL.Query()

	filter := identity.UserFilter{TenantID: actor.TenantID, Search: q.Get("search")}

	if s := q.Get("role"); s != "" {
		filter.Role = new(identity.Role(s))
	}

	if s := q.Get("department"); s != "" {
		filter.Department = new(s)
	}

	users, err := h.svc.ListUsers(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(users))
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req identity.AddUserParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	u, err := h.svc.AddUser(r.Context(), auth.UserFrom(r.Context()), req)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(u))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	var req identity.UpdateUserParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), auth.UserFrom(r.Context()), id, req)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.DeactivateUser(r.Context(), auth.UserFrom(r.Context()), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invite(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.SendInvitation(r.Context(), auth.UserFrom(r.Context()), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
