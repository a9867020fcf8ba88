// Package account serves the unauthenticated signup, login and invitation routes.
package account

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

type Handler struct {
	svc    *identity.Service
	issuer *auth.Issuer
}

func NewHandler(svc *identity.Service, issuer *auth.Issuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/accept-invitation", h.acceptInvitation)
}

type sessionResponse struct {
	Token   string           `json:"token"`
	User    userResponse     `json:"user"`
	Company *companyResponse `json:"company,omitempty"`
}

type userResponse struct {
	ID       uuid.UUID     `json:"id"`
	TenantID uuid.UUID     `json:"company_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Role     identity.Role `json:"role"`
}

type companyResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	BaseCurrency string    `json:"base_currency"`
}

func (h *Handler) session(w http.ResponseWriter, status int, u *identity.User, t *identity.Tenant) {
	token, err := h.issuer.Issue(u)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := sessionResponse{
		Token: token,
		User:  userResponse{ID: u.ID, TenantID: u.TenantID, Name: u.Name, Email: u.Email, Role: u.Role},
	}

	if t != nil {
		resp.Company = &companyResponse{ID: t.ID, Name: t.Name, BaseCurrency: t.BaseCurrency}
	}

	respond.JSON(w, status, resp)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req identity.SignupParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	u, t, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.session(w, http.StatusCreated, u, t)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.session(w, http.StatusOK, u, nil)
}

type acceptRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	u, err := h.svc.AcceptInvitation(r.Context(), req.Token, req.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.session(w, http.StatusOK, u, nil)
}
