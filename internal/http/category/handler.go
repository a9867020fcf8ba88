package category

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Get("/mappings", h.mappings)
	r.With(auth.RequireRole(identity.RoleAdmin, identity.RoleManager)).Post("/mappings", h.learn)
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string][]category.Category{"categories": category.All()})
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFrom(r.Context())

	c, err := h.svc.Suggest(r.Context(), actor.TenantID, r.URL.Query().Get("merchant"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]category.Category{"category": c})
}

type mappingResponse struct {
	ID              uuid.UUID         `json:"id"`
	MerchantPattern string            `json:"merchant_pattern"`
	Category        category.Category `json:"category"`
	CreatedAt       time.Time         `json:"created_at"`
}

func toResponse(m *category.Mapping) mappingResponse {
	return mappingResponse{ID: m.ID, MerchantPattern: m.MerchantPattern, Category: m.Category, CreatedAt: m.CreatedAt}
}

func (h *Handler) mappings(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFrom(r.Context())

	mappings, err := h.svc.Mappings(r.Context(), actor.TenantID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]mappingResponse, len(mappings))
	for i, m := range mappings {
		resp[i] = toResponse(m)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type learnRequest struct {
	MerchantPattern string            `json:"merchant_pattern"`
	Category        category.Category `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	actor := auth.UserFrom(r.Context())

	m, err := h.svc.Learn(r.Context(), actor.TenantID, req.MerchantPattern, req.Category)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(m))
}
