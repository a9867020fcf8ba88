package expense

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
)

type Handler struct {
	svc            *expense.Service
	maxReceiptSize int64
}

func NewHandler(svc *expense.Service, maxReceiptSize int64) *Handler {
	return &Handler{svc: svc, maxReceiptSize: maxReceiptSize}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.submit)
	r.Get("/", h.listMine)
	r.Get("/all", h.listTenant)
	r.Get("/team", h.listTeam)
	r.Get("/pending", h.pending)
	r.Get("/{id}", h.get)
	r.Get("/{id}/rule", h.applicableRule)
	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/reject", h.reject)
	r.Post("/{id}/decision", h.decide)
}

type submitRequest struct {
	Description string            `json:"description"`
	Category    category.Category `json:"category"`
	Date        string            `json:"date"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	PaidBy      string            `json:"paid_by"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseSubmit(w, r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	res, err := h.svc.Submit(r.Context(), auth.UserFrom(r.Context()), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, submitResponse{
		Expense:  toResponse(res.Expense),
		Warnings: res.Warnings,
	})
}

// parseSubmit accepts either a JSON body or a multipart form carrying an optional
// "receipt" file.
func (h *Handler) parseSubmit(w http.ResponseWriter, r *http.Request) (expense.SubmitParams, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var req submitRequest

	var upload *expense.Upload

	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxReceiptSize+1<<20)

		if err := r.ParseMultipartForm(h.maxReceiptSize); err != nil {
			return expense.SubmitParams{}, apperr.Invalid("body", "invalid multipart form: %v", err)
		}

		req.Description = r.FormValue("description")
		req.Category = category.Category(r.FormValue("category"))
		req.Date = r.FormValue("date")
		req.Currency = r.FormValue("currency")
		req.PaidBy = r.FormValue("paid_by")

		amount, err := decimal.NewFromString(r.FormValue("amount"))
		if err != nil {
			return expense.SubmitParams{}, apperr.Invalid("amount", "must be a decimal number")
		}

		req.Amount = amount

		upload, err = h.readUpload(r, "receipt")
		if err != nil {
			return expense.SubmitParams{}, err
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return expense.SubmitParams{}, apperr.Invalid("body", "invalid JSON: %v", err)
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return expense.SubmitParams{}, apperr.Invalid("date", "must be formatted as YYYY-MM-DD")
	}

	return expense.SubmitParams{
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
		Amount:      req.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		PaidBy:      req.PaidBy,
		Receipt:     upload,
	}, nil
}

func (h *Handler) readUpload(r *http.Request, field string) (*expense.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}

		return nil, apperr.Invalid(field, "could not read upload: %v", err)
	}
	defer file.Close()

	if header.Size > h.maxReceiptSize {
		return nil, apperr.Invalid(field, "file exceeds %d bytes", h.maxReceiptSize)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperr.Invalid(field, "could not read upload: %v", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &expense.Upload{FileName: header.Filename, ContentType: contentType, Data: data}, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	e, err := h.svc.Get(r.Context(), auth.UserFrom(r.Context()), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) applicableRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	ru, err := h.svc.ApplicableRule(r.Context(), auth.UserFrom(r.Context()), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"rule": toRuleResponse(ru)})
}

type decisionRequest struct {
	Decision expense.Decision `json:"decision"`
	Comments string           `json:"comments"`
	Reason   string           `json:"reason"`
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.decideWith(w, r, expense.Approve)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.decideWith(w, r, expense.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	h.decideWith(w, r, "")
}

// decideWith records a decision. A non-empty fixed decision overrides the body.
func (h *Handler) decideWith(w http.ResponseWriter, r *http.Request, fixed expense.Decision) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	var req decisionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respond.BadRequest(w, err.Error())
			return
		}
	}

	if fixed != "" {
		req.Decision = fixed
	}

	e, err := h.svc.Decide(r.Context(), auth.UserFrom(r.Context()), id, expense.DecideParams{
		Decision: req.Decision,
		Comments: req.Comments,
		Reason:   req.Reason,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseQuery(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	list, err := h.svc.ListMine(r.Context(), auth.UserFrom(r.Context()), filter, page)
	h.writeList(w, list, err)
}

func (h *Handler) listTenant(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseQuery(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	list, err := h.svc.ListTenant(r.Context(), auth.UserFrom(r.Context()), filter, page)
	h.writeList(w, list, err)
}

func (h *Handler) listTeam(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseQuery(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	list, err := h.svc.ListTeam(r.Context(), auth.UserFrom(r.Context()), filter, page)
	h.writeList(w, list, err)
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	_, page, err := parseQuery(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	list, err := h.svc.PendingFor(r.Context(), auth.UserFrom(r.Context()), page)
	h.writeList(w, list, err)
}

func (h *Handler) writeList(w http.ResponseWriter, list *expense.List, err error) {
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toListResponse(list))
}

func parseQuery(r *http.Request) (expense.Filter, expense.Page, error) {
	q := r.URL.Query()

	filter := expense.Filter{
		Status:     expense.Status(q.Get("status")),
		Category:   category.Category(q.Get("category")),
		Department: q.Get("department"),
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, expense.Page{}, apperr.Invalid("start_date", "must be formatted as YYYY-MM-DD")
		}

		filter.From = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, expense.Page{}, apperr.Invalid("end_date", "must be formatted as YYYY-MM-DD")
		}

		filter.To = new(t)
	}

	var page expense.Page

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return filter, page, apperr.Invalid("page", "must be a number")
		}

		page.Page = n
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return filter, page, apperr.Invalid("limit", "must be a number")
		}

		page.Limit = n
	}

	return filter, page, nil
}
