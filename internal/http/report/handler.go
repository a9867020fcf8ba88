package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
	"github.com/MrJamesThe3rd/outlay/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.summary)
	r.Post("/download", h.download)
}

type reportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type expenseLine struct {
	ID          uuid.UUID       `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
}

type submitterResponse struct {
	UserID   uuid.UUID       `json:"user_id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Total    decimal.Decimal `json:"total"`
	Expenses []expenseLine   `json:"expenses"`
}

type summaryResponse struct {
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	Currency   string              `json:"currency"`
	Count      int                 `json:"count"`
	Total      decimal.Decimal     `json:"total"`
	Submitters []submitterResponse `json:"submitters"`
	Text       string              `json:"text"`
}

func toSummaryResponse(sum *report.Summary) summaryResponse {
	resp := summaryResponse{
		StartDate:  sum.Period.From.Format(time.DateOnly),
		EndDate:    sum.Period.To.Format(time.DateOnly),
		Currency:   sum.Currency,
		Count:      sum.Count,
		Total:      sum.Total,
		Submitters: make([]submitterResponse, 0, len(sum.Submitters)),
		Text:       sum.Text(nil),
	}

	for _, sub := range sum.Submitters {
		sr := submitterResponse{
			UserID:   sub.UserID,
			Name:     sub.Name,
			Email:    sub.Email,
			Total:    sub.Total,
			Expenses: make([]expenseLine, 0, len(sub.Expenses)),
		}

		for _, e := range sub.Expenses {
			line := expenseLine{
				ID:          e.ID,
				Date:        e.Date.Format(time.DateOnly),
				Description: e.Description,
				Category:    string(e.Category),
				BaseAmount:  e.BaseAmount,
			}

			if e.Receipt != nil {
				line.ReceiptURL = e.Receipt.URL
			}

			sr.Expenses = append(sr.Expenses, line)
		}

		resp.Submitters = append(resp.Submitters, sr)
	}

	return resp
}

func parsePeriod(r *http.Request) (report.Period, error) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return report.Period{}, apperr.Invalid("body", "invalid request body")
	}

	var period report.Period

	if req.StartDate != "" {
		d, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return period, apperr.Invalid("start_date", "must be a date in YYYY-MM-DD format")
		}

		period.From = d
	}

	if req.EndDate != "" {
		d, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return period, apperr.Invalid("end_date", "must be a date in YYYY-MM-DD format")
		}

		period.To = d
	}

	return period, nil
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	sum, err := h.svc.Summary(r.Context(), auth.UserFrom(r.Context()), period)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.WriteZip(r.Context(), auth.UserFrom(r.Context()), period, &buf); err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"report_%s_%s.zip\"",
		period.From.Format("20060102"), period.To.Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write report archive", "error", err)
	}
}
