package currency

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/currency"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
	"github.com/MrJamesThe3rd/outlay/internal/validation"
)

type Handler struct {
	converter *currency.Converter
}

func NewHandler(converter *currency.Converter) *Handler {
	return &Handler{converter: converter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/convert", h.convert)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string][]string{"currencies": h.converter.Supported(r.Context())})
}

type conversionResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Converted decimal.Decimal `json:"converted"`
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from := strings.ToUpper(q.Get("from"))
	to := strings.ToUpper(q.Get("to"))

	var errs []error

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil || !amount.IsPositive() {
		errs = append(errs, apperr.Invalid("amount", "must be a positive number"))
	}

	if !currency.IsValid(from) {
		errs = append(errs, apperr.Invalid("from", "must be a valid ISO 4217 currency code"))
	}

	if !currency.IsValid(to) {
		errs = append(errs, apperr.Invalid("to", "must be a valid ISO 4217 currency code"))
	}

	if err := validation.Merge(errs...); err != nil {
		respond.Error(w, err)
		return
	}

	conv, err := h.converter.Convert(r.Context(), amount, from, to)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, conversionResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Rate:      conv.Rate,
		Converted: conv.Amount,
	})
}
