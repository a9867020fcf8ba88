package importcsv

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
	"github.com/MrJamesThe3rd/outlay/internal/importer"
)

const maxStatementSize = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type rowDTO struct {
	Line        int             `json:"line"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Category    string          `json:"category,omitempty"`
	PaidBy      string          `json:"paid_by,omitempty"`
}

type previewResponse struct {
	Profile string              `json:"profile"`
	Rows    []rowDTO            `json:"rows"`
	Errors  []importer.RowError `json:"errors"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	file, ok := openStatement(w, r)
	if !ok {
		return
	}
	defer file.Close()

	st, err := importer.Parse(file)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := previewResponse{
		Profile: st.Profile,
		Rows:    make([]rowDTO, len(st.Rows)),
		Errors:  st.Errors,
	}

	for i, row := range st.Rows {
		resp.Rows[i] = rowDTO{
			Line:        row.Line,
			Date:        row.Date.Format(time.DateOnly),
			Description: row.Description,
			Amount:      row.Amount,
			Currency:    row.Currency,
			Category:    row.Category,
			PaidBy:      row.PaidBy,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	file, ok := openStatement(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.svc.Import(r.Context(), auth.UserFrom(r.Context()), file)
	if err != nil {
		respond.Error(w, err)
		return
	}

	status := http.StatusCreated
	if len(res.Imported) == 0 {
		status = http.StatusOK
	}

	respond.JSON(w, status, res)
}

func openStatement(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStatementSize+1<<20)

	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, apperr.Invalid("file", "a CSV statement is required"))
		return nil, false
	}

	return file, true
}
