package receipt

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/auth"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
	"github.com/MrJamesThe3rd/outlay/internal/receipt"
)

type Handler struct {
	parser  *receipt.Parser
	maxSize int64
}

func NewHandler(parser *receipt.Parser, maxSize int64) *Handler {
	return &Handler{parser: parser, maxSize: maxSize}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/parse", h.parse)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+1<<20)

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		respond.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		respond.Error(w, apperr.Invalid("receipt", "a receipt image is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxSize+1))
	if err != nil {
		respond.BadRequest(w, "could not read receipt")
		return
	}

	if int64(len(data)) > h.maxSize {
		respond.Error(w, apperr.Invalid("receipt", "file exceeds %d bytes", h.maxSize))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	actor := auth.UserFrom(r.Context())

	parsed, err := h.parser.Parse(r.Context(), actor.TenantID, data, contentType)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, parsed)
}
