package imports

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
)

type Handler struct {
	importSvc  *importer.Service
	invoiceSvc *invoice.Service
	maxUpload  int64
}

func NewHandler(importSvc *importer.Service, invoiceSvc *invoice.Service, maxUpload int64) *Handler {
	return &Handler{
		importSvc:  importSvc,
		invoiceSvc: invoiceSvc,
		maxUpload:  maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Post("/upload", h.upload)
}

type importRequest struct {
	Filename string `json:"filename"`
	Persist  bool   `json:"persist"`
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Filename == "" {
		http.Error(w, "filename is required", http.StatusBadRequest)
		return
	}

	// Only names inside the import directory may be requested.
	if !filepath.IsLocal(req.Filename) {
		http.Error(w, "filename must be relative to the import directory", http.StatusBadRequest)
		return
	}

	res, err := h.importSvc.Import(r.Context(), req.Filename)
	if err != nil {
		writeImportError(w, r, err)
		return
	}

	h.respond(w, r, req.Filename, res, req.Persist)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	persist, _ := strconv.ParseBool(r.FormValue("persist"))

	res, err := h.importSvc.ImportReader(r.Context(), header.Filename, file)
	if err != nil {
		writeImportError(w, r, err)
		return
	}

	h.respond(w, r, header.Filename, res, persist)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, file string, res *importer.Result, persist bool) {
	saved := 0

	if persist {
		records, err := h.invoiceSvc.SaveBatch(r.Context(), res.OK)
		if err != nil {
			logging.FromContext(r.Context()).Error("failed to save invoices", "file", file, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		saved = len(records)
	}

	status := http.StatusOK
	if saved > 0 {
		status = http.StatusCreated
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(toImportResponse(file, res, saved)); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func writeImportError(w http.ResponseWriter, r *http.Request, err error) {
	var parseErr *csvfile.ParseError

	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, fs.ErrNotExist):
		status = http.StatusNotFound
	case errors.As(err, &parseErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	logging.FromContext(r.Context()).Warn("import failed", "status", status, "error", err)
	http.Error(w, err.Error(), status)
}
