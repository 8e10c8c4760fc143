package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/oceaninsight/internal/api/shared"
	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/service"
)

// EntryHandler handles memory-entry HTTP requests
type EntryHandler struct {
	entryService service.EntryService
	logger       *slog.Logger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService service.EntryService, logger *slog.Logger) *EntryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntryHandler{
		entryService: entryService,
		logger:       logger.With(slog.String("component", "entry_handler")),
	}
}

// Routes mounts the entry endpoints on r.
func (h *EntryHandler) Routes(r chi.Router) {
	r.Get("/", h.ListEntries)
	r.Post("/", h.CreateEntry)
	r.Get("/stats", h.GetStats)
	r.Get("/export", h.ExportEntries)
	r.Post("/import", h.ImportEntries)
	r.Get("/{id}", h.GetEntry)
	r.Put("/{id}", h.UpdateEntry)
	r.Delete("/{id}", h.DeleteEntry)
	r.Post("/{id}/tags", h.AddTag)
	r.Delete("/{id}/tags/{tag}", h.RemoveTag)
}

// writeResult writes data with status, or the error response. A persistence
// warning is not an error: the result is written with the warning header.
func (h *EntryHandler) writeResult(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	if err != nil && !service.IsPersistenceWarning(err) {
		HandleAPIError(w, r, err, "")
		return
	}
	if err != nil {
		shared.MarkPersistenceWarning(w, r, err)
	}

	if data == nil {
		w.WriteHeader(status)
		return
	}
	shared.RespondWithJSON(w, r, status, data)
}

// decodeAndValidate reads the JSON body into req and validates it,
// writing a 400 response on failure.
func (h *EntryHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// CreateEntry handles POST /api/entries requests
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.entryService.CreateEntry(r.Context(), service.CreateEntryParams{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Category: domain.Category(req.Category),
		Status:   domain.EntryStatus(req.Status),
	})
	if entry != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Info("memory entry created",
			slog.String("entry_id", entry.ID.String()))
		h.writeResult(w, r, http.StatusCreated, entryToResponse(entry), err)
		return
	}
	h.writeResult(w, r, http.StatusCreated, nil, err)
}

// GetEntry handles GET /api/entries/{id} requests
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.entryService.GetEntry(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entryToResponse(entry))
}

// UpdateEntry handles PUT /api/entries/{id} requests
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	params := service.UpdateEntryParams{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if req.Category != nil {
		c := domain.Category(*req.Category)
		params.Category = &c
	}
	if req.Status != nil {
		s := domain.EntryStatus(*req.Status)
		params.Status = &s
	}

	entry, err := h.entryService.UpdateEntry(r.Context(), id, params)
	if entry == nil {
		h.writeResult(w, r, http.StatusOK, nil, err)
		return
	}
	h.writeResult(w, r, http.StatusOK, entryToResponse(entry), err)
}

// DeleteEntry handles DELETE /api/entries/{id} requests
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	err := h.entryService.DeleteEntry(r.Context(), id)
	h.writeResult(w, r, http.StatusNoContent, nil, err)
}

// ListEntries handles GET /api/entries requests.
// Query parameters: q, category, status, sort.
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.entryService.ListEntries(r.Context(), service.ListQuery{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entriesToResponse(entries))
}

// AddTag handles POST /api/entries/{id}/tags requests
func (h *EntryHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddTagRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.entryService.AddTag(r.Context(), id, req.Tag)
	if entry == nil {
		h.writeResult(w, r, http.StatusOK, nil, err)
		return
	}
	h.writeResult(w, r, http.StatusOK, entryToResponse(entry), err)
}

// RemoveTag handles DELETE /api/entries/{id}/tags/{tag} requests
func (h *EntryHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	tag, err := getPathString(r, "tag")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entry, err := h.entryService.RemoveTag(r.Context(), id, tag)
	if entry == nil {
		h.writeResult(w, r, http.StatusOK, nil, err)
		return
	}
	h.writeResult(w, r, http.StatusOK, entryToResponse(entry), err)
}

// GetStats handles GET /api/entries/stats requests
func (h *EntryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.entryService.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(stats))
}

// ExportEntries handles GET /api/entries/export requests.
// The body is the collection exactly as it is persisted.
func (h *EntryHandler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	blob, err := h.entryService.Export(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="ocean-insight-memories.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to write export",
			slog.String("error", err.Error()))
	}
}

// ImportEntries handles POST /api/entries/import requests.
// With ?replace=true the body replaces the collection; otherwise it is merged.
func (h *EntryHandler) ImportEntries(w http.ResponseWriter, r *http.Request) {
	replace := false
	if v := r.URL.Query().Get("replace"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("replace", "must be a boolean", domain.ErrValidation), "")
			return
		}
		replace = parsed
	}

	body, err := shared.ReadBody(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	n, err := h.entryService.Import(r.Context(), body, replace)
	h.writeResult(w, r, http.StatusOK, ImportResponse{Imported: n}, err)
}
