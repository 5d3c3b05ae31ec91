package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hazyhaar/stockroom/pkg/history"
	"github.com/hazyhaar/stockroom/pkg/inventory"
	"github.com/hazyhaar/stockroom/pkg/kit"
)

// maxUploadBytes bounds dataset uploads; warehouse tables are small.
const maxUploadBytes = 20 << 20

// NewRouter returns an http.Handler with all Stockroom API routes.
// uploadTokens is the allow-list for dataset replacement; an empty list
// disables the check (trusted deployments behind their own gateway).
func NewRouter(store *inventory.Store, hist *history.DB, limits inventory.Limits, uploadTokens []string) http.Handler {
	mux := http.NewServeMux()
	h := &handler{
		search:      searchEndpoint(store, limits),
		suggest:     suggestEndpoint(store, limits),
		datasetInfo: datasetInfoEndpoint(store),
		upload:      uploadEndpoint(store, hist),
		listUploads: listUploadsEndpoint(hist),
		store:       store,
		tokens:      uploadTokens,
	}

	mux.HandleFunc("GET /v1/search/{query}", h.handleSearch)
	mux.HandleFunc("GET /v1/suggest/{query}", h.handleSuggest)
	mux.HandleFunc("GET /v1/dataset", h.handleDatasetInfo)
	mux.HandleFunc("POST /v1/dataset", h.handleUpload)
	mux.HandleFunc("GET /v1/uploads", h.handleListUploads)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	search      kit.Endpoint
	suggest     kit.Endpoint
	datasetInfo kit.Endpoint
	upload      kit.Endpoint
	listUploads kit.Endpoint
	store       *inventory.Store
	tokens      []string
}

// --- search ---

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	if strings.TrimSpace(query) == "" {
		// Empty or whitespace-only queries get no reply at all.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp, err := h.search(r.Context(), &searchReq{Query: query})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- suggest ---

func (h *handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	if strings.TrimSpace(query) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	resp, err := h.suggest(r.Context(), &suggestReq{Query: query, Limit: limit})
	if err != nil {
		if errors.Is(err, inventory.ErrNotLoaded) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- dataset info ---

func (h *handler) handleDatasetInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := h.datasetInfo(r.Context(), nil)
	if err != nil {
		if errors.Is(err, inventory.ErrNotLoaded) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- dataset replace ---

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	uploader, ok := h.authorize(r)
	if !ok {
		writeError(w, http.StatusForbidden, "dataset replacement not allowed for this caller")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	ctx := kit.WithUploader(r.Context(), uploader)
	resp, err := h.upload(ctx, &uploadReq{
		Filename: header.Filename,
		Data:     data,
		Uploader: uploader,
	})
	if err != nil {
		writeUploadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeUploadError maps core validation failures to HTTP statuses. Missing
// columns are surfaced verbatim, sorted, so the uploader can fix the sheet.
func writeUploadError(w http.ResponseWriter, err error) {
	var missing *inventory.MissingColumnsError
	if errors.As(err, &missing) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":           missing.Error(),
			"missing_columns": missing.Columns,
		})
		return
	}
	if errors.Is(err, inventory.ErrNotSpreadsheet) {
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	var unreadable *inventory.UnreadableSourceError
	if errors.As(err, &unreadable) {
		writeError(w, http.StatusBadRequest, unreadable.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// authorize checks the bearer token against the allow-list. The core never
// sees this decision; it is transport policy only.
func (h *handler) authorize(r *http.Request) (string, bool) {
	if len(h.tokens) == 0 {
		return "anonymous", true
	}
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return "", false
	}
	for _, allowed := range h.tokens {
		if token == allowed {
			return token, true
		}
	}
	return "", false
}

// --- uploads audit ---

func (h *handler) handleListUploads(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	resp, err := h.listUploads(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status string `json:"status"`
	Loaded bool   `json:"loaded"`
	Rows   int    `json:"rows"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if ds, err := h.store.Active(); err == nil {
		resp.Loaded = true
		resp.Rows = ds.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
