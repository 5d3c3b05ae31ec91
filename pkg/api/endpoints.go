package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hazyhaar/stockroom/pkg/history"
	"github.com/hazyhaar/stockroom/pkg/inventory"
	"github.com/hazyhaar/stockroom/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

type searchReq struct {
	Query string
}

type searchResponse struct {
	Reply   string `json:"reply"`
	Tier    string `json:"tier"`
	Matches int    `json:"matches"`
}

type suggestReq struct {
	Query string
	Limit int
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type datasetInfoResponse struct {
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

type uploadReq struct {
	Filename string
	Data     []byte
	Uploader string
}

type uploadResponse struct {
	Source string `json:"source"`
	Rows   int    `json:"rows"`
}

type uploadsResponse struct {
	Uploads []history.Upload `json:"uploads"`
}

// searchEndpoint runs the full pipeline: tiered match, suggester fallback,
// reply assembly. A missing dataset is answered with the fixed "no data"
// reply rather than an error, since chat transports expect a message either way.
func searchEndpoint(store *inventory.Store, limits inventory.Limits) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*searchReq)
		query := strings.TrimSpace(req.Query)
		if query == "" {
			return nil, fmt.Errorf("empty query")
		}

		ds, err := store.Active()
		if err != nil {
			if errors.Is(err, inventory.ErrNotLoaded) {
				return searchResponse{Reply: inventory.NotLoadedReply(), Tier: string(inventory.TierNone)}, nil
			}
			return nil, err
		}

		result := inventory.Find(ds, query, limits)
		var suggestions []string
		if result.Empty() {
			suggestions = inventory.Suggest(ds, query, limits)
		}
		return searchResponse{
			Reply:   inventory.BuildReply(result, suggestions, limits),
			Tier:    string(result.Tier),
			Matches: result.Total(),
		}, nil
	}
}

func suggestEndpoint(store *inventory.Store, limits inventory.Limits) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*suggestReq)
		if strings.TrimSpace(req.Query) == "" {
			return nil, fmt.Errorf("empty query")
		}
		ds, err := store.Active()
		if err != nil {
			return nil, err
		}
		if req.Limit > 0 {
			limits.SuggestLimit = req.Limit
		}
		suggestions := inventory.Suggest(ds, req.Query, limits)
		if suggestions == nil {
			suggestions = []string{}
		}
		return suggestResponse{Suggestions: suggestions}, nil
	}
}

func datasetInfoEndpoint(store *inventory.Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		ds, err := store.Active()
		if err != nil {
			return nil, err
		}
		return datasetInfoResponse{Source: ds.Source, Rows: ds.Len(), LoadedAt: ds.LoadedAt}, nil
	}
}

// uploadEndpoint attempts a dataset replace and records the attempt in the
// audit trail either way. A failed audit write never fails the request.
func uploadEndpoint(store *inventory.Store, hist *history.DB) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*uploadReq)

		attempt := history.Upload{
			Filename: req.Filename,
			Size:     int64(len(req.Data)),
			Uploader: req.Uploader,
		}
		ds, err := store.ReplaceFromUpload(req.Filename, req.Data)
		if err != nil {
			attempt.Status = history.StatusFailed
			attempt.Error = err.Error()
			recordAttempt(hist, attempt)
			return nil, err
		}

		attempt.Status = history.StatusOK
		attempt.Rows = ds.Len()
		recordAttempt(hist, attempt)
		return uploadResponse{Source: ds.Source, Rows: ds.Len()}, nil
	}
}

func listUploadsEndpoint(hist *history.DB) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		limit, _ := request.(int)
		if hist == nil {
			return uploadsResponse{Uploads: []history.Upload{}}, nil
		}
		uploads, err := hist.List(limit)
		if err != nil {
			return nil, err
		}
		if uploads == nil {
			uploads = []history.Upload{}
		}
		return uploadsResponse{Uploads: uploads}, nil
	}
}

func recordAttempt(hist *history.DB, up history.Upload) {
	if hist == nil {
		return
	}
	if _, err := hist.Record(up); err != nil {
		slog.Warn("upload audit write failed", "filename", up.Filename, "error", err)
	}
}
