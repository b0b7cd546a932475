package server

import (
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/matzehuels/recipetable/pkg/buildinfo"
	"github.com/matzehuels/recipetable/pkg/cache"
	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/grid"
	"github.com/matzehuels/recipetable/pkg/pipeline"
	"github.com/matzehuels/recipetable/pkg/render/table"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatHTML:  "text/html; charset=utf-8",
	pipeline.FormatJSON:  "application/json",
	pipeline.FormatDebug: "text/plain; charset=utf-8",
	pipeline.FormatText:  "text/plain; charset=utf-8",
	pipeline.FormatDOT:   "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatPNG:   "image/png",
	pipeline.FormatPDF:   "application/pdf",
}

// binaryFormats are not inlined into JSON responses.
var binaryFormats = map[string]bool{
	pipeline.FormatPNG: true,
	pipeline.FormatPDF: true,
}

// RenderRequest is the JSON body of POST /v1/render.
type RenderRequest struct {
	Name     string             `json:"name,omitempty"`
	Source   string             `json:"source"`
	Formats  []string           `json:"formats,omitempty"`
	HTML     *table.HTMLOptions `json:"html,omitempty"`
	Detailed bool               `json:"detailed,omitempty"`
	Scale    float64            `json:"scale,omitempty"`
	Refresh  bool               `json:"refresh,omitempty"`
}

// RenderResponse is the JSON answer to POST /v1/render.
type RenderResponse struct {
	Name       string                 `json:"name"`
	SourceHash string                 `json:"source_hash"`
	LayoutHash string                 `json:"layout_hash"`
	Size       int                    `json:"size"`
	MaxDepth   int                    `json:"max_depth"`
	Grid       *grid.Grid             `json:"grid"`
	Artifacts  map[string]ArtifactRef `json:"artifacts"`
	Cache      CacheStatus            `json:"cache"`
	RequestID  string                 `json:"request_id"`
}

// ArtifactRef points at a rendered artifact. Content is set for text
// formats only.
type ArtifactRef struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Content     string `json:"content,omitempty"`
}

// CacheStatus reports which stages were served from cache.
type CacheStatus struct {
	Layout bool `json:"layout"`
	Render bool `json:"render"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// handleRender accepts either a JSON RenderRequest or, with a format query
// parameter, the raw recipe text; the latter answers with the artifact
// itself.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")

	opts, err := s.readRequest(w, r, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Artifact keys below must see the same defaults as Execute.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if raw != "" {
		w.Header().Set("Content-Type", contentTypes[raw])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifacts[raw])
		return
	}

	resp := RenderResponse{
		Name:       result.Layout.Name,
		SourceHash: result.SourceHash,
		LayoutHash: result.LayoutHash,
		Size:       result.Layout.Size,
		MaxDepth:   result.Layout.MaxDepth,
		Grid:       result.Layout.Grid,
		Artifacts:  make(map[string]ArtifactRef, len(result.Artifacts)),
		Cache: CacheStatus{
			Layout: result.CacheInfo.LayoutHit,
			Render: result.CacheInfo.RenderHit,
		},
		RequestID: RequestID(r.Context()),
	}
	for format, data := range result.Artifacts {
		key := s.runner.ArtifactKey(result.LayoutHash, format, opts)
		ref := ArtifactRef{
			URL:         "/v1/artifacts/" + format + "/" + url.PathEscape(key),
			Key:         key,
			ContentType: contentTypes[format],
			Size:        len(data),
		}
		if !binaryFormats[format] {
			ref.Content = string(data)
		}
		resp.Artifacts[format] = ref
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readRequest(w http.ResponseWriter, r *http.Request, raw string) (pipeline.Options, error) {
	// JSON adds some overhead on top of the source itself.
	limit := int64(s.opts.MaxSourceSize) + 64<<10
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return pipeline.Options{}, errors.New(errors.ErrCodeSourceTooLarge, "request body exceeds %d bytes", limit)
		}
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	opts := pipeline.Options{
		MaxSourceSize: s.opts.MaxSourceSize,
		HTML:          s.opts.HTML,
		Logger:        s.opts.Logger,
	}

	if raw != "" {
		if err := pipeline.ValidateFormat(raw); err != nil {
			return pipeline.Options{}, err
		}
		q := r.URL.Query()
		opts.Name = q.Get("name")
		opts.Source = string(body)
		opts.Formats = []string{raw}
		opts.Detailed = q.Get("detailed") == "true"
		opts.HTML.Standalone = q.Get("standalone") == "true"
		return opts, nil
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput,
				"expected application/json body, or pass ?format= to send recipe text")
		}
	}

	var req RenderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	opts.Name = req.Name
	opts.Source = req.Source
	opts.Formats = req.Formats
	opts.Detailed = req.Detailed
	opts.Scale = req.Scale
	opts.Refresh = req.Refresh
	if req.HTML != nil {
		opts.HTML = *req.HTML
	}
	return opts, nil
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed artifact key"))
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}
	if err := errors.ValidatePath(key); err != nil {
		writeError(w, r, err)
		return
	}
	if !strings.Contains(key, "artifact:"+format+":") {
		writeError(w, r, errors.New(errors.ErrCodeArtifactNotFound, "no %s artifact %q", format, key))
		return
	}

	data, err := cache.Fetch(r.Context(), s.runner.Cache, key)
	if err != nil {
		if stderrors.Is(err, cache.ErrNotFound) {
			writeError(w, r, errors.New(errors.ErrCodeArtifactNotFound, "artifact %q not found or expired", key))
			return
		}
		writeError(w, r, errors.Wrap(errors.ErrCodeCache, err, "fetch artifact"))
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
