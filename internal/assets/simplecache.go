// Package assets serves versioned static views such as the default profile
// icons. URLs embed the lastcache version, so a deploy that bumps it
// invalidates every client copy at once.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fkhayef/profiles/pkg/response"
)

//go:embed static
var embedded embed.FS

// ViewType is the only view type this service renders
const ViewType = "default"

// SimpleCache maps registered view paths to long-lived, versioned URLs
type SimpleCache struct {
	siteURL   string
	lastcache int64
	files     fs.FS
	logger    zerolog.Logger

	mu    sync.RWMutex
	views map[string]struct{}
}

// NewSimpleCache creates a cache serving the embedded static views
func NewSimpleCache(siteURL string, lastcache int64, logger zerolog.Logger) *SimpleCache {
	files, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return &SimpleCache{
		siteURL:   siteURL,
		lastcache: lastcache,
		files:     files,
		logger:    logger,
		views:     map[string]struct{}{},
	}
}

// RegisterView makes a view path servable through the cache. It fails when
// the view has no backing file.
func (c *SimpleCache) RegisterView(view string) error {
	view = strings.TrimPrefix(view, "/")
	if _, err := fs.Stat(c.files, view); err != nil {
		return fmt.Errorf("register simplecache view %q: %w", view, err)
	}
	c.mu.Lock()
	c.views[view] = struct{}{}
	c.mu.Unlock()
	return nil
}

// Registered reports whether the view was registered
func (c *SimpleCache) Registered(view string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.views[view]
	return ok
}

// URL returns the versioned URL of a view. Unregistered views still get a
// URL; they just 404 until registered.
func (c *SimpleCache) URL(view string) string {
	return fmt.Sprintf("%scache/%d/%s/%s", c.siteURL, c.lastcache, ViewType, strings.TrimPrefix(view, "/"))
}

// Routes serves GET /{lastcache}/{viewtype}/*
func (c *SimpleCache) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{lastcache}/{viewtype}/*", c.serve)
	return r
}

func (c *SimpleCache) serve(w http.ResponseWriter, r *http.Request) {
	if _, err := strconv.ParseInt(chi.URLParam(r, "lastcache"), 10, 64); err != nil {
		response.NotFound(w, "Unknown cache version")
		return
	}
	if chi.URLParam(r, "viewtype") != ViewType {
		response.NotFound(w, "Unknown view type")
		return
	}

	view := path.Clean(chi.URLParam(r, "*"))
	if !c.Registered(view) {
		response.NotFound(w, "View not found")
		return
	}

	data, err := fs.ReadFile(c.files, view)
	if err != nil {
		c.logger.Error().Err(err).Str("view", view).Msg("Failed to read registered view")
		response.InternalError(w, "Failed to read view")
		return
	}

	etag := fmt.Sprintf(`"%d-%s"`, c.lastcache, view)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if ct := mime.TypeByExtension(path.Ext(view)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=15552000")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
