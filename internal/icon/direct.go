package icon

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fkhayef/profiles/pkg/response"
)

// DirectHandler streams uploaded icons without touching the user directory.
// Every URL carries lastcache, so responses are cached aggressively.
type DirectHandler struct {
	store  FileStore
	logger zerolog.Logger
}

// NewDirectHandler creates the direct delivery handler
func NewDirectHandler(store FileStore, logger zerolog.Logger) *DirectHandler {
	return &DirectHandler{store: store, logger: logger}
}

// ServeHTTP handles GET /icons/direct
// @Summary      Deliver an uploaded profile icon
// @Description  Streams profile/{guid}{size}.jpg from the owner's storage namespace
// @Tags         icons
// @Produce      jpeg
// @Param        guid query int true "Owner ID"
// @Param        size query string false "Icon size" Enums(tiny, topbar, small, medium, large, master)
// @Param        lastcache query int false "Upload time used for cache busting"
// @Success      200
// @Success      304
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /icons/direct [get]
func (h *DirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	guid, err := strconv.ParseInt(q.Get("guid"), 10, 64)
	if err != nil || guid <= 0 {
		response.BadRequest(w, "Invalid guid")
		return
	}
	size, err := ParseSize(q.Get("size"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	lastcache := q.Get("lastcache")
	if lastcache != "" {
		if _, err := strconv.ParseInt(lastcache, 10, 64); err != nil {
			response.BadRequest(w, "Invalid lastcache")
			return
		}
	}

	f, err := h.store.Open(r.Context(), guid, Filename(guid, size))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			response.NotFound(w, "Icon not found")
			return
		}
		if errors.Is(err, ErrInvalidParameter) {
			response.BadRequest(w, "Invalid icon reference")
			return
		}
		h.logger.Error().Err(err).Int64("user_id", guid).Msg("Failed to open profile icon")
		response.InternalError(w, "Failed to load icon")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", guid).Msg("Failed to stat profile icon")
		response.InternalError(w, "Failed to load icon")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("ETag", fmt.Sprintf(`"%s%d%s"`, lastcache, guid, size))
	if lastcache != "" {
		w.Header().Set("Cache-Control", "public, max-age=15552000, immutable")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=300")
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
