package profile

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fkhayef/profiles/internal/user"
	"github.com/fkhayef/profiles/pkg/response"
)

// FlashErrorCookie carries a one-shot error message across the not-found redirect
const FlashErrorCookie = "flash_error"

// Translator localizes message keys for a request
type Translator interface {
	T(r *http.Request, key string) string
}

// Handler serves /profile/*
type Handler struct {
	router   *Router
	renderer Renderer
	i18n     Translator
	fallback string
	logger   zerolog.Logger
}

// NewHandler wires the router to HTTP. fallback is where not-found requests are sent.
func NewHandler(router *Router, renderer Renderer, i18n Translator, fallback string, logger zerolog.Logger) *Handler {
	return &Handler{router: router, renderer: renderer, i18n: i18n, fallback: fallback, logger: logger}
}

// Routes returns the router for profile pages
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Profile)
	r.Get("/*", h.Profile)
	return r
}

// Profile handles GET /profile/{username}[/{action}]
// @Summary      Show a user profile
// @Description  Renders a profile in view mode, or edit mode when the action is "edit". Without a username, signed-in callers are redirected to their own profile. Unknown or banned users redirect to the fallback page with a flash message.
// @Tags         profile
// @Produce      json
// @Param        username path string true "Username (case-sensitive)"
// @Param        action path string false "edit"
// @Success      200 {object} response.APIResponse{data=Page}
// @Success      302
// @Failure      500 {object} response.APIResponse
// @Router       /profile/{username}/{action} [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	segments, err := splitSegments(chi.URLParam(r, "*"))
	if err != nil {
		h.notFound(w, r)
		return
	}
	req := RouteRequest{
		Segments: segments,
		Caller:   user.CallerFromContext(r.Context()),
	}

	outcome, err := h.router.Route(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Strs("segments", req.Segments).Msg("Failed to route profile request")
		response.InternalError(w, "Failed to load profile")
		return
	}

	switch outcome.Kind {
	case OutcomeRedirect:
		http.Redirect(w, r, outcome.Target, http.StatusFound)
	case OutcomeRendered:
		h.renderer.Render(w, r, outcome.View)
	default:
		h.notFound(w, r)
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashErrorCookie,
		Value:    url.QueryEscape(h.i18n.T(r, "profile.notfound")),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.fallback, http.StatusFound)
}

// splitSegments turns "alice/edit" into ["alice", "edit"] and decodes each
// segment. chi matches on the raw path, so the wildcard may still be escaped.
// Empty paths have no segments.
func splitSegments(rest string) ([]string, error) {
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil, nil
	}
	segments := strings.Split(rest, "/")
	for i, seg := range segments {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, fmt.Errorf("malformed profile path segment %q: %w", seg, err)
		}
		segments[i] = decoded
	}
	return segments, nil
}
