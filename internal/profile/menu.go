package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/profiles/internal/icon"
	"github.com/fkhayef/profiles/internal/user"
	"github.com/fkhayef/profiles/pkg/response"
)

// MenuItem is one entry of a site menu
type MenuItem struct {
	Name      string `json:"name"`
	Href      string `json:"href"`
	Text      string `json:"text"`
	IconURL   string `json:"icon_url,omitempty"`
	Title     string `json:"title"`
	Priority  int    `json:"priority"`
	LinkClass string `json:"link_class,omitempty"`
	ItemClass string `json:"item_class,omitempty"`
}

// MenuHandler serves the menus the profile feature contributes to
type MenuHandler struct {
	icons IconSource
	urls  URLs
	i18n  Translator
}

// NewMenuHandler creates the menu handler
func NewMenuHandler(icons IconSource, urls URLs, i18n Translator) *MenuHandler {
	return &MenuHandler{icons: icons, urls: urls, i18n: i18n}
}

// Routes returns the router for menu endpoints
func (h *MenuHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/topbar", h.Topbar)
	return r
}

// Topbar handles GET /menu/topbar
// @Summary      Topbar menu
// @Description  The signed-in viewer's avatar link to their own profile. Empty for anonymous callers.
// @Tags         menu
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]MenuItem}
// @Router       /menu/topbar [get]
func (h *MenuHandler) Topbar(w http.ResponseWriter, r *http.Request) {
	viewer := user.CallerFromContext(r.Context())
	if viewer == nil {
		response.JSON(w, http.StatusOK, []MenuItem{})
		return
	}

	response.JSON(w, http.StatusOK, []MenuItem{{
		Name:      "profile",
		Href:      h.urls.Profile(viewer),
		Text:      viewer.DisplayName(),
		IconURL:   h.icons.URL(r.Context(), viewer, icon.SizeTopbar),
		Title:     h.i18n.T(r, "profile"),
		Priority:  100,
		LinkClass: "topbar-avatar",
		ItemClass: "avatar avatar-topbar",
	}})
}
