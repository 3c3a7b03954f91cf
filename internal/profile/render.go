package profile

import (
	"context"
	"net/http"

	"github.com/fkhayef/profiles/internal/icon"
	"github.com/fkhayef/profiles/internal/user"
	"github.com/fkhayef/profiles/pkg/response"
)

// Renderer produces the page body for a rendered outcome
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, view ViewContext)
}

// IconSource resolves avatar URLs for rendering
type IconSource interface {
	URL(ctx context.Context, owner *user.User, size icon.Size) string
	All(ctx context.Context, owner *user.User) map[icon.Size]string
}

// OwnerView is the public part of a profile owner
type OwnerView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Banned   bool   `json:"banned"`
}

// Page is the rendered profile payload
type Page struct {
	Mode     Mode                 `json:"mode"`
	Username string               `json:"username,omitempty"`
	URL      string               `json:"url"`
	EditURL  string               `json:"edit_url,omitempty"`
	CanEdit  bool                 `json:"can_edit"`
	Owner    OwnerView            `json:"owner"`
	Icons    map[icon.Size]string `json:"icons"`
}

// JSONRenderer renders profile pages as API responses
type JSONRenderer struct {
	icons IconSource
	urls  URLs
}

// NewJSONRenderer creates the default renderer
func NewJSONRenderer(icons IconSource, urls URLs) *JSONRenderer {
	return &JSONRenderer{icons: icons, urls: urls}
}

// BuildPage assembles the payload for a view context
func (j *JSONRenderer) BuildPage(ctx context.Context, view ViewContext) Page {
	owner := view.Owner
	canEdit := view.Caller != nil && (view.Caller.ID == owner.ID || view.Caller.IsAdmin)

	page := Page{
		Mode:     view.Mode,
		Username: view.Username,
		URL:      j.urls.Profile(owner),
		CanEdit:  canEdit,
		Owner: OwnerView{
			ID:       owner.ID,
			Username: owner.Username,
			Name:     owner.DisplayName(),
			Banned:   owner.IsBanned(),
		},
		Icons: j.icons.All(ctx, owner),
	}
	if canEdit {
		page.EditURL = j.urls.Edit(owner)
	}
	return page
}

// Render implements Renderer
func (j *JSONRenderer) Render(w http.ResponseWriter, r *http.Request, view ViewContext) {
	response.JSON(w, http.StatusOK, j.BuildPage(r.Context(), view))
}
