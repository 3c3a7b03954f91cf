package profile

import (
	"net/url"

	"github.com/fkhayef/profiles/internal/user"
)

// URLs builds canonical profile links
type URLs struct {
	siteURL string
}

// NewURLs roots every link at siteURL, which must end with a slash
func NewURLs(siteURL string) URLs {
	return URLs{siteURL: siteURL}
}

// Profile is the canonical URL of a user's profile
func (u URLs) Profile(owner *user.User) string {
	return u.siteURL + "profile/" + url.PathEscape(owner.Username)
}

// Edit is the URL of the profile edit page
func (u URLs) Edit(owner *user.User) string {
	return u.Profile(owner) + "/edit"
}
