package profile

import (
	"context"
	"fmt"

	"github.com/fkhayef/profiles/internal/user"
)

// Directory is the part of the user directory routing depends on
type Directory interface {
	// LookupByUsername returns nil without error when no user matches
	LookupByUsername(ctx context.Context, username string) (*user.User, error)
	HasElevatedPrivilege(caller *user.User) bool
}

// Router turns a profile path into an Outcome
type Router struct {
	dir  Directory
	urls URLs
}

// NewRouter creates a router over the given directory
func NewRouter(dir Directory, urls URLs) *Router {
	return &Router{dir: dir, urls: urls}
}

// Route resolves a request of the form [username[/action]].
//
// Authenticated callers without a username are redirected to their own
// profile. Unknown users, and banned users seen by a caller without elevated
// privilege, yield NotFound. The error is reserved for directory failures.
func (r *Router) Route(ctx context.Context, req RouteRequest) (Outcome, error) {
	var owner *user.User

	identifier, hasIdentifier := req.segment(0)
	if hasIdentifier {
		found, err := r.dir.LookupByUsername(ctx, identifier)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to look up profile owner %q: %w", identifier, err)
		}
		owner = found
	} else if req.Authenticated() {
		return Redirect(r.urls.Profile(req.Caller)), nil
	}

	if owner == nil || (owner.IsBanned() && !r.dir.HasElevatedPrivilege(req.Caller)) {
		return NotFound(), nil
	}

	if action, _ := req.segment(1); action == string(ModeEdit) {
		return Rendered(ViewContext{Mode: ModeEdit, Owner: owner, Caller: req.Caller}), nil
	}

	return Rendered(ViewContext{
		Mode:     ModeView,
		Owner:    owner,
		Caller:   req.Caller,
		Username: identifier,
	}), nil
}
