package profile

import "github.com/fkhayef/profiles/internal/user"

// Mode selects which profile page gets rendered
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// OutcomeKind tells the caller what to do with a routed request
type OutcomeKind int

const (
	OutcomeNotFound OutcomeKind = iota
	OutcomeRedirect
	OutcomeRendered
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeRendered:
		return "rendered"
	default:
		return "not_found"
	}
}

// RouteRequest is a profile path split into segments plus the caller.
// A nil Caller is an anonymous request.
type RouteRequest struct {
	Segments []string
	Caller   *user.User
}

// Authenticated reports whether the request has a caller
func (r RouteRequest) Authenticated() bool {
	return r.Caller != nil
}

func (r RouteRequest) segment(i int) (string, bool) {
	if i < len(r.Segments) {
		return r.Segments[i], true
	}
	return "", false
}

// ViewContext is everything a renderer needs, passed explicitly instead of
// through request globals. Username is set only in view mode.
type ViewContext struct {
	Mode     Mode
	Owner    *user.User
	Caller   *user.User
	Username string
}

// Outcome is the terminal result of routing one request
type Outcome struct {
	Kind   OutcomeKind
	Target string
	View   ViewContext
}

// NotFound is returned for unknown users and banned users the caller may not see
func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound}
}

// Redirect sends the caller to target
func Redirect(target string) Outcome {
	return Outcome{Kind: OutcomeRedirect, Target: target}
}

// Rendered renders the owner's profile in the given view context
func Rendered(view ViewContext) Outcome {
	return Outcome{Kind: OutcomeRendered, View: view}
}
