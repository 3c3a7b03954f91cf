package icon

import (
	"context"

	"github.com/fkhayef/profiles/internal/user"
)

// Tier identifies which fallback level produced an icon URL
type Tier int

const (
	TierNone Tier = iota
	// TierOverride is a URL some earlier handler or the user record already supplied
	TierOverride
	// TierGenerated is an uploaded icon served by the direct delivery endpoint
	TierGenerated
	// TierDefault is the static icon for users who never uploaded one
	TierDefault
	// TierDefaultFallback is the static icon used when the uploaded icon could not be checked
	TierDefaultFallback
)

func (t Tier) String() string {
	switch t {
	case TierOverride:
		return "override"
	case TierGenerated:
		return "generated"
	case TierDefault:
		return "default"
	case TierDefaultFallback:
		return "default_fallback"
	default:
		return "none"
	}
}

// Request asks for the icon of one owner at one size. Current carries a URL
// an upstream handler may already have chosen.
type Request struct {
	Owner   *user.User
	Size    Size
	Current string
}

// Resolution is the URL to render plus the tier it came from
type Resolution struct {
	URL  string `json:"url"`
	Tier Tier   `json:"-"`
}

// Strategy is one link of the resolution chain
type Strategy interface {
	// Name identifies the strategy in logs
	Name() string

	// Resolve returns ok=false to hand the request to the next strategy
	Resolve(ctx context.Context, req Request) (res Resolution, ok bool)
}

// AssetURLs maps a static asset path to a cache friendly URL
type AssetURLs interface {
	URL(path string) string
}

// Resolver walks its strategies in order; the first non-empty URL wins.
// When every strategy passes, the never-uploaded default is used, so a
// Resolver always produces a URL.
type Resolver struct {
	strategies []Strategy
	fallback   Strategy
}

// NewResolver creates a resolver over an explicit chain
func NewResolver(assets AssetURLs, strategies ...Strategy) *Resolver {
	return &Resolver{
		strategies: strategies,
		fallback:   NewDefaultStrategy(assets),
	}
}

// Resolve returns the icon URL for the request. It never fails.
func (r *Resolver) Resolve(ctx context.Context, req Request) Resolution {
	if !req.Size.Valid() {
		req.Size = DefaultSize
	}

	for _, s := range r.strategies {
		if res, ok := s.Resolve(ctx, req); ok && res.URL != "" {
			return res
		}
	}

	res, _ := r.fallback.Resolve(ctx, req)
	return res
}

// URL is a convenience for callers that only need the string
func (r *Resolver) URL(ctx context.Context, owner *user.User, size Size) string {
	return r.Resolve(ctx, Request{Owner: owner, Size: size}).URL
}

// All resolves every size for the owner
func (r *Resolver) All(ctx context.Context, owner *user.User) map[Size]string {
	out := make(map[Size]string, len(Sizes))
	for _, size := range Sizes {
		out[size] = r.URL(ctx, owner, size)
	}
	return out
}
