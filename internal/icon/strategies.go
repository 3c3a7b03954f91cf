package icon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DirectPath is the site-relative path of the direct icon delivery endpoint
const DirectPath = "icons/direct"

// DirectURL builds the cache-busted URL of an uploaded icon. lastcache is the
// only component that depends on the upload time.
func DirectURL(siteURL string, ownerID int64, iconTime time.Time, size Size) string {
	q := url.Values{}
	q.Set("lastcache", strconv.FormatInt(iconTime.Unix(), 10))
	q.Set("guid", strconv.FormatInt(ownerID, 10))
	q.Set("size", string(size))
	return siteURL + DirectPath + "?" + q.Encode()
}

// NewChain builds the standard chain: URLs already set upstream, the user's
// own avatar override, then the uploaded icon.
func NewChain(siteURL string, store FileStore, assets AssetURLs, logger zerolog.Logger) *Resolver {
	return NewResolver(assets,
		CurrentStrategy{},
		AvatarOverrideStrategy{},
		NewGeneratedStrategy(siteURL, store, assets, logger),
	)
}

// CurrentStrategy keeps a URL an upstream handler already supplied
type CurrentStrategy struct{}

func (CurrentStrategy) Name() string { return "current" }

func (CurrentStrategy) Resolve(_ context.Context, req Request) (Resolution, bool) {
	if req.Current == "" {
		return Resolution{}, false
	}
	return Resolution{URL: req.Current, Tier: TierOverride}, true
}

// AvatarOverrideStrategy uses an avatar URL stored on the user record
type AvatarOverrideStrategy struct{}

func (AvatarOverrideStrategy) Name() string { return "avatar_override" }

func (AvatarOverrideStrategy) Resolve(_ context.Context, req Request) (Resolution, bool) {
	if req.Owner == nil || req.Owner.AvatarURL == nil || *req.Owner.AvatarURL == "" {
		return Resolution{}, false
	}
	return Resolution{URL: *req.Owner.AvatarURL, Tier: TierOverride}, true
}

// GeneratedStrategy serves icons the owner uploaded
type GeneratedStrategy struct {
	siteURL string
	store   FileStore
	assets  AssetURLs
	logger  zerolog.Logger
}

// NewGeneratedStrategy creates the uploaded-icon strategy
func NewGeneratedStrategy(siteURL string, store FileStore, assets AssetURLs, logger zerolog.Logger) *GeneratedStrategy {
	return &GeneratedStrategy{siteURL: siteURL, store: store, assets: assets, logger: logger}
}

func (s *GeneratedStrategy) Name() string { return "generated" }

// Resolve checks the upload only when the owner has an icon time. A failed
// check resolves to the fallback default and logs once; a missing file passes.
func (s *GeneratedStrategy) Resolve(ctx context.Context, req Request) (Resolution, bool) {
	owner := req.Owner
	if !owner.HasUploadedIcon() {
		return Resolution{}, false
	}

	exists, err := s.store.Exists(ctx, owner.ID, Filename(owner.ID, req.Size))
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", owner.ID).
			Str("size", string(req.Size)).
			Msgf("Unable to get profile icon for user with GUID %d", owner.ID)
		return Resolution{
			URL:  s.assets.URL(FallbackAssetPath(req.Size)),
			Tier: TierDefaultFallback,
		}, true
	}
	if !exists {
		return Resolution{}, false
	}

	return Resolution{
		URL:  DirectURL(s.siteURL, owner.ID, *owner.IconTime, req.Size),
		Tier: TierGenerated,
	}, true
}

// DefaultStrategy always answers with the never-uploaded default icon
type DefaultStrategy struct {
	assets AssetURLs
}

// NewDefaultStrategy creates the terminal strategy
func NewDefaultStrategy(assets AssetURLs) DefaultStrategy {
	return DefaultStrategy{assets: assets}
}

func (DefaultStrategy) Name() string { return "default" }

func (s DefaultStrategy) Resolve(_ context.Context, req Request) (Resolution, bool) {
	return Resolution{
		URL:  s.assets.URL(DefaultAssetPath(req.Size)),
		Tier: TierDefault,
	}, true
}

// DefaultAssetPath is the static icon shown for users who never uploaded one
func DefaultAssetPath(size Size) string {
	return fmt.Sprintf("icons/user/default%s.gif", size)
}

// FallbackAssetPath is the static icon shown when an upload could not be checked
func FallbackAssetPath(size Size) string {
	return fmt.Sprintf("icons/default/%s.png", size)
}

// ViewRegistrar accepts static views for the asset cache
type ViewRegistrar interface {
	RegisterView(view string) error
}

// RegisterDefaultViews makes both default icon sets servable for every size
func RegisterDefaultViews(r ViewRegistrar) error {
	for _, size := range Sizes {
		if err := r.RegisterView(DefaultAssetPath(size)); err != nil {
			return err
		}
		if err := r.RegisterView(FallbackAssetPath(size)); err != nil {
			return err
		}
	}
	return nil
}
