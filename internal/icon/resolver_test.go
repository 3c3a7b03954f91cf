package icon

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/profiles/internal/user"
)

const testSite = "https://social.example.com/"

type stubAssets struct{}

func (stubAssets) URL(path string) string {
	return testSite + "cache/1700000000/default/" + path
}

type stubStore struct {
	exists bool
	err    error
	checks int
}

func (s *stubStore) Exists(context.Context, int64, string) (bool, error) {
	s.checks++
	return s.exists, s.err
}

func (s *stubStore) Open(context.Context, int64, string) (*os.File, error) {
	return nil, os.ErrNotExist
}

func uploadedAt(unix int64) *time.Time {
	t := time.Unix(unix, 0).UTC()
	return &t
}

func newTestResolver(store FileStore, logs *bytes.Buffer) *Resolver {
	return NewChain(testSite, store, stubAssets{}, zerolog.New(logs))
}

func logLines(buf *bytes.Buffer) []string {
	trimmed := strings.TrimSpace(buf.String())
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestResolveNeverUploadedSkipsStorage(t *testing.T) {
	store := &stubStore{exists: true}
	var logs bytes.Buffer
	r := newTestResolver(store, &logs)

	res := r.Resolve(context.Background(), Request{Owner: &user.User{ID: 5}, Size: SizeSmall})

	assert.Equal(t, TierDefault, res.Tier)
	assert.Equal(t, testSite+"cache/1700000000/default/icons/user/defaultsmall.gif", res.URL)
	assert.Zero(t, store.checks)
	assert.Empty(t, logLines(&logs))
}

func TestResolveGeneratedIcon(t *testing.T) {
	store := &stubStore{exists: true}
	r := newTestResolver(store, &bytes.Buffer{})

	owner := &user.User{ID: 42, IconTime: uploadedAt(1700000123)}
	res := r.Resolve(context.Background(), Request{Owner: owner, Size: SizeLarge})

	assert.Equal(t, TierGenerated, res.Tier)
	u, err := url.Parse(res.URL)
	require.NoError(t, err)
	assert.Equal(t, "/icons/direct", u.Path)
	assert.Equal(t, "1700000123", u.Query().Get("lastcache"))
	assert.Equal(t, "42", u.Query().Get("guid"))
	assert.Equal(t, "large", u.Query().Get("size"))
}

func TestResolveMissingUploadFallsToDefault(t *testing.T) {
	store := &stubStore{exists: false}
	var logs bytes.Buffer
	r := newTestResolver(store, &logs)

	owner := &user.User{ID: 42, IconTime: uploadedAt(1700000123)}
	res := r.Resolve(context.Background(), Request{Owner: owner, Size: SizeTiny})

	assert.Equal(t, TierDefault, res.Tier)
	assert.True(t, strings.HasSuffix(res.URL, "icons/user/defaulttiny.gif"))
	assert.Equal(t, 1, store.checks)
	assert.Empty(t, logLines(&logs))
}

func TestResolveStorageErrorUsesFallbackAndLogsOnce(t *testing.T) {
	store := &stubStore{err: ErrInvalidParameter}
	var logs bytes.Buffer
	r := newTestResolver(store, &logs)

	owner := &user.User{ID: 77, IconTime: uploadedAt(1700000123)}
	res := r.Resolve(context.Background(), Request{Owner: owner, Size: SizeMedium})

	assert.Equal(t, TierDefaultFallback, res.Tier)
	assert.Equal(t, testSite+"cache/1700000000/default/icons/default/medium.png", res.URL)

	lines := logLines(&logs)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"level":"error"`)
	assert.Contains(t, lines[0], `"user_id":77`)
}

func TestResolveUnexpectedStorageErrorUsesFallback(t *testing.T) {
	store := &stubStore{err: errors.New("permission denied")}
	var logs bytes.Buffer
	r := newTestResolver(store, &logs)

	owner := &user.User{ID: 78, IconTime: uploadedAt(1700000123)}
	res := r.Resolve(context.Background(), Request{Owner: owner, Size: SizeTopbar})

	assert.Equal(t, TierDefaultFallback, res.Tier)
	assert.Len(t, logLines(&logs), 1)
}

func TestResolveOverrideWinsOverUpload(t *testing.T) {
	store := &stubStore{exists: true}
	r := newTestResolver(store, &bytes.Buffer{})

	owner := &user.User{ID: 42, IconTime: uploadedAt(1700000123)}
	res := r.Resolve(context.Background(), Request{
		Owner:   owner,
		Size:    SizeSmall,
		Current: "https://gravatar.example/avatar/abc",
	})

	assert.Equal(t, TierOverride, res.Tier)
	assert.Equal(t, "https://gravatar.example/avatar/abc", res.URL)
	assert.Zero(t, store.checks)
}

func TestResolveStoredAvatarOverride(t *testing.T) {
	store := &stubStore{exists: true}
	r := newTestResolver(store, &bytes.Buffer{})

	avatar := "https://cdn.example/alice.png"
	owner := &user.User{ID: 42, AvatarURL: &avatar, IconTime: uploadedAt(1700000123)}
	res := r.Resolve(context.Background(), Request{Owner: owner, Size: SizeSmall})

	assert.Equal(t, TierOverride, res.Tier)
	assert.Equal(t, avatar, res.URL)
}

func TestResolveIsIdempotent(t *testing.T) {
	store := &stubStore{exists: true}
	r := newTestResolver(store, &bytes.Buffer{})
	owner := &user.User{ID: 42, IconTime: uploadedAt(1700000123)}
	req := Request{Owner: owner, Size: SizeMaster}

	assert.Equal(t, r.Resolve(context.Background(), req), r.Resolve(context.Background(), req))
}

func TestResolveCacheBustingOnlyChangesLastcache(t *testing.T) {
	store := &stubStore{exists: true}
	r := newTestResolver(store, &bytes.Buffer{})
	ctx := context.Background()

	before := r.URL(ctx, &user.User{ID: 42, IconTime: uploadedAt(1700000123)}, SizeSmall)
	after := r.URL(ctx, &user.User{ID: 42, IconTime: uploadedAt(1700009999)}, SizeSmall)
	require.NotEqual(t, before, after)

	b, err := url.Parse(before)
	require.NoError(t, err)
	a, err := url.Parse(after)
	require.NoError(t, err)

	assert.Equal(t, b.Scheme, a.Scheme)
	assert.Equal(t, b.Host, a.Host)
	assert.Equal(t, b.Path, a.Path)

	bq, aq := b.Query(), a.Query()
	assert.Equal(t, "1700000123", bq.Get("lastcache"))
	assert.Equal(t, "1700009999", aq.Get("lastcache"))
	bq.Del("lastcache")
	aq.Del("lastcache")
	assert.Equal(t, bq, aq)
}

func TestResolveInvalidSizeUsesDefaultSize(t *testing.T) {
	r := newTestResolver(&stubStore{}, &bytes.Buffer{})

	res := r.Resolve(context.Background(), Request{Owner: &user.User{ID: 1}, Size: Size("enormous")})
	assert.True(t, strings.HasSuffix(res.URL, "icons/user/defaultmedium.gif"))
}

func TestResolveWithoutOwner(t *testing.T) {
	r := newTestResolver(&stubStore{exists: true}, &bytes.Buffer{})

	res := r.Resolve(context.Background(), Request{Size: SizeSmall})
	assert.Equal(t, TierDefault, res.Tier)
}

func TestAllCoversEverySize(t *testing.T) {
	r := newTestResolver(&stubStore{}, &bytes.Buffer{})

	all := r.All(context.Background(), &user.User{ID: 1})
	assert.Len(t, all, len(Sizes))
	for _, size := range Sizes {
		assert.NotEmpty(t, all[size])
	}
}

type recordingRegistrar struct {
	views []string
}

func (r *recordingRegistrar) RegisterView(view string) error {
	r.views = append(r.views, view)
	return nil
}

func TestRegisterDefaultViews(t *testing.T) {
	reg := &recordingRegistrar{}
	require.NoError(t, RegisterDefaultViews(reg))

	assert.Len(t, reg.views, 2*len(Sizes))
	assert.Contains(t, reg.views, "icons/user/defaulttopbar.gif")
	assert.Contains(t, reg.views, "icons/default/master.png")
}
