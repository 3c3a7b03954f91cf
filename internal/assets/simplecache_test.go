package assets

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *SimpleCache {
	t.Helper()
	return NewSimpleCache("https://social.example.com/", 1700000000, zerolog.Nop())
}

func TestURL(t *testing.T) {
	c := newTestCache(t)

	assert.Equal(t,
		"https://social.example.com/cache/1700000000/default/icons/user/defaultsmall.gif",
		c.URL("icons/user/defaultsmall.gif"))
	assert.Equal(t,
		"https://social.example.com/cache/1700000000/default/icons/default/tiny.png",
		c.URL("/icons/default/tiny.png"))
}

func TestRegisterViewRequiresBackingFile(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.RegisterView("icons/user/defaultmaster.gif"))
	assert.True(t, c.Registered("icons/user/defaultmaster.gif"))

	assert.Error(t, c.RegisterView("icons/user/defaultgiant.gif"))
	assert.False(t, c.Registered("icons/user/defaultgiant.gif"))
}

func TestServeRegisteredView(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.RegisterView("icons/user/defaultsmall.gif"))
	h := c.Routes()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/1700000000/default/icons/user/defaultsmall.gif", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/gif", rr.Header().Get("Content-Type"))
	assert.Equal(t, "GIF89a", rr.Body.String()[:6])

	etag := rr.Header().Get("ETag")
	req := httptest.NewRequest(http.MethodGet, "/1700000000/default/icons/user/defaultsmall.gif", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotModified, rr.Code)
}

func TestServeRejectsUnregisteredAndMalformed(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.RegisterView("icons/default/small.png"))
	h := c.Routes()

	for _, target := range []string{
		"/1700000000/default/icons/default/large.png",
		"/latest/default/icons/default/small.png",
		"/1700000000/mobile/icons/default/small.png",
	} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code, target)
	}
}
