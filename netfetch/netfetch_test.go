package netfetch

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetCachesWithinTTL(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	c := NewClient()
	r1, err := c.Get(srv.URL)
	require.NoError(t, err)
	r2, err := c.Get(srv.URL)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, string(r1.Body), string(r2.Body))
}

func TestClientGetRevalidatesOn304(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		w.Header().Set("ETag", `"v1"`)
		if n > 1 && r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	c := NewClient()
	first, err := c.Get(srv.URL)
	require.NoError(t, err)

	// force the entry stale so the second Get actually round-trips and
	// exercises the conditional-GET / 304 revalidation path rather than
	// short-circuiting on the fresh-TTL cache hit.
	entry := c.cache.entryFor(srv.URL)
	require.NotNil(t, entry)
	entry.expiresAt = entry.expiresAt.Add(-time.Hour)

	second, err := c.Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, string(first.Body), string(second.Body))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestCacheStoreHonorsNoStoreAndMaxAge(t *testing.T) {
	cache := NewCache(10)

	noStore := &Response{Headers: http.Header{"Cache-Control": []string{"no-store"}}, Body: []byte("x")}
	cache.Store("http://a", noStore)
	_, ok := cache.Lookup("http://a")
	assert.False(t, ok)

	maxAge := &Response{Headers: http.Header{"Cache-Control": []string{"max-age=3600"}}, Body: []byte("y")}
	cache.Store("http://b", maxAge)
	cached, ok := cache.Lookup("http://b")
	require.True(t, ok)
	assert.Equal(t, "y", string(cached.Body))
}

func TestCacheStoreSkipsOversizedBody(t *testing.T) {
	cache := NewCache(10)
	big := &Response{Headers: http.Header{}, Body: make([]byte, maxBodySize+1)}
	cache.Store("http://big", big)
	_, ok := cache.Lookup("http://big")
	assert.False(t, ok)
}

func TestAdblockListBlocksMatchingSubstring(t *testing.T) {
	list := NewAdblockList([]string{"ads.example.com"})
	assert.True(t, list.Blocks("https://ads.example.com/banner.js"))
	assert.False(t, list.Blocks("https://example.com/app.js"))

	var nilList *AdblockList
	assert.False(t, nilList.Blocks("https://ads.example.com/banner.js"))
}

func TestClientGetBlockedURLFails(t *testing.T) {
	c := NewClient()
	c.Adblock().patterns = []string{"blocked.test"}
	_, err := c.Get("http://blocked.test/x")
	assert.Error(t, err)
}

func TestSameOrigin(t *testing.T) {
	assert.True(t, SameOrigin("https://example.com/a", "https://example.com/b"))
	assert.False(t, SameOrigin("https://example.com/a", "http://example.com/a"))
	assert.False(t, SameOrigin("https://example.com/a", "https://other.com/a"))
	assert.False(t, SameOrigin("not a url", "https://example.com"))
}

func TestDecodeImageRoundTrips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 1, color.RGBA{0, 255, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	decoded, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Width)
	assert.Equal(t, 2, decoded.Height)
	assert.Len(t, decoded.Pixels, 2*2*4)
}

func TestDecodeImageInvalidBytes(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"))
	assert.Error(t, err)
}
