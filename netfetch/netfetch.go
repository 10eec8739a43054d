// Package netfetch is the browser's sole window onto the outside world,
// grounded on original_source/crates/network/src/lib.rs's HttpClient: a
// synchronous, blocking fetch path plus an image decoder, fronted by the
// TTL/ETag/LRU cache and ad-block/same-origin checks spec §5 and §6
// describe as the network collaborator's contract. js/host's `fetch`
// binding and browser's resource loading both go through a Client here
// rather than reaching for net/http directly, so caching and ad-blocking
// apply uniformly.
package netfetch

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kestrelweb/corebrowser/browsererr"
	"github.com/npillmayer/schuko/tracing"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

func tracer() tracing.Trace { return tracing.Select("corebrowser.netfetch") }

// Response is a fetched resource, already through the cache/redirect layer.
type Response struct {
	URL        string
	Status     int
	StatusText string
	Headers    http.Header
	Body       []byte
}

// Image is a decoded raster image in spec's RGBA8 interleaved layout,
// matching the original's LoadedImage.
type Image struct {
	Width  int
	Height int
	Pixels []byte
}

// Client fetches resources over HTTP, honoring the cache, the ad-block
// list and a connect/read timeout split (spec §5: 5s connect, 30s total).
type Client struct {
	http    *http.Client
	cache   *Cache
	adblock *AdblockList
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		cache:   NewCache(500),
		adblock: NewAdblockList(nil),
	}
}

// Adblock returns the client's blocklist, so a caller (browser.Browser)
// can populate it from a loaded EasyList-style rule set.
func (c *Client) Adblock() *AdblockList { return c.adblock }

// Get performs http_fetch(url): a blocking GET with redirect following
// (net/http's client already caps redirects at 10 and resolves a
// relative Location header against the current request URL, exactly the
// behavior spec §6 asks for), going through the TTL/ETag cache first.
func (c *Client) Get(rawURL string) (*Response, error) {
	if c.adblock.Blocks(rawURL) {
		return nil, browsererr.NewRequestFailed("blocked: " + rawURL)
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, browsererr.NewInvalidURL(rawURL)
	}

	if cached, fresh := c.cache.Lookup(rawURL); fresh {
		tracer().Debugf("cache hit for %s", rawURL)
		return cached, nil
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, browsererr.NewInvalidURL(rawURL)
	}
	req.Header.Set("User-Agent", "corebrowser/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	if entry := c.cache.entryFor(rawURL); entry != nil {
		if entry.etag != "" {
			req.Header.Set("If-None-Match", entry.etag)
		}
		if entry.lastModified != "" {
			req.Header.Set("If-Modified-Since", entry.lastModified)
		}
	}

	tracer().Debugf("fetching %s", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "Client.Timeout") || strings.Contains(err.Error(), "timeout") {
			return nil, browsererr.NewTimeout(rawURL)
		}
		return nil, browsererr.NewRequestFailed(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		if revalidated := c.cache.Revalidate(rawURL); revalidated != nil {
			return revalidated, nil
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, browsererr.NewIoError(err.Error())
	}

	out := &Response{
		URL:        resp.Request.URL.String(),
		Status:     resp.StatusCode,
		StatusText: resp.Status,
		Headers:    resp.Header,
		Body:       body,
	}
	c.cache.Store(rawURL, out)
	return out, nil
}

// GetBytes performs http_fetch_bytes(url) for callers that only want the
// body (images, fonts): it goes through Get, so the same ad-block check
// and cache apply, and returns just the response body.
func (c *Client) GetBytes(rawURL string) ([]byte, error) {
	resp, err := c.Get(rawURL)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DecodeImage performs image_decode(bytes): decoded via the standard
// library's jpeg/png/gif registrations plus golang.org/x/image's webp and
// bmp decoders (blank-imported above), normalized to RGBA8 via image/draw
// the way every format-agnostic decode path in a Go image pipeline does.
func DecodeImage(data []byte) (*Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, browsererr.NewImageError(err.Error())
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return &Image{Width: b.Dx(), Height: b.Dy(), Pixels: rgba.Pix}, nil
}
