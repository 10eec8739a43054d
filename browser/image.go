package browser

import (
	"encoding/base64"
	"strings"
	"sync"

	"github.com/kestrelweb/corebrowser/netfetch"
)

// imageCache resolves an <img> src (http(s) URL or data: URL) to decoded
// RGBA8 pixels, memoizing by the original src string — the Go analogue of
// the original Browser's `images: HashMap<String, ImageData>` plus
// load_image_if_needed/parse_data_url/decode_image_data.
type imageCache struct {
	client *netfetch.Client
	mu     sync.Mutex
	cache  map[string]*netfetch.Image
}

func newImageCache(client *netfetch.Client) *imageCache {
	return &imageCache{client: client, cache: make(map[string]*netfetch.Image)}
}

// fetch returns a closure bound to baseURL, matching
// paint.BuildDisplayList's fetchImage signature. A failed decode or fetch
// leaves the image slot empty (spec §7: "Image decode failures leave the
// image slot empty").
func (ic *imageCache) fetch(baseURL string) func(src string) ([]byte, int, int) {
	return func(src string) ([]byte, int, int) {
		img := ic.resolve(baseURL, src)
		if img == nil {
			return nil, 0, 0
		}
		return img.Pixels, img.Width, img.Height
	}
}

func (ic *imageCache) resolve(baseURL, src string) *netfetch.Image {
	ic.mu.Lock()
	if img, ok := ic.cache[src]; ok {
		ic.mu.Unlock()
		return img
	}
	ic.mu.Unlock()

	var img *netfetch.Image
	switch {
	case strings.HasPrefix(src, "data:"):
		img = decodeDataURL(src)
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		if data, err := ic.client.GetBytes(src); err == nil {
			img, _ = netfetch.DecodeImage(data)
		} else {
			tracer().Errorf("failed to fetch image %s: %v", src, err)
		}
	default:
		if resolved := resolveURL(baseURL, src); resolved != src {
			if data, err := ic.client.GetBytes(resolved); err == nil {
				img, _ = netfetch.DecodeImage(data)
			}
		}
	}

	ic.mu.Lock()
	ic.cache[src] = img
	ic.mu.Unlock()
	return img
}

// decodeDataURL decodes a "data:[mediatype][;base64],<data>" URL, the
// only scheme-specific format spec §6's image collaborator needs to
// understand directly rather than delegating to the fetch client.
func decodeDataURL(url string) *netfetch.Image {
	rest := strings.TrimPrefix(url, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil
	}
	meta, data := rest[:comma], rest[comma+1:]

	var raw []byte
	if strings.Contains(meta, "base64") {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil
		}
		raw = decoded
	} else {
		raw = []byte(data)
	}

	img, err := netfetch.DecodeImage(raw)
	if err != nil {
		return nil
	}
	return img
}
