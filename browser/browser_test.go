package browser

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kestrelweb/corebrowser/netfetch"
	"github.com/kestrelweb/corebrowser/paint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHTMLProducesDisplayList(t *testing.T) {
	b := New(800, 600, netfetch.NewClient())
	err := b.LoadHTML(`<html><body><p>hello world</p></body></html>`)
	require.NoError(t, err)

	dl := b.GetDisplayList()
	require.NotEmpty(t, dl.Commands)
	var found bool
	for _, cmd := range dl.Commands {
		if cmd.Kind == paint.CmdText && cmd.Text == "hello world" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadHTMLAppliesInlineStylesheet(t *testing.T) {
	b := New(800, 600, netfetch.NewClient())
	err := b.LoadHTML(`<html><head><style>.red{background-color:red}</style></head>
		<body><div class="red">x</div></body></html>`)
	require.NoError(t, err)

	dl := b.GetDisplayList()
	var found bool
	for _, cmd := range dl.Commands {
		if cmd.Kind == paint.CmdSolidColor && cmd.Color == (paint.Color{255, 0, 0, 255}) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadHTMLRunsInlineScriptAndLogsConsole(t *testing.T) {
	b := New(800, 600, netfetch.NewClient())
	err := b.LoadHTML(`<html><body><script>console.log("booted");</script></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, b.ConsoleOutput(), "[JS] booted")
}

func TestLoadURLFetchesExternalScriptAndStylesheet(t *testing.T) {
	var scriptHits, styleHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app.js":
			scriptHits++
			w.Write([]byte(`console.log("external ran");`))
		case "/app.css":
			styleHits++
			w.Write([]byte(`.b{background-color:blue}`))
		case "/":
			fmt.Fprint(w, `<html><head>
				<link rel="stylesheet" href="/app.css">
				<script src="/app.js"></script>
			</head><body><div class="b">x</div></body></html>`)
		}
	}))
	defer srv.Close()

	b := New(800, 600, netfetch.NewClient())
	require.NoError(t, b.LoadURL(srv.URL+"/"))

	assert.Equal(t, 1, scriptHits)
	assert.Equal(t, 1, styleHits)
	assert.Contains(t, b.ConsoleOutput(), "[JS] external ran")

	var found bool
	for _, cmd := range b.GetDisplayList().Commands {
		if cmd.Kind == paint.CmdSolidColor && cmd.Color == (paint.Color{0, 0, 255, 255}) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestHistoryNavigation(t *testing.T) {
	pages := map[string]string{
		"/a": `<html><body><p>page a</p></body></html>`,
		"/b": `<html><body><p>page b</p></body></html>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pages[r.URL.Path]))
	}))
	defer srv.Close()

	b := New(800, 600, netfetch.NewClient())
	require.NoError(t, b.LoadURL(srv.URL+"/a"))
	require.NoError(t, b.LoadURL(srv.URL+"/b"))

	assert.True(t, b.CanGoBack())
	assert.False(t, b.CanGoForward())

	require.NoError(t, b.GoBack())
	assert.Equal(t, srv.URL+"/a", b.CurrentURL())
	assert.True(t, b.CanGoForward())

	require.NoError(t, b.GoForward())
	assert.Equal(t, srv.URL+"/b", b.CurrentURL())
}

func TestCookies(t *testing.T) {
	b := New(800, 600, netfetch.NewClient())
	b.SetCookie("session", "abc123", "example.com")

	c, ok := b.GetCookie("session")
	require.True(t, ok)
	assert.Equal(t, "abc123", c.Value)
	assert.Equal(t, "example.com", c.Domain)

	_, ok = b.GetCookie("missing")
	assert.False(t, ok)
}

func TestResizeAffectsLayout(t *testing.T) {
	b := New(100, 100, netfetch.NewClient())
	b.Resize(1200, 800)
	require.NoError(t, b.LoadHTML(`<html><body><p>hi</p></body></html>`))
	assert.NotEmpty(t, b.GetDisplayList().Commands)
}
