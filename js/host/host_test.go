package host

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/js/interp"
	"github.com/kestrelweb/corebrowser/js/parser"
	"github.com/kestrelweb/corebrowser/netfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDocument builds <html><body><p id="greeting" class="lead">hi</p>
// </body></html> without going through the HTML parser.
func newTestDocument() *dom.Document {
	d := dom.NewDocument()
	html := dom.NewElement("html")
	body := dom.NewElement("body")
	p := dom.NewElement("p")
	dom.NodeOf(p).Attrs.Set("id", "greeting")
	dom.NodeOf(p).Attrs.Set("class", "lead")
	p.AddChild(dom.NewText("hi"))
	body.AddChild(p)
	html.AddChild(body)
	d.Root().AddChild(html)
	return d
}

func run(t *testing.T, doc *dom.Document, src string) (interp.Value, *interp.Interp) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	in := interp.New()
	Install(in, doc, netfetch.NewClient())
	v, err := in.Run(prog)
	require.NoError(t, err)
	return v, in
}

func TestConsoleLogAppendsOutput(t *testing.T) {
	_, in := run(t, nil, `console.log("hello", 1, true);`)
	assert.Equal(t, []string{"[JS] hello 1 true"}, in.ConsoleOutput())
}

func TestMathAndJSON(t *testing.T) {
	v, _ := run(t, nil, `Math.floor(3.7) + Math.max(1, 2, 3);`)
	assert.Equal(t, interp.Number(6), v)

	v, _ = run(t, nil, `JSON.parse(JSON.stringify({a: 1, b: [2, 3]})).b[1];`)
	assert.Equal(t, interp.Number(3), v)
}

func TestObjectAndArrayStatics(t *testing.T) {
	v, _ := run(t, nil, `Object.keys({x: 1, y: 2}).length;`)
	assert.Equal(t, interp.Number(2), v)

	v, _ = run(t, nil, `Array.isArray(Array.from("ab"));`)
	assert.Equal(t, interp.Bool(true), v)
}

func TestLocalStoragePersistsWithinRun(t *testing.T) {
	v, _ := run(t, nil, `
		localStorage.setItem("k", "v");
		localStorage.getItem("k");
	`)
	assert.Equal(t, interp.String("v"), v)

	v, _ = run(t, nil, `localStorage.getItem("missing");`)
	assert.Equal(t, interp.Null, v)
}

func TestGlobalNumberParsing(t *testing.T) {
	v, _ := run(t, nil, `parseInt("42px");`)
	assert.Equal(t, interp.Number(42), v)

	v, _ = run(t, nil, `parseFloat("3.14 meters");`)
	assert.Equal(t, interp.Number(3.14), v)

	v, _ = run(t, nil, `encodeURIComponent("a b");`)
	assert.Equal(t, interp.String("a%20b"), v)
}

func TestDocumentGetElementByIdReflectsLiveDom(t *testing.T) {
	doc := newTestDocument()
	v, _ := run(t, doc, `document.getElementById("greeting").textContent;`)
	assert.Equal(t, interp.String("hi"), v)

	v, _ = run(t, doc, `document.getElementById("missing");`)
	assert.Equal(t, interp.Null, v)
}

func TestDocumentQuerySelectorMatchesClass(t *testing.T) {
	doc := newTestDocument()
	v, _ := run(t, doc, `document.querySelector(".lead").getAttribute("id");`)
	assert.Equal(t, interp.String("greeting"), v)
}

func TestCreateElementAppendChildMutatesRealTree(t *testing.T) {
	doc := newTestDocument()
	_, in := run(t, doc, `
		let span = document.createElement("span");
		span.setAttribute("id", "added");
		document.getElementById("greeting").appendChild(span);
	`)
	_ = in
	added := doc.GetElementByID("added")
	require.NotNil(t, added)
	assert.Equal(t, "span", added.Tag)
}

func TestRemoveAttributeAndRemoveChild(t *testing.T) {
	doc := newTestDocument()
	run(t, doc, `
		let greeting = document.getElementById("greeting");
		greeting.removeAttribute("class");
	`)
	greeting := doc.GetElementByID("greeting")
	require.NotNil(t, greeting)
	_, ok := greeting.Attrs.Get("class")
	assert.False(t, ok)
}

func TestFetchReturnsRealResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"greeting":"hi"}`))
	}))
	defer srv.Close()

	prog, err := parser.Parse(`fetch("` + srv.URL + `").__response__.status;`)
	require.NoError(t, err)
	in := interp.New()
	Install(in, nil, netfetch.NewClient())
	v, err := in.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, interp.Number(200), v)

	prog, err = parser.Parse(`fetch("` + srv.URL + `").__response__.__bodyJson__.greeting;`)
	require.NoError(t, err)
	in = interp.New()
	Install(in, nil, netfetch.NewClient())
	v, err = in.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, interp.String("hi"), v)
}

func TestFetchUnreachableHostRejects(t *testing.T) {
	prog, err := parser.Parse(`fetch("http://127.0.0.1:1/nope").__response__.ok;`)
	require.NoError(t, err)
	in := interp.New()
	Install(in, nil, netfetch.NewClient())
	v, err := in.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, interp.Bool(false), v)
}
