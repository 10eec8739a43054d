package browser

import (
	"strings"

	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/netfetch"
)

// collectScripts walks doc for <script> elements in document order,
// splitting them into inline source and external URLs — the Go
// equivalent of the original's extract_scripts, but driven off the real
// parsed tree instead of re-scanning the HTML text for "<script"/">"/
// "</script>" by hand.
func collectScripts(doc *dom.Document) (inline []string, external []string) {
	for _, el := range doc.FindAll(func(n *dom.Node) bool { return n.Tag == "script" }) {
		if src, ok := el.Attrs.Get("src"); ok && src != "" {
			external = append(external, src)
			continue
		}
		if text := strings.TrimSpace(el.TextContent()); text != "" {
			inline = append(inline, text)
		}
	}
	return inline, external
}

// collectStylesheets concatenates every inline <style> block and every
// <link rel="stylesheet" href="..."> (fetched blockingly, same network
// collaborator as scripts and images) into one CSS source, in document
// order, so the cascade sees one unified rule set.
func collectStylesheets(doc *dom.Document, baseURL string, client *netfetch.Client) string {
	var b strings.Builder
	for _, el := range doc.FindAll(func(n *dom.Node) bool { return n.Tag == "style" || n.Tag == "link" }) {
		switch el.Tag {
		case "style":
			b.WriteString(el.TextContent())
			b.WriteString("\n")
		case "link":
			rel, _ := el.Attrs.Get("rel")
			href, ok := el.Attrs.Get("href")
			if !ok || !strings.EqualFold(rel, "stylesheet") {
				continue
			}
			resp, err := client.Get(resolveURL(baseURL, href))
			if err != nil {
				tracer().Errorf("failed to fetch stylesheet %s: %v", href, err)
				continue
			}
			b.Write(resp.Body)
			b.WriteString("\n")
		}
	}
	return b.String()
}
