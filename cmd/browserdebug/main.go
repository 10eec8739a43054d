// Command browserdebug is a terminal demo for the browser engine: it loads
// a page, blits the rasterized display list as truecolor/ANSI half-block
// art, and prints the JS console sink below it — the terminal stand-in
// for "the caller blits it to the window" (spec §6), grounded on
// charmbracelet-ultraviolet (a terminal rendering engine in the example
// pack) for its color-profile detection and lipgloss for styled text.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/kestrelweb/corebrowser/browser"
	"github.com/kestrelweb/corebrowser/dom"
	"github.com/kestrelweb/corebrowser/layout"
	"github.com/kestrelweb/corebrowser/netfetch"
	"github.com/kestrelweb/corebrowser/paint"
	"github.com/kestrelweb/corebrowser/style"
)

const dumpSeparator = "----------------------------------------"

func main() {
	var (
		url      = flag.String("url", "", "page URL to load")
		file     = flag.String("file", "", "local HTML file to load instead of -url")
		width    = flag.Int("width", 120, "viewport width in pixels")
		height   = flag.Int("height", 160, "viewport height in pixels")
		dumpTree = flag.Bool("dump", false, "print the DOM/styled/layout trees instead of rendering")
	)
	flag.Parse()

	b := browser.New(*width, *height, netfetch.NewClient())

	var err error
	switch {
	case *file != "":
		data, rerr := os.ReadFile(*file)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, "browserdebug:", rerr)
			os.Exit(1)
		}
		err = b.LoadHTML(string(data))
	case *url != "":
		err = b.LoadURL(*url)
	default:
		fmt.Fprintln(os.Stderr, "browserdebug: one of -url or -file is required")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "browserdebug: load failed:", err)
		os.Exit(1)
	}

	if *dumpTree {
		printTrees(b)
		return
	}

	renderer := paint.NewRenderer(*width, *height)
	renderer.Render(b.GetDisplayList())

	profile := colorprofile.Detect(os.Stdout, os.Environ())
	blit(os.Stdout, renderer, profile)
	printConsole(os.Stdout, b.ConsoleOutput())
}

// blit writes the renderer's packed 0x00RRGGBB pixel buffer as two pixel
// rows per terminal row, using the Unicode upper-half-block character with
// distinct foreground/background colors — the same "two rows, one glyph"
// technique terminal image viewers use. When the detected profile can't
// carry color (Ascii/NoTTY), it falls back to a plain block of spaces so
// the layout shape is still visible without garbling the terminal.
func blit(w io.Writer, r *paint.Renderer, profile colorprofile.Profile) {
	plain := profile == colorprofile.Ascii || profile == colorprofile.NoTTY
	for y := 0; y < r.Height; y += 2 {
		for x := 0; x < r.Width; x++ {
			top := pixelColor(r, x, y)
			bottom := top
			if y+1 < r.Height {
				bottom = pixelColor(r, x, y+1)
			}
			if plain {
				io.WriteString(w, " ")
				continue
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexOf(top))).
				Background(lipgloss.Color(hexOf(bottom)))
			io.WriteString(w, style.Render("▀"))
		}
		io.WriteString(w, "\n")
	}
}

func pixelColor(r *paint.Renderer, x, y int) paint.Color {
	v := r.Buffer[y*r.Width+x]
	return paint.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func hexOf(c paint.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func printConsole(w io.Writer, lines []string) {
	if len(lines) == 0 {
		return
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(lipgloss.Color("#9fb4c7"))
	content := ""
	for i, line := range lines {
		if i > 0 {
			content += "\n"
		}
		content += line
	}
	fmt.Fprintln(w, box.Render(content))
}

func printTrees(b *browser.Browser) {
	fmt.Println("DOM tree")
	fmt.Println(dom.Dump(b.DOMTree()))
	fmt.Println(dumpSeparator)
	fmt.Println("styled tree")
	fmt.Println(style.DumpStyled(b.StyledTree()))
	fmt.Println(dumpSeparator)
	fmt.Println("layout tree")
	fmt.Println(layout.DumpLayout(b.LayoutTree()))
}
