package paint

import (
	"github.com/mattn/go-runewidth"
)

// Renderer paints a DisplayList into a packed 0x00RRGGBB pixel buffer
// (spec §4.6's "software renderer owns a packed pixel buffer").
type Renderer struct {
	Width, Height int
	Buffer        []uint32
}

// NewRenderer allocates a renderer with a white background, matching the
// original's default canvas color.
func NewRenderer(width, height int) *Renderer {
	buf := make([]uint32, width*height)
	for i := range buf {
		buf[i] = 0xFFFFFF
	}
	return &Renderer{Width: width, Height: height, Buffer: buf}
}

// Clear fills the whole buffer with c.
func (r *Renderer) Clear(c Color) {
	v := c.ToU32()
	for i := range r.Buffer {
		r.Buffer[i] = v
	}
}

// Render executes every command in dl against the buffer, in order.
func (r *Renderer) Render(dl *DisplayList) {
	for _, cmd := range dl.Commands {
		switch cmd.Kind {
		case CmdSolidColor:
			r.fillRect(cmd.Rect, cmd.Color)
		case CmdRoundedRect:
			r.fillRoundedRect(cmd.Rect, cmd.Color, cmd.Radius)
		case CmdBorder:
			r.drawBorder(cmd.Rect, cmd.Color, cmd.Border)
		case CmdText:
			r.drawText(cmd)
		case CmdImage:
			r.drawImage(cmd)
		case CmdLine:
			r.drawLine(cmd.X1, cmd.Y1, cmd.X2, cmd.Y2, cmd.Color)
		}
	}
}

func (r *Renderer) setPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return
	}
	idx := y*r.Width + x
	if c.A == 255 {
		r.Buffer[idx] = c.ToU32()
		return
	}
	if c.A == 0 {
		return
	}
	bg := r.Buffer[idx]
	bgColor := Color{R: uint8(bg >> 16), G: uint8(bg >> 8), B: uint8(bg), A: 255}
	r.Buffer[idx] = c.BlendOver(bgColor).ToU32()
}

func (r *Renderer) fillRect(rect Rect, c Color) {
	x0, y0 := maxInt(int(rect.X), 0), maxInt(int(rect.Y), 0)
	x1, y1 := minInt(int(rect.X+rect.W), r.Width), minInt(int(rect.Y+rect.H), r.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.setPixel(x, y, c)
		}
	}
}

// fillRoundedRect excludes the quarter-circle corners outside radius
// (spec §4.6's RoundedRect command).
func (r *Renderer) fillRoundedRect(rect Rect, c Color, radius float64) {
	x0, y0 := maxInt(int(rect.X), 0), maxInt(int(rect.Y), 0)
	x1, y1 := minInt(int(rect.X+rect.W), r.Width), minInt(int(rect.Y+rect.H), r.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			px := float64(x) - rect.X
			py := float64(y) - rect.Y
			if !insideRoundedRect(px, py, rect.W, rect.H, radius) {
				continue
			}
			r.setPixel(x, y, c)
		}
	}
}

func insideRoundedRect(px, py, w, h, radius float64) bool {
	switch {
	case px < radius && py < radius:
		dx, dy := radius-px, radius-py
		return dx*dx+dy*dy <= radius*radius
	case px > w-radius && py < radius:
		dx, dy := px-(w-radius), radius-py
		return dx*dx+dy*dy <= radius*radius
	case px < radius && py > h-radius:
		dx, dy := radius-px, py-(h-radius)
		return dx*dx+dy*dy <= radius*radius
	case px > w-radius && py > h-radius:
		dx, dy := px-(w-radius), py-(h-radius)
		return dx*dx+dy*dy <= radius*radius
	default:
		return true
	}
}

// drawBorder fills each of the four edge strips (spec §4.6's Border
// command); corner mitering and per-side styles are not modeled.
func (r *Renderer) drawBorder(rect Rect, c Color, w EdgeWidths) {
	if w.Top > 0 {
		r.fillRect(Rect{X: rect.X, Y: rect.Y, W: rect.W, H: w.Top}, c)
	}
	if w.Bottom > 0 {
		r.fillRect(Rect{X: rect.X, Y: rect.Y + rect.H - w.Bottom, W: rect.W, H: w.Bottom}, c)
	}
	if w.Left > 0 {
		r.fillRect(Rect{X: rect.X, Y: rect.Y, W: w.Left, H: rect.H}, c)
	}
	if w.Right > 0 {
		r.fillRect(Rect{X: rect.X + rect.W - w.Right, Y: rect.Y, W: w.Right, H: rect.H}, c)
	}
}

// drawText renders a bitmap glyph approximation: a cell of
// (font-size*0.6) x font-size per rune, advanced by go-runewidth.RuneWidth
// for double-width runes, with underline drawn as a 1px line beneath the
// baseline when requested (spec §4.6's Text command).
func (r *Renderer) drawText(cmd Command) {
	charW := cmd.FontSize * 0.6
	charH := cmd.FontSize
	isBold := cmd.FontWeight >= 700

	cursorX := cmd.X
	cursorY := cmd.Y
	for _, ch := range cmd.Text {
		advance := charW
		if runewidth.RuneWidth(ch) > 1 {
			advance = charW * 2
		}
		if ch == ' ' {
			cursorX += advance
			continue
		}
		r.drawGlyph(ch, int(cursorX), int(cursorY), int(advance), int(charH), cmd.Color, isBold)
		cursorX += advance
	}
	if cmd.Underline {
		underlineY := cursorY + charH + 2
		r.drawLine(cmd.X, underlineY, cursorX, underlineY, cmd.Color)
	}
}

// drawGlyph paints a simplified letterform for a handful of recognizable
// shapes and an outline+midline block for everything else, matching the
// original's "simple character rendering" strategy.
func (r *Renderer) drawGlyph(ch rune, x, y, w, h int, c Color, bold bool) {
	thickness := 1
	if bold {
		thickness = 2
	}
	switch {
	case ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9':
		upper := ch
		if ch >= 'a' && ch <= 'z' {
			upper = ch - ('a' - 'A')
		}
		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				if glyphPixel(upper, dx, dy, w, h, thickness) {
					r.setPixel(x+dx, y+dy, c)
				}
			}
		}
	case ch == '.':
		r.drawDot(x, y, w, h, c)
	case ch == ',':
		size := minInt(w, h) / 4
		for dy := 0; dy < size+2; dy++ {
			r.setPixel(x+w/2, y+h-size+dy, c)
		}
	case ch == '-':
		for dx := 0; dx < w; dx++ {
			r.setPixel(x+dx, y+h/2, c)
		}
	case ch == ':':
		size := minInt(w, h) / 5
		for dy := 0; dy < size; dy++ {
			for dx := 0; dx < size; dx++ {
				r.setPixel(x+w/2-size/2+dx, y+h/3+dy, c)
				r.setPixel(x+w/2-size/2+dx, y+2*h/3+dy, c)
			}
		}
	default:
		for dy := h / 4; dy < 3*h/4; dy++ {
			for dx := w / 4; dx < 3*w/4; dx++ {
				r.setPixel(x+dx, y+dy, c)
			}
		}
	}
}

func (r *Renderer) drawDot(x, y, w, h int, c Color) {
	size := minInt(w, h) / 4
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			r.setPixel(x+w/2-size/2+dx, y+h-size+dy, c)
		}
	}
}

func glyphPixel(upper rune, dx, dy, w, h, thickness int) bool {
	switch upper {
	case 'I', 'L', '1':
		return dx == w/2 || dy == 0 || dy == h-1
	case 'O', '0':
		border := dx == 0 || dx == w-1 || dy == 0 || dy == h-1
		corner := (dx == 0 && dy == 0) || (dx == w-1 && dy == 0) ||
			(dx == 0 && dy == h-1) || (dx == w-1 && dy == h-1)
		return border && !corner
	case 'T':
		return dy == 0 || dx == w/2
	case 'E':
		return dx == 0 || dy == 0 || dy == h-1 || dy == h/2
	case 'F':
		return dx == 0 || dy == 0 || dy == h/2
	case 'H':
		return dx == 0 || dx == w-1 || dy == h/2
	case 'C':
		return (dx == 0 || dy == 0 || dy == h-1) && dx < w-1
	default:
		return dx < thickness || dx >= w-thickness || dy < thickness || dy >= h-thickness ||
			(dy > h/3 && dy < 2*h/3)
	}
}

// drawImage nearest-neighbor scales the RGBA source into the destination
// rect, alpha-blending each pixel (spec §4.6's Image command).
func (r *Renderer) drawImage(cmd Command) {
	if len(cmd.ImgData) == 0 || cmd.ImgW == 0 || cmd.ImgH == 0 {
		return
	}
	destX, destY := int(cmd.Rect.X), int(cmd.Rect.Y)
	destW, destH := int(cmd.Rect.W), int(cmd.Rect.H)
	for dy := 0; dy < destH; dy++ {
		for dx := 0; dx < destW; dx++ {
			px, py := destX+dx, destY+dy
			if px < 0 || py < 0 || px >= r.Width || py >= r.Height {
				continue
			}
			srcX := int(float64(dx) / float64(destW) * float64(cmd.ImgW))
			srcY := int(float64(dy) / float64(destH) * float64(cmd.ImgH))
			srcIdx := (srcY*cmd.ImgW + srcX) * 4
			if srcIdx+3 >= len(cmd.ImgData) {
				continue
			}
			col := Color{cmd.ImgData[srcIdx], cmd.ImgData[srcIdx+1], cmd.ImgData[srcIdx+2], cmd.ImgData[srcIdx+3]}
			if col.A == 0 {
				continue
			}
			r.setPixel(px, py, col)
		}
	}
}

// drawLine is Bresenham's algorithm (spec §4.6's Line command).
func (r *Renderer) drawLine(x1, y1, x2, y2 float64, c Color) {
	ix1, iy1 := int(x1), int(y1)
	ix2, iy2 := int(x2), int(y2)

	dx := absInt(ix2 - ix1)
	dy := -absInt(iy2 - iy1)
	sx := -1
	if ix1 < ix2 {
		sx = 1
	}
	sy := -1
	if iy1 < iy2 {
		sy = 1
	}
	err := dx + dy

	for {
		r.setPixel(ix1, iy1, c)
		if ix1 == ix2 && iy1 == iy2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ix1 += sx
		}
		if e2 <= dx {
			err += dx
			iy1 += sy
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
