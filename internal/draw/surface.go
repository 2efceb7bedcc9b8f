// Package draw renders the game to a terminal with half-block characters.
package draw

import (
	"io"
	"math"
	"math/rand"
	"unicode/utf8"

	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

const (
	fallbackCols = 80
	fallbackRows = 24
	starCount    = 90
)

// Text styles.
const (
	styleText   = "\033[1;97m"
	styleButton = "\033[1;30;102m"
)

type overlay struct {
	col, row int
	text     string
	style    string
}

// Terminal draws frames on a terminal. The logical screen is stretched over
// the whole terminal and follows its size between frames.
type Terminal struct {
	out      *ChunkWriter
	canvas   *Canvas
	sizeFunc TermSizeFunc

	width, height float64
	stars         []Point
	overlays      []overlay
	points        []Point // Scratch buffer for sprite outlines
}

// NewTerminal creates a surface of the given logical size writing to w.
// sizeFunc reports the terminal size; when it fails 80x24 is assumed.
func NewTerminal(w io.Writer, width, height float64, sizeFunc TermSizeFunc) *Terminal {
	t := &Terminal{
		out:      NewChunkWriter(w),
		sizeFunc: sizeFunc,
		width:    width,
		height:   height,
	}
	cols, rows := t.termSize()
	t.canvas = NewCanvas(cols, rows, width, height)

	// Fixed seed: every session sees the same sky.
	rng := rand.New(rand.NewSource(1))
	t.stars = make([]Point, starCount)
	for i := range t.stars {
		t.stars[i] = Point{X: rng.Float64() * width, Y: rng.Float64() * height}
	}
	return t
}

func (t *Terminal) termSize() (cols, rows int) {
	if t.sizeFunc == nil {
		return fallbackCols, fallbackRows
	}
	cols, rows, err := t.sizeFunc()
	if err != nil || cols <= 0 || rows <= 0 {
		return fallbackCols, fallbackRows
	}
	return cols, rows
}

// Size returns the logical screen size.
func (t *Terminal) Size() (width, height float64) {
	return t.width, t.height
}

// DrawBackground draws the starfield scrolled down by offset.
func (t *Terminal) DrawBackground(offset float64) {
	for _, s := range t.stars {
		y := math.Mod(s.Y+offset, t.height)
		t.canvas.SetFloat(s.X, y, ColorGray)
	}
}

// DrawSprite draws an entity in the given rectangle.
func (t *Terminal) DrawSprite(kind object.Sprite, r physics.Rect) {
	switch kind {
	case object.SpriteShip:
		t.canvas.DrawPolygon(t.shape(r, shipShape), ColorWhite, true)
	case object.SpriteAlien:
		t.canvas.DrawPolygon(t.shape(r, alienShape), ColorGreen, true)
	case object.SpriteBullet:
		t.canvas.FillRect(r, ColorYellow)
	case object.SpriteAlienExplosion:
		t.canvas.DrawPolygon(t.star(r, 8), ColorYellow, true)
	case object.SpriteShipExplosion:
		t.canvas.DrawPolygon(t.star(r, 12), ColorRed, true)
	}
}

// DrawRect fills a plain rectangle.
func (t *Terminal) DrawRect(r physics.Rect) {
	t.canvas.FillRect(r, ColorYellow)
}

// DrawText writes text with its top-left corner at logical (x, y).
func (t *Terminal) DrawText(x, y float64, text string) {
	col, row := t.canvas.LogicalToTerminal(x, y)
	t.addOverlay(col, row, text, styleText)
}

// MeasureText returns the logical size text takes on screen.
func (t *Terminal) MeasureText(text string) (w, h float64) {
	cw, ch := t.canvas.CellSize()
	return float64(utf8.RuneCountInString(text)) * cw, ch
}

// DrawButton draws a filled button with its label centered.
func (t *Terminal) DrawButton(b object.Button) {
	r := b.Rect()
	t.canvas.FillRect(r, ColorGreen)

	label := " " + b.Label + " "
	w, h := t.MeasureText(label)
	col, row := t.canvas.LogicalToTerminal(r.CenterX()-w/2, r.CenterY()-h/2)
	t.addOverlay(col, row, label, styleButton)
}

// CellToLogical maps a 1-based terminal cell to logical coordinates.
// It is the pointer mapper for mouse input.
func (t *Terminal) CellToLogical(col, row int) (x, y float64) {
	return t.canvas.TerminalToLogical(col, row)
}

// Present writes the frame and starts a new one. The terminal size is
// checked afterwards so the next frame fits a resized window.
func (t *Terminal) Present() error {
	t.canvas.Render(t.out)
	for _, o := range t.overlays {
		t.out.MoveCursor(o.col, o.row)
		t.out.WriteString(o.style)
		t.out.WriteString(o.text)
		t.out.WriteString(resetStyle)
	}
	err := t.out.Flush()

	t.canvas.Clear()
	t.overlays = t.overlays[:0]

	cols, rows := t.termSize()
	if cols != t.canvas.TerminalWidth() || rows != t.canvas.TerminalHeight() {
		t.canvas.Resize(cols, rows)
		t.out.WriteString(clearScreen)
	}
	return err
}

func (t *Terminal) addOverlay(col, row int, text, style string) {
	if row < 1 || row > t.canvas.TerminalHeight() || text == "" {
		return
	}
	// Clip to the visible columns.
	if col < 1 {
		skip := 1 - col
		if skip >= utf8.RuneCountInString(text) {
			return
		}
		text = string([]rune(text)[skip:])
		col = 1
	}
	room := t.canvas.TerminalWidth() - col + 1
	if room <= 0 {
		return
	}
	if runes := []rune(text); len(runes) > room {
		text = string(runes[:room])
	}
	t.overlays = append(t.overlays, overlay{col: col, row: row, text: text, style: style})
}

// Outlines in unit coordinates, scaled into the sprite's rectangle.
var (
	shipShape = []Point{
		{0.5, 0}, {0.65, 0.45}, {1, 0.8}, {1, 1}, {0.6, 0.85}, {0.4, 0.85}, {0, 1}, {0, 0.8}, {0.35, 0.45},
	}
	alienShape = []Point{
		{0.25, 0}, {0.75, 0}, {1, 0.35}, {1, 0.7}, {0.8, 1}, {0.65, 0.7}, {0.35, 0.7}, {0.2, 1}, {0, 0.7}, {0, 0.35},
	}
)

func (t *Terminal) shape(r physics.Rect, unit []Point) []Point {
	t.points = t.points[:0]
	for _, p := range unit {
		t.points = append(t.points, Point{X: r.X + p.X*r.W, Y: r.Y + p.Y*r.H})
	}
	return t.points
}

// star builds a spiky outline with the given number of points.
func (t *Terminal) star(r physics.Rect, spikes int) []Point {
	t.points = t.points[:0]
	cx, cy := r.CenterX(), r.CenterY()
	for i := 0; i < spikes*2; i++ {
		scale := 0.5
		if i%2 == 1 {
			scale = 0.22
		}
		a := float64(i) * math.Pi / float64(spikes)
		t.points = append(t.points, Point{X: cx + math.Cos(a)*r.W*scale, Y: cy + math.Sin(a)*r.H*scale})
	}
	return t.points
}
