package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tomz197/invaders/internal/physics"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a pixel color. ColorNone is an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGreen
	ColorYellow
	ColorRed
	ColorGray
	ColorCyan
)

// fgCodes are the SGR foreground codes per color; background is fg+10.
var fgCodes = [...]int{39, 97, 92, 93, 91, 90, 96}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// It scales from logical coordinates to terminal pixels.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewCanvas creates a canvas of the given terminal size showing a logical
// area of logicalWidth x logicalHeight.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at terminal pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// At returns the color of a terminal pixel, ColorNone outside the canvas.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return ColorNone
	}
	return c.pixels[y*c.termWidth+x]
}

// SetFloat sets a pixel using logical coordinates.
func (c *Canvas) SetFloat(x, y float64, col Color) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), col)
}

// FillRect fills a logical rectangle. Anything on screen covers at least one pixel.
func (c *Canvas) FillRect(r physics.Rect, col Color) {
	x0 := int(math.Floor(r.Left() * c.scaleX))
	x1 := int(math.Ceil(r.Right()*c.scaleX)) - 1
	y0 := int(math.Floor(r.Top() * c.scaleY))
	y1 := int(math.Ceil(r.Bottom()*c.scaleY)) - 1
	x1 = max(x1, x0)
	y1 = max(y1, y0)

	for y := max(y0, 0); y <= min(y1, c.subPixelHeight-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.termWidth-1); x++ {
			c.pixels[y*c.termWidth+x] = col
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using a scanline fill.
func (c *Canvas) DrawPolygon(points []Point, col Color, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, col)
	}
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon fills a polygon in pixel space.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)
		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i])); x <= int(math.Floor(intersections[i+1])); x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// Render writes the whole canvas to w, one full row per line, so no screen
// clear is needed between frames.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 4)

	const keep = -1
	for row := 0; row < c.termHeight; row++ {
		c.renderBuf.WriteString("\033[")
		c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1), 10))
		c.renderBuf.WriteString(";1H\033[0m")
		fg, bg := 0, 0 // Defaults after the reset

		top := row * 2 * c.termWidth
		bottom := top + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			t, b := c.pixels[top+col], c.pixels[bottom+col]

			var ch rune
			wantFg, wantBg := keep, 0
			switch {
			case t == ColorNone && b == ColorNone:
				ch = ' '
			case t == b:
				ch, wantFg, wantBg = BlockFull, int(t), keep
			case b == ColorNone:
				ch, wantFg = BlockUpperHalf, int(t)
			case t == ColorNone:
				ch, wantFg = BlockLowerHalf, int(b)
			default:
				ch, wantFg, wantBg = BlockUpperHalf, int(t), int(b)
			}

			if wantFg != keep && wantFg != fg {
				c.writeSGR(fgCodes[wantFg])
				fg = wantFg
			}
			if wantBg != keep && wantBg != bg {
				c.writeSGR(fgCodes[wantBg] + 10)
				bg = wantBg
			}
			c.renderBuf.WriteRune(ch)
		}
	}
	c.renderBuf.WriteString("\033[0m")
	io.WriteString(w, c.renderBuf.String())
}

func (c *Canvas) writeSGR(code int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(code), 10))
	c.renderBuf.WriteByte('m')
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 1-based terminal cell to the logical
// coordinates of its center.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	x = (float64(col-1) + 0.5) / c.scaleX
	y = (float64(row-1)*2 + 1) / c.scaleY
	return x, y
}

// CellSize returns the logical size of one terminal cell.
func (c *Canvas) CellSize() (w, h float64) {
	return 1 / c.scaleX, 2 / c.scaleY
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
