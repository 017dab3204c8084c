package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"treasuregate/internal/art"
	"treasuregate/internal/board"
)

type tileMode int

const (
	tileNormal tileMode = iota
	tileDragged
	tileHover
)

const (
	dragShade  = 0.55
	hoverTint  = 0.35
	asciiRamp  = " .:-=+*#%@"
	halfBlock  = "▀"
	blankBlock = " "
)

type tileKey struct {
	id   int
	mode tileMode
}

// tileRenderer turns slices of the background into terminal lines. A tile of
// cols x rows cells shows cols x 2*rows pixels: the upper pixel is the
// foreground of a half block and the lower one its background.
type tileRenderer struct {
	src    image.Image
	sheet  *art.Sheet
	ascii  bool
	accent color.RGBA
	shade  color.RGBA
	cache  map[tileKey][]string
}

func newTileRenderer(ascii bool, theme Theme) *tileRenderer {
	return &tileRenderer{
		ascii:  ascii,
		accent: art.ToRGBA(theme.AccentColor),
		shade:  art.ToRGBA(theme.ShadeColor),
		cache:  map[tileKey][]string{},
	}
}

// prepare rescales the sheet when the art or the board geometry changed.
func (t *tileRenderer) prepare(src image.Image, geo board.Geometry) {
	if src == t.src && (src == nil || (t.sheet != nil && t.sheet.Geometry() == geo)) {
		return
	}
	t.src = src
	t.sheet = nil
	if src != nil && geo.Size > 0 && geo.BoardPx > 0 {
		t.sheet = art.NewSheet(src, geo)
	}
	clear(t.cache)
}

func (t *tileRenderer) lines(id int, mode tileMode, cols, rows int) []string {
	k := tileKey{id: id, mode: mode}
	if cached, ok := t.cache[k]; ok && len(cached) == rows {
		return cached
	}
	var out []string
	switch {
	case t.sheet == nil:
		out = t.plain(id, mode, cols, rows)
	case t.ascii:
		out = t.asciiLines(id, mode, cols, rows)
	default:
		out = t.colorLines(id, mode, cols, rows)
	}
	t.cache[k] = out
	return out
}

func (t *tileRenderer) pixel(id, x, y int, mode tileMode) color.RGBA {
	c := t.sheet.Pixel(id, x, y)
	switch mode {
	case tileDragged:
		c = art.Blend(c, t.shade, dragShade)
	case tileHover:
		c = art.Blend(c, t.accent, hoverTint)
	}
	return c
}

func (t *tileRenderer) colorLines(id int, mode tileMode, cols, rows int) []string {
	out := make([]string, rows)
	var b strings.Builder
	for row := 0; row < rows; row++ {
		b.Reset()
		for x := 0; x < cols; x++ {
			top := t.pixel(id, x, 2*row, mode)
			bottom := t.pixel(id, x, 2*row+1, mode)
			b.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render(halfBlock))
		}
		out[row] = b.String()
	}
	return out
}

func (t *tileRenderer) asciiLines(id int, mode tileMode, cols, rows int) []string {
	ramp := []rune(asciiRamp)
	grid := make([][]rune, rows)
	for row := 0; row < rows; row++ {
		grid[row] = make([]rune, cols)
		for x := 0; x < cols; x++ {
			top := t.pixel(id, x, 2*row, mode)
			bottom := t.pixel(id, x, 2*row+1, mode)
			l := (art.Luma(top) + art.Luma(bottom)) / 2
			idx := int(l * float64(len(ramp)-1))
			grid[row][x] = ramp[max(0, min(len(ramp)-1, idx))]
		}
	}
	stamp(grid, tileLabel(id, mode))
	out := make([]string, rows)
	for row := range grid {
		out[row] = string(grid[row])
	}
	return out
}

// plain is used before any art is available.
func (t *tileRenderer) plain(id int, mode tileMode, cols, rows int) []string {
	fill := blankBlock
	if mode == tileDragged {
		fill = "."
	}
	grid := make([][]rune, rows)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(fill, cols))
	}
	stamp(grid, tileLabel(id, mode))
	out := make([]string, rows)
	for row := range grid {
		out[row] = string(grid[row])
	}
	return out
}

func tileLabel(id int, mode tileMode) string {
	label := fmt.Sprintf("%d", id+1)
	switch mode {
	case tileDragged:
		return "(" + label + ")"
	case tileHover:
		return "[" + label + "]"
	}
	return label
}

// stamp writes label into the middle row of grid when it fits.
func stamp(grid [][]rune, label string) {
	if len(grid) == 0 {
		return
	}
	row := grid[len(grid)/2]
	lr := []rune(label)
	if len(lr) > len(row) {
		return
	}
	start := (len(row) - len(lr)) / 2
	copy(row[start:], lr)
}
