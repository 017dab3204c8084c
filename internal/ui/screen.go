package ui

import (
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

type segment struct {
	x int
	s string
	w int
}

// screenBuf assembles a full screen from styled segments placed at exact
// cells, so mouse hit-testing can use the same coordinates as rendering.
type screenBuf struct {
	cols  int
	lines [][]segment
}

func newScreenBuf(cols, rows int) *screenBuf {
	return &screenBuf{cols: max(1, cols), lines: make([][]segment, max(1, rows))}
}

// set replaces row y with s.
func (b *screenBuf) set(y int, s string) {
	if y < 0 || y >= len(b.lines) {
		return
	}
	b.lines[y] = b.lines[y][:0]
	b.put(y, 0, s, lipgloss.Width(s))
}

// center places s in the middle of row y and returns its first column.
func (b *screenBuf) center(y int, s string) int {
	return b.centerShift(y, s, 0)
}

func (b *screenBuf) centerShift(y int, s string, offset int) int {
	w := lipgloss.Width(s)
	x := max(0, (b.cols-w)/2+offset)
	b.put(y, x, s, w)
	return x
}

func (b *screenBuf) put(y, x int, s string, w int) {
	if y < 0 || y >= len(b.lines) || x >= b.cols {
		return
	}
	if x+w > b.cols {
		w = b.cols - x
		s = ansi.Truncate(s, w, "")
	}
	b.lines[y] = append(b.lines[y], segment{x: x, s: s, w: w})
}

func (b *screenBuf) String() string {
	out := make([]string, len(b.lines))
	for y, segs := range b.lines {
		sort.SliceStable(segs, func(i, j int) bool { return segs[i].x < segs[j].x })
		var sb strings.Builder
		cursor := 0
		for _, seg := range segs {
			if seg.x < cursor {
				continue
			}
			sb.WriteString(strings.Repeat(" ", seg.x-cursor))
			sb.WriteString(seg.s)
			cursor = seg.x + seg.w
		}
		out[y] = sb.String()
	}
	return strings.Join(out, "\n")
}
