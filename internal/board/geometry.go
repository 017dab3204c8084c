package board

import "image"

// Geometry maps tile identifiers onto a square background image of
// BoardPx x BoardPx pixels split into Size x Size tiles.
type Geometry struct {
	Size    int
	BoardPx int
}

func (g Geometry) CellPx() int {
	if g.Size <= 0 {
		return 0
	}
	return g.BoardPx / g.Size
}

// Origin is the top-left pixel of tile id's slice of the background.
func (g Geometry) Origin(id int) image.Point {
	if g.Size <= 0 {
		return image.Point{}
	}
	cell := g.CellPx()
	return image.Pt((id%g.Size)*cell, (id/g.Size)*cell)
}
