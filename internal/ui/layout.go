package ui

const (
	minCols = 40
	minRows = 16

	// boardTop is the first screen row of the board on the puzzle screen.
	boardTop = 5
	// boardFooter is the rows kept free below the board for progress and help.
	boardFooter = 4
	maxTileRows = 8
	gutter      = 1
)

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < minCols || rows < minRows {
		return LayoutTooSmall
	}
	if cols >= 100 && rows >= 30 {
		return LayoutWide
	}
	return LayoutMedium
}

// boardLayout places a size x size board on screen. Each tile is tileCols
// columns by tileRows rows and shows tileCols x tileCols pixels, two pixel
// rows per terminal row.
type boardLayout struct {
	size     int
	tileCols int
	tileRows int
	originX  int
	originY  int
}

// computeBoardLayout fits the board below boardTop. ok is false when even
// one-row tiles do not fit.
func computeBoardLayout(size, cols, rows int) (boardLayout, bool) {
	if size <= 0 {
		return boardLayout{}, false
	}
	availW := cols - 4 - (size-1)*gutter
	availH := rows - boardTop - boardFooter - (size-1)*gutter
	k := min(availW/(2*size), availH/size)
	if k > maxTileRows {
		k = maxTileRows
	}
	if k < 1 {
		return boardLayout{}, false
	}
	l := boardLayout{size: size, tileCols: 2 * k, tileRows: k}
	l.originX = max(0, (cols-l.width())/2)
	l.originY = boardTop
	return l, true
}

func (l boardLayout) width() int {
	return l.size*l.tileCols + (l.size-1)*gutter
}

func (l boardLayout) height() int {
	return l.size*l.tileRows + (l.size-1)*gutter
}

// boardPx is the side of the background image in pixels.
func (l boardLayout) boardPx() int {
	return l.size * l.tileCols
}

// cellAt maps a screen cell to a board position, or -1 for gutters and
// anything outside the board.
func (l boardLayout) cellAt(x, y int) int {
	if l.size <= 0 {
		return -1
	}
	dx, dy := x-l.originX, y-l.originY
	if dx < 0 || dy < 0 {
		return -1
	}
	col, colOff := dx/(l.tileCols+gutter), dx%(l.tileCols+gutter)
	row, rowOff := dy/(l.tileRows+gutter), dy%(l.tileRows+gutter)
	if colOff >= l.tileCols || rowOff >= l.tileRows {
		return -1
	}
	if col >= l.size || row >= l.size {
		return -1
	}
	return row*l.size + col
}

// cellOrigin is the top-left screen cell of board position pos.
func (l boardLayout) cellOrigin(pos int) (int, int) {
	row, col := pos/l.size, pos%l.size
	return l.originX + col*(l.tileCols+gutter), l.originY + row*(l.tileRows+gutter)
}
