package ui

// dragSession tracks one pointer drag across the board. It only drives
// presentation; the board itself changes when the controller applies a swap.
type dragSession struct {
	active bool
	source int
	hover  int
}

func (d *dragSession) Begin(pos int) bool {
	if pos < 0 {
		d.Cancel()
		return false
	}
	d.active = true
	d.source = pos
	d.hover = -1
	return true
}

// Hover records the cell under the pointer. The source cell and gutters
// clear the hover target.
func (d *dragSession) Hover(pos int) {
	if !d.active {
		return
	}
	if pos == d.source {
		pos = -1
	}
	d.hover = pos
}

// Drop ends the drag. ok is true only when the pointer was released over a
// cell other than the source.
func (d *dragSession) Drop(pos int) (from, to int, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	from = d.source
	d.Cancel()
	if pos < 0 || pos == from {
		return 0, 0, false
	}
	return from, pos, true
}

func (d *dragSession) Cancel() {
	d.active = false
	d.source = -1
	d.hover = -1
}

func (d *dragSession) Dragging(pos int) bool {
	return d.active && d.source == pos
}

func (d *dragSession) Hovering(pos int) bool {
	return d.active && d.hover >= 0 && d.hover == pos
}
