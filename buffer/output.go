package buffer

// OutputTracker owns the output point: the index separating content already
// delivered to (or echoed by) the child from input still being composed.
type OutputTracker struct {
	point int
}

func (t *OutputTracker) Point() int { return t.point }

func (t *OutputTracker) advanceTo(pos int) {
	if pos > t.point {
		t.point = pos
	}
}

// shrink accounts for the deletion of [start, end), leaving length runes.
func (t *OutputTracker) shrink(start, end, length int) {
	if start < t.point {
		removed := min(end, t.point) - start
		t.point -= removed
	}
	if t.point > length {
		t.point = length
	}
}
