package turtle

// PathLog is the committed drawing history of one turtle with linear
// undo/redo. Committed segments are the source of truth; the raster on a
// canvas is only a cache rebuilt from them.
//
// With a finite depth only the newest depth segments are undoable. Older
// segments move to a baked list: they stay in the drawing and in every
// rebuild but can no longer be undone.
type PathLog struct {
	depth     int
	baked     []Segment
	committed []Segment
	redo      []Segment // top of stack is the most recently undone segment
}

// NewPathLog creates a log with the given undo depth. depth <= 0 means unlimited.
func NewPathLog(depth int) PathLog {
	return PathLog{depth: max(depth, 0)}
}

// Depth returns the undo depth, 0 for unlimited.
func (l *PathLog) Depth() int { return l.depth }

// Commit appends s and discards the redo tail.
func (l *PathLog) Commit(s Segment) {
	l.committed = append(l.committed, s)
	clear(l.redo)
	l.redo = l.redo[:0]
	if l.depth > 0 && len(l.committed) > l.depth {
		over := len(l.committed) - l.depth
		l.baked = append(l.baked, l.committed[:over]...)
		l.committed = append(l.committed[:0], l.committed[over:]...)
	}
}

// Undo moves the newest committed segment to the redo tail.
func (l *PathLog) Undo() (Segment, error) {
	n := len(l.committed)
	if n == 0 {
		return Segment{}, ErrNothingToUndo
	}
	s := l.committed[n-1]
	l.committed = l.committed[:n-1]
	l.redo = append(l.redo, s)
	return s, nil
}

// Redo reapplies the most recently undone segment.
func (l *PathLog) Redo() (Segment, error) {
	n := len(l.redo)
	if n == 0 {
		return Segment{}, ErrNothingToRedo
	}
	s := l.redo[n-1]
	l.redo = l.redo[:n-1]
	l.committed = append(l.committed, s)
	return s, nil
}

// CanUndo reports whether Undo would succeed.
func (l *PathLog) CanUndo() bool { return len(l.committed) > 0 }

// CanRedo reports whether Redo would succeed.
func (l *PathLog) CanRedo() bool { return len(l.redo) > 0 }

// Committed returns a copy of the undoable segments, oldest first.
func (l *PathLog) Committed() []Segment {
	return append([]Segment(nil), l.committed...)
}

// All returns baked and committed segments in commit order.
func (l *PathLog) All() []Segment {
	out := make([]Segment, 0, len(l.baked)+len(l.committed))
	out = append(out, l.baked...)
	return append(out, l.committed...)
}

// Len returns the number of segments in the drawing, baked included.
func (l *PathLog) Len() int {
	return len(l.baked) + len(l.committed)
}

// Clear drops every segment, baked and redo tail included.
func (l *PathLog) Clear() {
	l.baked = nil
	l.committed = nil
	l.redo = nil
}
