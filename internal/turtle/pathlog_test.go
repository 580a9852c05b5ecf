package turtle

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-turtle/internal/core"
)

func seg(n int) Segment {
	return Segment{Start: core.V(float64(n), 0), End: core.V(float64(n+1), 0), Seq: uint64(n)}
}

func TestUndoRedoIdempotent(t *testing.T) {
	var once PathLog
	once.Commit(seg(1))

	var roundTrip PathLog
	roundTrip.Commit(seg(1))
	if _, err := roundTrip.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if _, err := roundTrip.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}

	if !reflect.DeepEqual(once.Committed(), roundTrip.Committed()) {
		t.Errorf("committed = %v, want %v", roundTrip.Committed(), once.Committed())
	}
}

func TestCommitDiscardsRedoTail(t *testing.T) {
	var l PathLog
	l.Commit(seg(1))
	l.Commit(seg(2))
	l.Undo()
	l.Commit(seg(3))

	if _, err := l.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo = %v, want ErrNothingToRedo", err)
	}
	want := []Segment{seg(1), seg(3)}
	if !reflect.DeepEqual(l.Committed(), want) {
		t.Errorf("committed = %v, want %v", l.Committed(), want)
	}
}

func TestEmptyLogFailures(t *testing.T) {
	var l PathLog
	if _, err := l.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo = %v, want ErrNothingToUndo", err)
	}
	if _, err := l.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo = %v, want ErrNothingToRedo", err)
	}
}

func TestUndoOrder(t *testing.T) {
	var l PathLog
	for i := 1; i <= 3; i++ {
		l.Commit(seg(i))
	}
	for _, want := range []int{3, 2} {
		s, err := l.Undo()
		if err != nil || s.Seq != uint64(want) {
			t.Fatalf("Undo = %v, %v; want seq %d", s.Seq, err, want)
		}
	}
	s, _ := l.Redo()
	if s.Seq != 2 {
		t.Errorf("Redo seq = %d, want 2", s.Seq)
	}
	if l.Len() != 2 || !l.CanRedo() {
		t.Errorf("len = %d canRedo = %v", l.Len(), l.CanRedo())
	}
}

func TestDepthBakesOldest(t *testing.T) {
	l := NewPathLog(2)
	for i := 1; i <= 5; i++ {
		l.Commit(seg(i))
	}
	if got := len(l.Committed()); got != 2 {
		t.Errorf("undoable = %d, want 2", got)
	}
	all := l.All()
	if len(all) != 5 {
		t.Fatalf("all = %d, want 5", len(all))
	}
	for i, s := range all {
		if s.Seq != uint64(i+1) {
			t.Errorf("all[%d].Seq = %d, want commit order", i, s.Seq)
		}
	}

	l.Clear()
	if l.Len() != 0 || l.CanUndo() {
		t.Error("Clear left segments behind")
	}
}
