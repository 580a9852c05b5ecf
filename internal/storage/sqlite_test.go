package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func sampleSegments() []turtle.Segment {
	return []turtle.Segment{
		{Start: core.V(0, 0), End: core.V(100, 0), Color: core.ColorRed, Width: 1, Visible: true, Seq: 3},
		{Start: core.V(100, 0), End: core.V(100, 100), Color: core.ColorBlue, Width: 2.5, Visible: false, Seq: 7},
		{Start: core.V(-5, 5), End: core.V(-5, 5), Color: core.RGB(0x12, 0x34, 0x56), Width: 2, Visible: true, Seq: 9},
	}
}

func TestSaveAndLoadDrawing(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveDrawing(Drawing{
		ProgramID: "square",
		Title:     "Square",
		Frames:    42,
		Segments:  sampleSegments(),
	})
	if err != nil {
		t.Fatalf("SaveDrawing() failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveDrawing() returned empty id")
	}

	d, err := store.LoadDrawing(id)
	if err != nil {
		t.Fatalf("LoadDrawing() failed: %v", err)
	}
	if d == nil {
		t.Fatal("saved drawing not found")
	}
	if d.ProgramID != "square" || d.Title != "Square" || d.Frames != 42 {
		t.Errorf("drawing = %+v", d)
	}
	if d.SegmentCount != 3 || len(d.Segments) != 3 {
		t.Fatalf("segment count = %d, loaded %d", d.SegmentCount, len(d.Segments))
	}

	want := sampleSegments()
	for i, got := range d.Segments {
		w := want[i]
		if got.Start != w.Start || got.End != w.End {
			t.Errorf("segment %d = %v->%v, want %v->%v", i, got.Start, got.End, w.Start, w.End)
		}
		if got.Color != w.Color || got.Width != w.Width || got.Visible != w.Visible {
			t.Errorf("segment %d style = %v/%v/%v", i, got.Color, got.Width, got.Visible)
		}
		if got.Seq != uint64(i) {
			t.Errorf("segment %d seq = %d", i, got.Seq)
		}
	}
	if !d.Segments[2].Dot() {
		t.Error("dot segment lost its shape")
	}
}

func TestSaveDrawingKeepsGivenID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveDrawing(Drawing{ID: "fixed", ProgramID: "star"})
	if err != nil {
		t.Fatalf("SaveDrawing() failed: %v", err)
	}
	if id != "fixed" {
		t.Errorf("id = %q, want fixed", id)
	}
	if _, err := store.SaveDrawing(Drawing{ID: "fixed", ProgramID: "star"}); err == nil {
		t.Error("duplicate id accepted")
	}
}

func TestLoadMissingDrawing(t *testing.T) {
	store := openTestStore(t)

	d, err := store.LoadDrawing("nope")
	if err != nil {
		t.Fatalf("LoadDrawing() failed: %v", err)
	}
	if d != nil {
		t.Errorf("expected nil, got %+v", d)
	}
}

func TestListDrawings(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for _, p := range []string{"square", "star", "spiral"} {
		id, err := store.SaveDrawing(Drawing{ProgramID: p, Segments: sampleSegments()[:1]})
		if err != nil {
			t.Fatalf("SaveDrawing() failed: %v", err)
		}
		ids = append(ids, id)
	}

	list, err := store.ListDrawings(10)
	if err != nil {
		t.Fatalf("ListDrawings() failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 drawings, got %d", len(list))
	}
	// Newest first; saves within one second fall back to insertion order.
	if list[0].ID != ids[2] || list[2].ID != ids[0] {
		t.Errorf("order = %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
	if list[0].Segments != nil {
		t.Error("ListDrawings() loaded segments")
	}
	if list[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	limited, err := store.ListDrawings(2)
	if err != nil {
		t.Fatalf("ListDrawings() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d", len(limited))
	}
}

func TestDeleteDrawing(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveDrawing(Drawing{ProgramID: "square", Segments: sampleSegments()})
	if err != nil {
		t.Fatalf("SaveDrawing() failed: %v", err)
	}

	ok, err := store.DeleteDrawing(id)
	if err != nil || !ok {
		t.Fatalf("DeleteDrawing() = %v, %v", ok, err)
	}
	d, err := store.LoadDrawing(id)
	if err != nil || d != nil {
		t.Errorf("deleted drawing still loads: %+v, %v", d, err)
	}

	var n int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM segments WHERE drawing_id = ?", id).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d orphan segments left", n)
	}

	ok, err = store.DeleteDrawing(id)
	if err != nil || ok {
		t.Errorf("second delete = %v, %v", ok, err)
	}
}

func TestDrawingStats(t *testing.T) {
	store := openTestStore(t)

	segs := sampleSegments()
	saves := []Drawing{
		{ProgramID: "square", Frames: 10, Segments: segs},
		{ProgramID: "square", Frames: 30, Segments: segs[:1]},
		{ProgramID: "star", Frames: 5, Segments: segs[:2]},
	}
	for _, d := range saves {
		if _, err := store.SaveDrawing(d); err != nil {
			t.Fatalf("SaveDrawing() failed: %v", err)
		}
	}

	stats, err := store.DrawingStats()
	if err != nil {
		t.Fatalf("DrawingStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(stats))
	}

	sq := stats["square"]
	if sq == nil {
		t.Fatal("no stats for square")
	}
	if sq.Drawings != 2 {
		t.Errorf("Drawings = %d, want 2", sq.Drawings)
	}
	if sq.TotalSegments != 4 {
		t.Errorf("TotalSegments = %d, want 4", sq.TotalSegments)
	}
	if sq.MaxSegments != 3 {
		t.Errorf("MaxSegments = %d, want 3", sq.MaxSegments)
	}
	if sq.AvgFrames != 20 {
		t.Errorf("AvgFrames = %v, want 20", sq.AvgFrames)
	}
	if stats["star"].TotalSegments != 2 {
		t.Errorf("star TotalSegments = %d", stats["star"].TotalSegments)
	}
}
