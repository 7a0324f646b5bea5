package world

import (
	"testing"

	"mad-sand/internal/core"
)

func TestInsertGetRemove(t *testing.T) {
	w := New()
	for _, p := range []core.Pos{{10, 10}, {-10, 10}, {-1, -1}, {0, 0}, {-100, -101}} {
		w.Insert(p, Of(7))
		ref, ok := w.Get(p)
		if !ok || ref.Material != 7 {
			t.Fatalf("Get(%v) = %v, %v after insert", p, ref, ok)
		}
		w.Insert(p, Empty)
		if !w.IsEmpty(p) {
			t.Fatalf("cell %v still occupied after remove", p)
		}
	}
	if w.TotalOccupancy() != 0 {
		t.Fatalf("occupancy = %d", w.TotalOccupancy())
	}
}

func TestMissingChunkReadsEmpty(t *testing.T) {
	w := New()
	w.Put(core.Pos{X: 10, Y: 10}, CellRef{Material: 1})
	w.Put(core.Pos{X: -10, Y: 10}, CellRef{Material: 1})

	if !w.IsEmpty(core.Pos{X: 1, Y: 1}) {
		t.Fatal("(1,1) should be empty")
	}
	if w.IsEmpty(core.Pos{X: 10, Y: 10}) || w.IsEmpty(core.Pos{X: -10, Y: 10}) {
		t.Fatal("inserted cells should be occupied")
	}
	if !w.IsEmpty(core.Pos{X: 5000, Y: -5000}) {
		t.Fatal("cell in a missing chunk should be empty")
	}
	if w.Ref(core.Pos{X: 5000, Y: -5000}) != nil {
		t.Fatal("Ref in a missing chunk should be nil")
	}
	if w.ChunkCount() != 2 {
		t.Fatalf("expected 2 chunks, got %d", w.ChunkCount())
	}
}

func TestNeighboringCellsAcrossChunks(t *testing.T) {
	w := New()
	w.Put(core.Pos{X: 0, Y: 0}, CellRef{Material: 1})
	w.Put(core.Pos{X: -1, Y: 0}, CellRef{Material: 2})

	if w.ChunkCount() != 2 {
		t.Fatalf("expected cells on both sides of the boundary, got %d chunks", w.ChunkCount())
	}
	if ref, _ := w.Get(core.Pos{X: -1, Y: 0}); ref.Material != 2 {
		t.Fatalf("unexpected cell %v", ref)
	}
	if w.Chunk(core.ChunkPos{X: -1, Y: 0}).Count() != 1 {
		t.Fatal("chunk (-1,0) should hold one cell")
	}
}

func TestChunksIterateInStableOrder(t *testing.T) {
	w := New()
	for _, p := range []core.Pos{{250, 0}, {-5, 300}, {-5, -300}, {0, 0}} {
		w.Put(p, CellRef{Material: 1})
	}
	var got []core.ChunkPos
	for cp, ch := range w.Chunks() {
		if ch.Count() != 1 {
			t.Fatalf("chunk %v count %d", cp, ch.Count())
		}
		got = append(got, cp)
	}
	want := []core.ChunkPos{{-1, -3}, {-1, 3}, {0, 0}, {2, 0}}
	if len(got) != len(want) {
		t.Fatalf("chunks %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunks %v, want %v", got, want)
		}
	}
}

func TestTotalOccupancySumsChunks(t *testing.T) {
	w := New()
	for x := int32(-150); x < 150; x++ {
		w.Put(core.Pos{X: x, Y: 0}, CellRef{Material: 1})
	}
	w.Put(core.Pos{X: 0, Y: 0}, CellRef{Material: 2})
	if got := w.TotalOccupancy(); got != 300 {
		t.Fatalf("occupancy = %d, want 300", got)
	}
}

func TestBounds(t *testing.T) {
	w := New()
	if _, _, ok := w.Bounds(); ok {
		t.Fatal("empty world has no bounds")
	}
	w.Put(core.Pos{X: -1, Y: 5}, CellRef{Material: 1})
	w.Put(core.Pos{X: 150, Y: 250}, CellRef{Material: 1})
	lo, hi, ok := w.Bounds()
	if !ok || lo != (core.Pos{X: -100, Y: 0}) || hi != (core.Pos{X: 199, Y: 299}) {
		t.Fatalf("bounds = %v..%v (%v)", lo, hi, ok)
	}
}
