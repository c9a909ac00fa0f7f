package core

import "testing"

func TestFloatGridIndexing(t *testing.T) {
	g := NewFloatGrid(4, 3)
	if g.Size() != (Size{W: 4, H: 3}) {
		t.Fatalf("size = %+v", g.Size())
	}
	if len(g.Cells()) != 12 {
		t.Fatalf("cells = %d, want 12", len(g.Cells()))
	}

	g.Set(3, 2, 0.75)
	if g.At(3, 2) != 0.75 {
		t.Fatalf("At(3,2) = %g, want 0.75", g.At(3, 2))
	}
	if g.Index(3, 2) != 11 {
		t.Fatalf("Index(3,2) = %d, want 11 (row-major)", g.Index(3, 2))
	}

	g.Clear()
	for i, v := range g.Cells() {
		if v != 0 {
			t.Fatalf("cell %d = %g after Clear", i, v)
		}
	}
}

func TestNewFloatGridClampsDegenerateDimensions(t *testing.T) {
	g := NewFloatGrid(0, -2)
	if g.W != 1 || g.H != 1 {
		t.Fatalf("degenerate grid = %dx%d, want 1x1", g.W, g.H)
	}
}
