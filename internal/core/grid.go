package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// FloatGrid stores a 2D grid of float64 cell values in row-major order.
// It backs per-patch spatial inputs such as the fire-severity raster.
type FloatGrid struct {
	W, H int
	data []float64
}

// NewFloatGrid allocates a grid with the given dimensions.
func NewFloatGrid(w, h int) *FloatGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FloatGrid{W: w, H: h, data: make([]float64, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *FloatGrid) Cells() []float64 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *FloatGrid) Index(x, y int) int { return y*g.W + x }

// At returns the value stored at (x, y).
func (g *FloatGrid) At(x, y int) float64 { return g.data[g.Index(x, y)] }

// Set writes the value at (x, y).
func (g *FloatGrid) Set(x, y int, v float64) { g.data[g.Index(x, y)] = v }

// Size reports the grid dimensions.
func (g *FloatGrid) Size() Size { return Size{W: g.W, H: g.H} }

// Clear fills the grid with zeros.
func (g *FloatGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
