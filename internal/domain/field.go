package domain

// Field is a dense 2-D scalar grid stored x-major, so the flattened index of
// cell (x, y) is x*Height+y. Hotspot tie-breaking depends on that order.
type Field struct {
	Width  int
	Height int
	data   []float64
}

// NewField allocates a Width×Height field with every cell set to fill.
func NewField(width, height int, fill float64) *Field {
	f := &Field{
		Width:  width,
		Height: height,
		data:   make([]float64, width*height),
	}
	for i := range f.data {
		f.data[i] = fill
	}
	return f
}

// Clone returns a deep copy sharing no storage with the receiver.
func (f *Field) Clone() *Field {
	dup := &Field{
		Width:  f.Width,
		Height: f.Height,
		data:   make([]float64, len(f.data)),
	}
	copy(dup.data, f.data)
	return dup
}

// CopyFrom overwrites every cell with the values of src.
func (f *Field) CopyFrom(src *Field) {
	copy(f.data, src.data)
}

// In reports whether (x, y) lies inside the grid.
func (f *Field) In(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// At returns the value of cell (x, y).
func (f *Field) At(x, y int) float64 {
	return f.data[x*f.Height+y]
}

// Set overwrites cell (x, y).
func (f *Field) Set(x, y int, v float64) {
	f.data[x*f.Height+y] = v
}

// Add adds v to cell (x, y).
func (f *Field) Add(x, y int, v float64) {
	f.data[x*f.Height+y] += v
}

// Scale multiplies cell (x, y) by factor.
func (f *Field) Scale(x, y int, factor float64) {
	f.data[x*f.Height+y] *= factor
}

// Mean returns the average of all cells.
func (f *Field) Mean() float64 {
	var sum float64
	for _, v := range f.data {
		sum += v
	}
	return sum / float64(len(f.data))
}

// Max returns the cell with the highest value. Ties resolve to the lowest
// flattened index.
func (f *Field) Max() (x, y int, v float64) {
	maxIdx := 0
	for i, val := range f.data {
		if val > f.data[maxIdx] {
			maxIdx = i
		}
	}
	return maxIdx / f.Height, maxIdx % f.Height, f.data[maxIdx]
}
