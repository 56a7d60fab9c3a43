package grid

import "math"

// metres per degree latitude, used to compare resolutions across geographic grids
const DegreeLength = 111111.

// Definition describes the geo-referencing of a uniform raster grid: origin at
// the upper-left corner, cell size (Dy<0 for north-up grids), optional
// rotation, and coordinate reference system.
type Definition struct {
	Nx, Ny     int
	Xul, Yul   float64 // upper-left corner
	Dx, Dy     float64 // cell size; Dy is negative for north-up grids
	Rot        float64 // rotation about the upper-left corner (radians)
	EPSG       int
	Geographic bool // true where coordinates are in degrees
}

// Ncells total cell count
func (gd *Definition) Ncells() int { return gd.Nx * gd.Ny }

// CellArea area of one cell in m²
func (gd *Definition) CellArea() float64 {
	dx, dy := math.Abs(gd.Dx), math.Abs(gd.Dy)
	if gd.Geographic {
		dx *= DegreeLength
		dy *= DegreeLength
	}
	return dx * dy
}

// CellWidth east-west cell size in metres
func (gd *Definition) CellWidth() float64 {
	dx := math.Abs(gd.Dx)
	if gd.Geographic {
		dx *= DegreeLength
	}
	return dx
}

// CellCentroid coordinate of the centre of cell (row,col)
func (gd *Definition) CellCentroid(row, col int) (x, y float64) {
	return gd.Xul + (float64(col)+.5)*gd.Dx, gd.Yul + (float64(row)+.5)*gd.Dy
}

// CellIndex returns the (row,col) containing coordinate (x,y); ok=false when
// the point falls outside the grid.
func (gd *Definition) CellIndex(x, y float64) (row, col int, ok bool) {
	col = int(math.Floor((x - gd.Xul) / gd.Dx))
	row = int(math.Floor((y - gd.Yul) / gd.Dy))
	return row, col, row >= 0 && row < gd.Ny && col >= 0 && col < gd.Nx
}

// CellID row-major cell index
func (gd *Definition) CellID(row, col int) int { return row*gd.Nx + col }

// RowCol inverse of CellID
func (gd *Definition) RowCol(cid int) (row, col int) { return cid / gd.Nx, cid % gd.Nx }

// Bounds (xmin,ymin,xmax,ymax)
func (gd *Definition) Bounds() (xn, yn, xx, yx float64) {
	x0, x1 := gd.Xul, gd.Xul+float64(gd.Nx)*gd.Dx
	y0, y1 := gd.Yul, gd.Yul+float64(gd.Ny)*gd.Dy
	return math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1)
}

// Same reports whether two definitions describe the same pixel grid
func (gd *Definition) Same(o *Definition) bool {
	const tol = 1e-9
	eq := func(a, b float64) bool { return math.Abs(a-b) < tol }
	return gd.Nx == o.Nx && gd.Ny == o.Ny &&
		eq(gd.Xul, o.Xul) && eq(gd.Yul, o.Yul) &&
		eq(gd.Dx, o.Dx) && eq(gd.Dy, o.Dy) && eq(gd.Rot, o.Rot) &&
		gd.Geographic == o.Geographic
}

// Real a real-valued raster: a grid definition, row-major cell values (row 0
// northernmost) and a single no-data sentinel. NaN is a legal sentinel.
type Real struct {
	GD     *Definition
	Nodata float64
	Vals   []float64
}

// NewReal builds a raster filled with nodata
func NewReal(gd *Definition, nodata float64) *Real {
	v := make([]float64, gd.Ncells())
	for i := range v {
		v[i] = nodata
	}
	return &Real{GD: gd, Nodata: nodata, Vals: v}
}

// Clone deep copy
func (r *Real) Clone() *Real {
	v := make([]float64, len(r.Vals))
	copy(v, r.Vals)
	return &Real{GD: r.GD, Nodata: r.Nodata, Vals: v}
}

// IsNodata reports whether v matches the raster's sentinel
func (r *Real) IsNodata(v float64) bool {
	if math.IsNaN(r.Nodata) {
		return math.IsNaN(v)
	}
	return v == r.Nodata || math.IsNaN(v)
}

// Valid reports whether cell i holds data
func (r *Real) Valid(i int) bool { return !r.IsNodata(r.Vals[i]) }

// Value cell value at (row,col)
func (r *Real) Value(row, col int) float64 { return r.Vals[row*r.GD.Nx+col] }

// Set assigns cell (row,col)
func (r *Real) Set(row, col int, v float64) { r.Vals[row*r.GD.Nx+col] = v }

// NodataCount number of no-data cells
func (r *Real) NodataCount() int {
	n := 0
	for _, v := range r.Vals {
		if r.IsNodata(v) {
			n++
		}
	}
	return n
}

// ToNaN returns a copy with no-data cells set to NaN and the sentinel
// re-tagged to NaN; merge arithmetic operates in NaN space.
func (r *Real) ToNaN() *Real {
	o := r.Clone()
	if !math.IsNaN(r.Nodata) {
		for i, v := range o.Vals {
			if r.IsNodata(v) {
				o.Vals[i] = math.NaN()
			}
		}
	}
	o.Nodata = math.NaN()
	return o
}

// FromNaN returns a copy with NaN cells replaced by the given sentinel
func (r *Real) FromNaN(nodata float64) *Real {
	o := r.Clone()
	for i, v := range o.Vals {
		if math.IsNaN(v) {
			o.Vals[i] = nodata
		}
	}
	o.Nodata = nodata
	return o
}

// ValidMask boolean mask of data cells
func (r *Real) ValidMask() []bool {
	m := make([]bool, len(r.Vals))
	for i, v := range r.Vals {
		m[i] = !r.IsNodata(v)
	}
	return m
}
