package merge

import (
	"errors"
	"math"

	"github.com/maseology/topobathy/grid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Merge combines one incoming raster with a base according to the policy:
// the incoming raster is resampled onto the base grid, offset and filtered,
// combined cell-wise by the policy rule, and (optionally) blended across the
// seam. The result keeps the base's grid and no-data sentinel. A source with
// no overlapping coverage is skipped with a warning, never an error.
func Merge(base, in *grid.Real, p Policy, o Options) (*grid.Real, error) {
	lg := ensureLogger(o.Logger)
	if math.IsNaN(base.Nodata) || math.IsInf(base.Nodata, 0) {
		return nil, grid.ConfigErrorf("base raster must declare a finite no-data value")
	}

	b := base.ToNaN()

	method := grid.Bilinear
	if p.Resample != nil {
		method = *p.Resample
	}
	in2, err := grid.Resample(in, base.GD, method)
	if err != nil {
		if errors.Is(err, grid.ErrNoOverlap) {
			lg.Warn("source raster has no coverage over the destination grid; skipped")
			return base.Clone(), nil
		}
		return nil, err
	}
	in2 = in2.ToNaN()
	if err := applyPolicy(in2, base, p); err != nil {
		return nil, err
	}

	useIn := ruleMask(b, in2, p.Rule)
	out := b.Clone()
	for i := range out.Vals {
		if useIn[i] {
			if p.Rule == Mean && !math.IsNaN(b.Vals[i]) {
				out.Vals[i] = (b.Vals[i] + in2.Vals[i]) / 2
			} else {
				out.Vals[i] = in2.Vals[i]
			}
		}
	}

	if o.BufferCells > 0 && o.InterpMethod != "" {
		if err := smoothSeam(out, b, in2, useIn, o.BufferCells, o.InterpMethod); err != nil {
			return nil, err
		}
	}
	return out.FromNaN(base.Nodata), nil
}

// ruleMask cells where the incoming value participates in the result
func ruleMask(b, in *grid.Real, rule Rule) []bool {
	m := make([]bool, len(b.Vals))
	for i := range m {
		bv, iv := b.Vals[i], in.Vals[i]
		if math.IsNaN(iv) {
			continue
		}
		switch rule {
		case Last:
			m[i] = true
		case Mean:
			m[i] = true // averaged where the base is also valid
		case MinR:
			m[i] = math.IsNaN(bv) || iv < bv
		case MaxR:
			m[i] = math.IsNaN(bv) || iv > bv
		default: // First
			m[i] = math.IsNaN(bv)
		}
	}
	return m
}

// applyPolicy mutates the (already resampled) incoming raster in NaN space:
// offset, then valid range, then valid-region polygons.
func applyPolicy(in, base *grid.Real, p Policy) error {
	if p.Offset != nil {
		// the offset grid is itself resampled, zero outside its coverage
		off, err := grid.Resample(p.Offset, base.GD, grid.Bilinear)
		if err != nil && !errors.Is(err, grid.ErrNoOverlap) {
			return err
		}
		for i := range in.Vals {
			if math.IsNaN(in.Vals[i]) {
				continue
			}
			if off != nil {
				if v := off.Vals[i]; !off.IsNodata(v) {
					in.Vals[i] += v
				}
			}
		}
	} else if p.OffsetConst != 0 {
		for i := range in.Vals {
			in.Vals[i] += p.OffsetConst
		}
	}
	if p.MinValid != nil {
		for i, v := range in.Vals {
			if v < *p.MinValid {
				in.Vals[i] = math.NaN()
			}
		}
	}
	if p.MaxValid != nil {
		for i, v := range in.Vals {
			if v > *p.MaxValid {
				in.Vals[i] = math.NaN()
			}
		}
	}
	if len(p.ValidRegion) > 0 {
		gd := base.GD
		for row := 0; row < gd.Ny; row++ {
			for col := 0; col < gd.Nx; col++ {
				i := gd.CellID(row, col)
				if math.IsNaN(in.Vals[i]) {
					continue
				}
				x, y := gd.CellCentroid(row, col)
				inside := false
				for _, ply := range p.ValidRegion {
					if planar.PolygonContains(ply, orb.Point{x, y}) {
						inside = true
						break
					}
				}
				if !inside {
					in.Vals[i] = math.NaN()
				}
			}
		}
	}
	return nil
}

// smoothSeam blends the transition between the two sources: the band of
// incoming cells within bufferCells of retained base data is reset and
// refilled by interpolation, bounded to the union of both valid extents.
func smoothSeam(out, b, in *grid.Real, useIn []bool, bufferCells int, interp string) error {
	gd := out.GD
	keep := make([]bool, len(useIn))
	union := make([]bool, len(useIn))
	for i := range useIn {
		keep[i] = !useIn[i]
		union[i] = !math.IsNaN(b.Vals[i]) || !math.IsNaN(in.Vals[i])
	}
	dil := grid.Dilate(keep, gd, bufferCells)
	band := make([]bool, len(useIn))
	any := false
	for i := range band {
		band[i] = dil[i] && !keep[i] && union[i]
		if band[i] {
			out.Vals[i] = math.NaN()
			any = true
		}
	}
	if !any {
		return nil
	}
	filled, err := grid.FillNodata(out, interp)
	if err != nil {
		return err
	}
	for i := range band {
		if band[i] {
			out.Vals[i] = filled.Vals[i]
		}
	}
	return nil
}
