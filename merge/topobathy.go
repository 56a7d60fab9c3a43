package merge

import (
	"math"

	"github.com/maseology/topobathy/grid"
)

// TopobathyPolicy the elevation-tuned merge settings: elevation caps mask
// clearly wrong incoming cells (cloud artifacts and the like) back to no-data
// even where the combination rule selected them.
type TopobathyPolicy struct {
	Rule     Rule
	Offset   *grid.Real
	ElvMin   *float64
	ElvMax   *float64
	Resample *grid.Method
}

// Topobathy merges two elevation rasters. Beyond the pairwise engine it
// clamps incoming elevations to [ElvMin, ElvMax] and interpolates interior
// no-data holes after combination; holes open to the domain border are real
// gaps and stay no-data.
func Topobathy(base, in *grid.Real, p TopobathyPolicy, o Options) (*grid.Real, error) {
	lg := ensureLogger(o.Logger)
	if math.IsNaN(base.Nodata) || math.IsInf(base.Nodata, 0) {
		return nil, grid.ConfigErrorf("base raster must declare a finite no-data value")
	}
	gd := base.GD

	method := grid.Bilinear
	if p.Resample != nil {
		method = *p.Resample
	}
	in2, err := grid.Resample(in, gd, method)
	if err != nil {
		if err == grid.ErrNoOverlap {
			lg.Warn("topobathy source has no coverage over the destination grid; skipped")
			return base.Clone(), nil
		}
		return nil, err
	}
	in2 = in2.ToNaN()
	if err := applyPolicy(in2, base, Policy{Offset: p.Offset}); err != nil {
		return nil, err
	}

	b := base.ToNaN()
	useIn := ruleMask(b, in2, p.Rule)
	out := b.Clone()
	for i := range out.Vals {
		if useIn[i] {
			out.Vals[i] = in2.Vals[i]
		}
	}

	// interior holes, identified before any masking below
	valid := make([]bool, len(out.Vals))
	for i, v := range out.Vals {
		valid[i] = !math.IsNaN(v)
	}
	naMask := grid.FillHoles(valid, gd)

	// force-mask elevation outliers from the incoming source
	for i := range out.Vals {
		if !useIn[i] {
			continue
		}
		if p.ElvMin != nil && in2.Vals[i] < *p.ElvMin {
			out.Vals[i] = math.NaN()
		}
		if p.ElvMax != nil && in2.Vals[i] > *p.ElvMax {
			out.Vals[i] = math.NaN()
		}
	}

	// seam band
	if o.BufferCells > 0 {
		keep := make([]bool, len(useIn))
		for i := range useIn {
			keep[i] = !useIn[i]
		}
		dil := grid.Dilate(keep, gd, o.BufferCells)
		for i := range dil {
			if dil[i] && !keep[i] {
				out.Vals[i] = math.NaN()
			}
		}
	}

	// interpolate holes, band and outliers; keep border-open gaps
	nempty := 0
	for i := range out.Vals {
		if naMask[i] && math.IsNaN(out.Vals[i]) {
			nempty++
		}
	}
	if nempty > 0 {
		lg.Debug("interpolating topobathy cells", "n", nempty)
		filled, err := grid.FillNodata(out, "linear")
		if err != nil {
			return nil, err
		}
		for i := range out.Vals {
			if naMask[i] {
				out.Vals[i] = filled.Vals[i]
			} else {
				out.Vals[i] = math.NaN() // reset extrapolated border area
			}
		}
	}
	return out.FromNaN(base.Nodata), nil
}

// MaskTopobathy returns the mask of cells within the [elvMin, elvMax]
// elevation range; local sinks enclosed by cells above elvMin are kept.
func MaskTopobathy(elv *grid.Real, elvMin, elvMax *float64) []bool {
	gd := elv.GD
	mask := elv.ValidMask()
	if elvMin != nil {
		above := make([]bool, len(elv.Vals))
		for i, v := range elv.Vals {
			above[i] = !elv.IsNodata(v) && v >= *elvMin
		}
		above = grid.FillHoles(above, gd) // keep enclosed sinks
		for i := range mask {
			mask[i] = mask[i] && above[i]
		}
	}
	if elvMax != nil {
		for i, v := range elv.Vals {
			if mask[i] && v > *elvMax {
				mask[i] = false
			}
		}
	}
	return mask
}
