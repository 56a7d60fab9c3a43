package merge

import (
	"errors"
	"math"

	"github.com/maseology/topobathy/grid"
)

// resMeters a grid's east-west resolution in metres, geographic grids
// converted at the fixed degree length
func resMeters(gd *grid.Definition) float64 {
	dx := math.Abs(gd.Dx)
	if gd.Geographic {
		dx *= grid.DegreeLength
	}
	return dx
}

// defaultMethod picks a resampling kernel from relative resolution: a source
// coarser than (or equal to) the destination is interpolated bilinearly, a
// finer source is aggregated by area average — avoiding both over-smoothing
// of fine data and aliasing when downsampling.
func defaultMethod(src, dst *grid.Definition) grid.Method {
	if resMeters(src) >= resMeters(dst) {
		return grid.Bilinear
	}
	return grid.Average
}

// MergeMulti folds an ordered list of sources through the pairwise engine.
// Order encodes priority: earlier sources win under the first rule. The
// first source defines the destination grid unless Options.Like is given.
func MergeMulti(srcs []Source, o Options) (*grid.Real, error) {
	lg := ensureLogger(o.Logger)
	if len(srcs) == 0 {
		return nil, grid.ConfigErrorf("no source rasters provided")
	}
	progress := func(done int) {
		if o.Progress != nil {
			o.Progress(done, len(srcs))
		}
	}

	// project the first source onto the destination grid
	like := o.Like
	if like == nil {
		like = srcs[0].Raster.GD
	}
	m0 := defaultMethod(srcs[0].Raster.GD, like)
	if srcs[0].Policy.Resample != nil {
		m0 = *srcs[0].Policy.Resample
	}
	acc, err := grid.Resample(srcs[0].Raster, like, m0)
	if err != nil && !errors.Is(err, grid.ErrNoOverlap) {
		return nil, err
	}
	if acc == nil {
		return nil, grid.ConfigErrorf("first source raster has no coverage over the destination grid")
	}
	lg.Debug("projected first source", "method", m0.String())
	accNaN := acc.ToNaN()
	if err := applyPolicy(accNaN, acc, srcs[0].Policy); err != nil {
		return nil, err
	}
	nodata := srcs[0].Raster.Nodata
	if math.IsNaN(nodata) || math.IsInf(nodata, 0) {
		nodata = -9999
	}
	acc = accNaN.FromNaN(nodata)
	progress(1)

	for k := 1; k < len(srcs); k++ {
		s := srcs[k]
		if (s.Policy.Rule == First || s.Policy.Rule == "") && acc.NodataCount() == 0 {
			lg.Debug("accumulator complete; source skipped", "source", k)
			progress(k + 1)
			continue
		}
		p := s.Policy
		if p.Resample == nil {
			m := defaultMethod(s.Raster.GD, like)
			p.Resample = &m
		}
		lg.Debug("merging source", "source", k, "rule", string(p.Rule), "method", p.Resample.String())
		acc, err = Merge(acc, s.Raster, p, o)
		if err != nil {
			return nil, err
		}
		progress(k + 1)
	}
	return acc, nil
}
