package river

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/maseology/topobathy/flownet"
	"github.com/maseology/topobathy/grid"
)

// Burn writes the reconstructed bed levels into the elevation grid within the
// channel mask. Bed values are rasterized along the segment lines (linearly
// interpolated along-stream where slope and distance are known), spread to
// cover the whole mask, and combined by cell-wise minimum: burning only ever
// lowers the surface. With adjustDem and a flow network the result is made
// monotonic downstream and every channel cell is given D4 connectivity.
// Cells outside the mask, and the no-data footprint, are untouched.
func Burn(segs Segments, elev *grid.Real, rivmsk []bool, flw *flownet.Network, adjustDem bool, lg *log.Logger) *grid.Real {
	lg = ensureLogger(lg)
	gd := elev.GD
	lg.Debug("burning bed levels into DEM")

	zb := RasterizeSegments(segs, gd, func(sg *Segment) float64 { return sg.Zb }, math.NaN())
	if flw != nil {
		// interpolate along-stream between segment endpoints
		sub := Segments{}
		for _, sg := range segs {
			if sg.Rivdst > 0 {
				sub = append(sub, sg)
			}
		}
		if len(sub) > 0 {
			slp := RasterizeSegments(sub, gd, func(sg *Segment) float64 { return sg.Rivslp }, math.NaN())
			dst := RasterizeSegments(sub, gd, func(sg *Segment) float64 { return sg.Rivdst }, math.NaN())
			distnc := flw.Distnc()
			for i := range zb.Vals {
				if math.IsNaN(zb.Vals[i]) || math.IsNaN(slp.Vals[i]) || math.IsNaN(dst.Vals[i]) || dst.Vals[i] <= 0 {
					continue
				}
				zb.Vals[i] += (distnc[i] - dst.Vals[i]) * slp.Vals[i]
			}
		}
	}

	// spread through the channel mask; burning never raises the surface
	zb = grid.Spread(zb, rivmsk)
	out := elev.Clone()
	for i := range out.Vals {
		if !rivmsk[i] || !elev.Valid(i) || math.IsNaN(zb.Vals[i]) {
			continue
		}
		out.Vals[i] = math.Min(elev.Vals[i], zb.Vals[i])
	}

	if adjustDem && flw != nil {
		lg.Debug("correcting bed level for D4 connectivity")
		adj := flw.DemAdjust(out)
		adj = flw.DemDigD4(adj, rivmsk)
		for i := range out.Vals {
			if rivmsk[i] && elev.Valid(i) {
				out.Vals[i] = adj.Vals[i]
			} else {
				out.Vals[i] = elev.Vals[i]
			}
		}
	}
	return out
}
