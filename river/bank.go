package river

import (
	"math"
	"sort"

	"github.com/maseology/topobathy/grid"
)

// BankHeights estimates a bank height for every segment from the HAND values
// of cells in the ring immediately outside the channel mask. Ring cells are
// assigned to their nearest segment; the q-th percentile (0-100) of each
// segment's sample forms its bank height, or 0 where fewer than nmin cells
// were found.
func BankHeights(segs Segments, rivmsk []bool, hnd *grid.Real, nmin int, q float64) []float64 {
	gd := hnd.GD

	segid := RasterizeSegments(segs, gd, func(sg *Segment) float64 { return float64(sg.ID) }, 0)
	segid.Nodata = 0

	filled := grid.FillHoles(rivmsk, gd) // islands inside the channel are channel
	dil := grid.Dilate(filled, gd, 1)
	segid = grid.Spread(segid, dil) // nearest segment for the bank ring

	samples := make(map[int][]float64, len(segs))
	for i := range dil {
		if !dil[i] || filled[i] { // ring: newly covered by the dilation
			continue
		}
		if !hnd.Valid(i) || hnd.Vals[i] <= 0 {
			continue
		}
		id := int(segid.Vals[i])
		if id > 0 {
			samples[id] = append(samples[id], hnd.Vals[i])
		}
	}

	dz := make([]float64, len(segs))
	for k, sg := range segs {
		s := samples[sg.ID]
		if len(s) < nmin {
			dz[k] = 0 // too few samples to trust a quantile
			continue
		}
		dz[k] = percentile(s, q)
	}
	return dz
}

// percentile linear-interpolated percentile of an unsorted sample, p in [0,100]
func percentile(s []float64, p float64) float64 {
	a := make([]float64, len(s))
	copy(a, s)
	sort.Float64s(a)
	if len(a) == 1 {
		return a[0]
	}
	f := p / 100 * float64(len(a)-1)
	i := int(math.Floor(f))
	if i >= len(a)-1 {
		return a[len(a)-1]
	}
	return a[i] + (f-float64(i))*(a[i+1]-a[i])
}
