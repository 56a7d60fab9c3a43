package river

import (
	"math"

	"github.com/maseology/topobathy/grid"
)

// profileSlope longitudinal slope of an elevation profile between each
// segment and its downstream neighbour, floored at minSlope; outlets inherit
// the floor.
func (s Segments) profileSlope(z []float64, minSlope float64) []float64 {
	out := make([]float64, len(s))
	for i, sg := range s {
		out[i] = minSlope
		j := sg.DownID
		if j < 0 {
			continue
		}
		ddst := sg.Rivdst - s[j].Rivdst
		if ddst <= 0 {
			continue
		}
		slp := (z[i] - z[j]) / ddst
		if slp > minSlope {
			out[i] = slp
		}
	}
	return out
}

// riverDepth estimates the raw bankfull depth per segment. Methods:
//
//	manning - wide-channel Manning depth from bankfull discharge, width and
//	          the water-surface slope
//	powlaw  - power-law depth/discharge relation h = hc·Q^hp
//	gvf     - gradually-varying flow: Manning iterated with the slope
//	          recomputed from the implied bed profile
func riverDepth(segs Segments, method string, p Params) ([]float64, error) {
	n := len(segs)
	h := make([]float64, n)

	manning := func(slp []float64) {
		for i, sg := range segs {
			w := sg.Rivwth
			if math.IsNaN(w) || w < 1 {
				w = 1
			}
			q := sg.Qbankfull
			if math.IsNaN(q) || q < 0 {
				q = 0
			}
			h[i] = math.Pow(p.Manning*q/(w*math.Sqrt(slp[i])), .6)
		}
	}

	switch method {
	case "powlaw":
		for i, sg := range segs {
			q := sg.Qbankfull
			if math.IsNaN(q) || q < 0 {
				q = 0
			}
			h[i] = p.PowlawHc * math.Pow(q, p.PowlawHp)
		}
	case "manning":
		zs := make([]float64, n)
		for i, sg := range segs {
			zs[i] = sg.Zs
		}
		manning(segs.profileSlope(zs, p.MinSlope))
	case "gvf":
		zs := make([]float64, n)
		for i, sg := range segs {
			zs[i] = sg.Zs
		}
		manning(segs.profileSlope(zs, p.MinSlope))
		// refine against the implied bed profile
		for it := 0; it < 4; it++ {
			zb := make([]float64, n)
			for i := range segs {
				zb[i] = zs[i] - h[i]
			}
			zb = segs.ProfileAdjust(zb)
			manning(segs.profileSlope(zb, p.MinSlope))
		}
	default:
		return nil, grid.ConfigErrorf("unknown river depth method %q", method)
	}

	for i := range h {
		if math.IsNaN(h[i]) || h[i] < p.MinDepth {
			h[i] = p.MinDepth
		}
	}
	return h, nil
}
