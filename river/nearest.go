package river

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Attr an externally supplied river attribute feature: a geometry with
// observed channel width and/or bankfull discharge (NaN where unknown).
type Attr struct {
	Geom      orb.Geometry
	Rivwth    float64
	Qbankfull float64
}

// midpoint representative point of a segment used for the nearest join
func (sg *Segment) midpoint() orb.Point {
	if len(sg.Geom) == 0 {
		return orb.Point{}
	}
	return sg.Geom[len(sg.Geom)/2]
}

// NearestJoin copies width/discharge from the nearest attribute feature
// within maxDist [m] onto each segment. Already-set segment values are
// overwritten only where the joined value is valid.
func NearestJoin(segs Segments, attrs []Attr, maxDist float64) {
	if len(attrs) == 0 {
		return
	}
	for _, sg := range segs {
		pt := sg.midpoint()
		jmin, dmin := -1, math.Inf(1)
		for j, a := range attrs {
			d := planar.DistanceFrom(a.Geom, pt)
			if d < dmin {
				jmin, dmin = j, d
			}
		}
		if jmin < 0 || dmin > maxDist {
			continue
		}
		if !math.IsNaN(attrs[jmin].Rivwth) {
			sg.Rivwth = attrs[jmin].Rivwth
		}
		if !math.IsNaN(attrs[jmin].Qbankfull) {
			sg.Qbankfull = attrs[jmin].Qbankfull
		}
	}
}
