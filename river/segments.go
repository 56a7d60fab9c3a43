// Package river reconstructs hydraulically-plausible river-bed elevations
// over a fused elevation grid and burns them back into the DEM.
package river

import (
	"math"

	"github.com/maseology/mmaths/topology"
	"github.com/paulmach/orb"
)

// Segment one reach of the channel network. Each segment drains to exactly
// one downstream segment (DownID, -1 at outlets), forming a directed tree.
type Segment struct {
	ID        int
	Geom      orb.LineString
	DownID    int     // table index of the downstream segment; -1 outlet
	Uparea    float64 // contributing area at the downstream end [km²]
	Elevtn    float64 // land-surface elevation sample [m]
	Rivdst    float64 // along-network distance from the outlet [m]
	Strord    int
	Rivwth    float64 // channel width [m]; NaN unknown
	Qbankfull float64 // bankfull discharge [m³/s]; NaN unknown
	Zs        float64 // bankfull surface elevation [m]
	RivbankDz float64 // bank height above the land-surface sample [m]
	Rivdph0   float64 // raw depth estimate [m]
	Rivdph    float64 // smoothed depth [m]
	Zb        float64 // bed elevation [m]
	Rivslp    float64 // longitudinal bed slope [-]
	Estuary   bool
}

// Segments the river segment table
type Segments []*Segment

// topoOrder table indices ordered upstream to downstream
func (s Segments) topoOrder() []int {
	m := make(map[int]int, len(s))
	for i, sg := range s {
		d := sg.DownID
		if d < 0 {
			d = -1
		}
		m[i] = d
	}
	return topology.OrderFromToTree(m, -1)
}

// mainUpstream for each segment, the table index of its largest-area
// upstream neighbour (-1 at headwaters); this traces the main stem.
func (s Segments) mainUpstream() []int {
	up := make([]int, len(s))
	for i := range up {
		up[i] = -1
	}
	for i, sg := range s {
		j := sg.DownID
		if j < 0 {
			continue
		}
		if up[j] < 0 || sg.Uparea > s[up[j]].Uparea {
			up[j] = i
		}
	}
	return up
}

// Downstream maps each segment to the value held by its downstream
// neighbour; NaN at outlets.
func (s Segments) Downstream(vals []float64) []float64 {
	out := make([]float64, len(s))
	for i, sg := range s {
		if sg.DownID < 0 {
			out[i] = math.NaN()
		} else {
			out[i] = vals[sg.DownID]
		}
	}
	return out
}

// MovingAverage smooths a per-segment series along the main stem: for each
// segment the window spans n segments up- and n segments downstream. NaN
// entries are skipped.
func (s Segments) MovingAverage(vals []float64, n int) []float64 {
	up := s.mainUpstream()
	out := make([]float64, len(s))
	for i := range s {
		sum, cnt := 0., 0
		add := func(v float64) {
			if !math.IsNaN(v) {
				sum += v
				cnt++
			}
		}
		add(vals[i])
		k := i
		for w := 0; w < n; w++ { // upstream leg
			k = up[k]
			if k < 0 {
				break
			}
			add(vals[k])
		}
		k = i
		for w := 0; w < n; w++ { // downstream leg
			k = s[k].DownID
			if k < 0 {
				break
			}
			add(vals[k])
		}
		if cnt == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(cnt)
		}
	}
	return out
}

// FillDownstream propagates valid values downstream through the network:
// a segment lacking data inherits from its upstream neighbours, combined by
// how ("max" or "min") where more than one contributes. The sentinel marks
// missing entries (NaN always counts as missing).
func (s Segments) FillDownstream(vals []float64, sentinel float64, how string) []float64 {
	out := make([]float64, len(s))
	copy(out, vals)
	missing := func(v float64) bool { return math.IsNaN(v) || v == sentinel }
	for _, i := range s.topoOrder() { // upstream first
		if missing(out[i]) {
			continue
		}
		j := s[i].DownID
		if j < 0 || !missing(vals[j]) {
			continue
		}
		switch {
		case missing(out[j]):
			out[j] = out[i]
		case how == "min":
			out[j] = math.Min(out[j], out[i])
		default: // max
			out[j] = math.Max(out[j], out[i])
		}
	}
	return out
}

// ProfileAdjust forces a per-segment elevation profile to be monotonically
// non-increasing downstream by digging downstream values.
func (s Segments) ProfileAdjust(vals []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, vals)
	for _, i := range s.topoOrder() { // upstream first
		if math.IsNaN(out[i]) {
			continue
		}
		j := s[i].DownID
		if j < 0 || math.IsNaN(out[j]) {
			continue
		}
		if out[j] > out[i] {
			out[j] = out[i]
		}
	}
	return out
}

// ClassifyEstuaries flags segments under tidal/marine influence: walking up
// the main stem from every low-lying outlet, a reach stays estuarine while
// the channel width fails to converge landward faster than minConvergence
// [m width per m distance]. maxElev caps the land-surface elevation an
// estuarine reach may hold.
func (s Segments) ClassifyEstuaries(rivwth []float64, minConvergence, maxElev float64) []bool {
	up := s.mainUpstream()
	est := make([]bool, len(s))
	for i, sg := range s {
		if sg.DownID >= 0 || sg.Elevtn > maxElev {
			continue
		}
		for k := i; k >= 0; k = up[k] {
			if s[k].Elevtn > maxElev {
				break
			}
			u := up[k]
			if u < 0 {
				break
			}
			ddst := s[u].Rivdst - s[k].Rivdst
			if ddst <= 0 {
				break
			}
			conv := (rivwth[k] - rivwth[u]) / ddst
			if math.IsNaN(conv) || conv >= minConvergence {
				break
			}
			est[k] = true
		}
	}
	return est
}

// SegLength planar length of the segment geometry [m]
func (sg *Segment) SegLength() float64 {
	l := 0.
	for i := 1; i < len(sg.Geom); i++ {
		l += math.Hypot(sg.Geom[i][0]-sg.Geom[i-1][0], sg.Geom[i][1]-sg.Geom[i-1][1])
	}
	return l
}
