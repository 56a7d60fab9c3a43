package river

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/maseology/topobathy/flownet"
	"github.com/maseology/topobathy/grid"
)

// Params tuning for the bed-level reconstruction
type Params struct {
	Method         string  // depth method: gvf, manning or powlaw
	RiverUpa       float64 // minimum contributing area of a river cell [km²]
	SegmentLength  float64 // target segment length [m]
	SmoothLength   float64 // longitudinal smoothing length [m]
	MinConvergence float64 // width convergence threshold for estuaries [m/m]
	MaxElevEstuary float64 // land-surface ceiling for estuarine reaches [m]
	MaxDist        float64 // search radius of the attribute join [m]
	BankQ          float64 // HAND percentile for bank height [0-100]
	NminBank       int     // minimum bank-cell sample size
	MinDepth       float64 // depth floor [m]
	MinSlope       float64 // slope floor for Manning-type methods [-]
	Manning        float64 // channel roughness [s/m^(1/3)]
	PowlawHc       float64 // power-law depth coefficient
	PowlawHp       float64 // power-law depth exponent
	AdjustEstuary  bool
	AdjustRivwth   bool
	AdjustDem      bool
}

// DefaultParams the reconstruction defaults
func DefaultParams() Params {
	return Params{
		Method:         "gvf",
		RiverUpa:       100,
		SegmentLength:  5e3,
		SmoothLength:   10e3,
		MinConvergence: .01,
		MaxElevEstuary: 5,
		MaxDist:        100,
		BankQ:          25,
		NminBank:       20,
		MinDepth:       1,
		MinSlope:       1e-5,
		Manning:        .03,
		PowlawHc:       .27,
		PowlawHp:       .30,
		AdjustEstuary:  true,
		AdjustRivwth:   true,
		AdjustDem:      true,
	}
}

// Options inputs to ReconstructZb beyond the grids
type Options struct {
	Attrs   []Attr  // river width/discharge features; optional
	Qbf     []Attr  // bankfull-discharge features taking precedence; optional
	RivMask []bool  // externally supplied channel mask; optional
	Params  *Params // nil for defaults
	Logger  *log.Logger
}

func ensureLogger(lg *log.Logger) *log.Logger {
	if lg == nil {
		return log.New(io.Discard)
	}
	return lg
}

// ReconstructZb derives a bed-elevation profile for every river segment from
// the fused elevation grid, the contributing-area grid and the flow network:
// bank heights from HAND, a smoothed monotonic bankfull surface, a depth
// estimate, estuary overrides, and final bed level and slope. Returns the
// populated segment table and the channel-cell mask.
func ReconstructZb(elev, upa *grid.Real, flw *flownet.Network, o Options) (Segments, []bool, error) {
	lg := ensureLogger(o.Logger)
	p := DefaultParams()
	if o.Params != nil {
		p = *o.Params
	}
	gd := flw.GD

	// stream segments
	segs := ExtractStreams(flw, upa, elev, p.RiverUpa, p.SegmentLength)
	if len(segs) == 0 {
		return nil, nil, grid.ConfigErrorf("no river cells exceed the %g km² contributing-area threshold", p.RiverUpa)
	}
	lg.Info("extracted river segments", "n", len(segs))

	// attribute join; discharge cannot be invented
	NearestJoin(segs, o.Attrs, p.MaxDist)
	NearestJoin(segs, o.Qbf, p.MaxDist)
	nq := 0
	for _, sg := range segs {
		if !math.IsNaN(sg.Qbankfull) {
			nq++
		}
	}
	if nq == 0 {
		return nil, nil, grid.ConfigErrorf("river segments have no bankfull discharge (qbankfull) data")
	}
	fillAttr := func(get func(*Segment) float64, set func(*Segment, float64)) {
		vals := make([]float64, len(segs))
		for i, sg := range segs {
			vals[i] = get(sg)
		}
		vals = segs.FillDownstream(vals, math.NaN(), "max")
		for i, sg := range segs {
			if math.IsNaN(vals[i]) {
				set(sg, 0) // nothing upstream to inherit from
			} else {
				set(sg, math.Max(0, vals[i]))
			}
		}
	}
	fillAttr(func(sg *Segment) float64 { return sg.Qbankfull }, func(sg *Segment, v float64) { sg.Qbankfull = v })
	nw := 0
	for _, sg := range segs {
		if !math.IsNaN(sg.Rivwth) {
			nw++
		}
	}
	if nw > 0 {
		fillAttr(func(sg *Segment) float64 { return sg.Rivwth }, func(sg *Segment, v float64) { sg.Rivwth = v })
	}

	// channel mask
	var rivmsk []bool
	switch {
	case o.RivMask == nil && nw > 0:
		if gd.Geographic {
			return nil, nil, grid.ConfigErrorf("river mask from width buffering requires a projected reference system")
		}
		rivmsk = bufferMask(segs, gd, func(sg *Segment) float64 { return sg.Rivwth / 2 })
		for i := range rivmsk {
			rivmsk[i] = rivmsk[i] && elev.Valid(i)
		}
	case o.RivMask != nil:
		rivmsk = make([]bool, gd.Ncells())
		copy(rivmsk, o.RivMask)
		for _, sg := range segs { // union with the traced channel line
			for _, i := range lineCells(gd, sg.Geom) {
				rivmsk[i] = true
			}
		}
	default:
		return nil, nil, grid.ConfigErrorf("no river width or river mask provided")
	}

	smoothN := int(math.Round(p.SmoothLength / p.SegmentLength / 2))

	// bankfull surface elevation
	lg.Info("deriving bankfull river surface elevation profile")
	hnd := flw.HAND(StreamMask(upa, p.RiverUpa), elev)
	dz := BankHeights(segs, rivmsk, hnd, p.NminBank, p.BankQ)
	n := len(segs)
	elevtn, zs0 := make([]float64, n), make([]float64, n)
	for i, sg := range segs {
		elevtn[i] = sg.Elevtn
		zs0[i] = sg.Elevtn + dz[i]
	}
	zs := segs.ProfileAdjust(segs.MovingAverage(zs0, smoothN))
	for i, sg := range segs {
		sg.Zs = math.Max(elevtn[i], zs[i]) // the surface cannot sit below land
		sg.RivbankDz = sg.Zs - elevtn[i]
	}

	// segment-average width from the mask geometry
	if p.AdjustRivwth {
		lg.Info("deriving river segment average width")
		wth := maskWidths(segs, rivmsk, gd)
		wth = segs.FillDownstream(wth, math.NaN(), "max")
		for i, sg := range segs {
			if math.IsNaN(wth[i]) {
				sg.Rivwth = 0
			} else {
				sg.Rivwth = math.Max(0, wth[i])
			}
		}
	}

	// depth estimate
	dph0, err := riverDepth(segs, p.Method, p)
	if err != nil {
		return nil, nil, err
	}
	dph := segs.MovingAverage(dph0, smoothN)
	for i, sg := range segs {
		sg.Rivdph0 = dph0[i]
	}

	// estuarine reaches take their depth from upstream, not the river model
	if p.AdjustEstuary {
		wth := make([]float64, n)
		for i, sg := range segs {
			wth[i] = sg.Rivwth
		}
		est := segs.ClassifyEstuaries(segs.MovingAverage(wth, smoothN), p.MinConvergence, p.MaxElevEstuary)
		nest := 0
		for i, e := range est {
			segs[i].Estuary = e
			if e {
				dph[i] = math.NaN()
				nest++
			}
		}
		if nest > 0 {
			lg.Info("estuarine reaches identified", "n", nest)
			dph = segs.FillDownstream(dph, math.NaN(), "max")
		}
	}

	for i := range dph { // no NaN leaves this function
		if math.IsNaN(dph[i]) {
			dph[i] = p.MinDepth
		}
	}

	// bed level and slope
	zb := make([]float64, n)
	for i := range segs {
		zb[i] = segs[i].Zs - dph[i]
	}
	if p.AdjustDem {
		zb = segs.ProfileAdjust(zb)
	}
	for i, sg := range segs {
		sg.Zb = math.Min(zb[i], elevtn[i]) // bed cannot rise above the land sample
		sg.Rivdph = sg.Zs - sg.Zb
	}
	for _, sg := range segs {
		sg.Rivslp = 0
		if j := sg.DownID; j >= 0 {
			if ddst := sg.Rivdst - segs[j].Rivdst; ddst > 0 {
				sg.Rivslp = (sg.Zb - segs[j].Zb) / ddst
			}
		}
	}
	return segs, rivmsk, nil
}

// maskWidths per-segment average channel width implied by the mask: the area
// of mask cells nearest to each segment divided by its length
func maskWidths(segs Segments, rivmsk []bool, gd *grid.Definition) []float64 {
	segid := RasterizeSegments(segs, gd, func(sg *Segment) float64 { return float64(sg.ID) }, 0)
	segid.Nodata = 0
	segid = grid.Spread(segid, rivmsk)
	cnt := make(map[int]int, len(segs))
	for i, m := range rivmsk {
		if m {
			if id := int(segid.Vals[i]); id > 0 {
				cnt[id]++
			}
		}
	}
	ca := gd.CellArea()
	out := make([]float64, len(segs))
	for i, sg := range segs {
		out[i] = math.NaN()
		if l := sg.SegLength(); l > 0 {
			if c, ok := cnt[sg.ID]; ok && c > 0 {
				out[i] = float64(c) * ca / l
			}
		}
	}
	return out
}
