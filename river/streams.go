package river

import (
	"math"

	"github.com/maseology/topobathy/flownet"
	"github.com/maseology/topobathy/grid"
	"github.com/paulmach/orb"
)

// ExtractStreams traces the channel network from the flow directions,
// keeping cells whose contributing area exceeds riverUpa [km²] and chopping
// flow paths into segments of roughly segmentLength [m]. Attributes are
// sampled at each segment's downstream cell.
func ExtractStreams(flw *flownet.Network, upa, elev *grid.Real, riverUpa, segmentLength float64) Segments {
	gd := flw.GD
	mask := make([]bool, gd.Ncells())
	for i, v := range upa.Vals {
		mask[i] = !upa.IsNodata(v) && v > riverUpa
	}
	dist := flw.Distnc()
	strord := flw.StreamOrder(mask)

	maxn := int(math.Round(segmentLength / gd.CellWidth()))
	if maxn < 1 {
		maxn = 1
	}

	// upstream stream-cell counts locate confluences
	nup := make([]int, gd.Ncells())
	for i := range mask {
		if mask[i] {
			if j := flw.Ds[i]; j >= 0 && mask[j] {
				nup[j]++
			}
		}
	}

	starts := []int{}
	for i := range mask {
		if mask[i] && (nup[i] == 0 || nup[i] > 1) {
			starts = append(starts, i)
		}
	}

	type seg struct {
		cells []int
		next  int // start cell of the downstream segment; -1 outlet
	}
	raw := []seg{}
	seen := make(map[int]bool, len(starts))
	for len(starts) > 0 {
		c0 := starts[0]
		starts = starts[1:]
		if seen[c0] {
			continue
		}
		seen[c0] = true
		cells := []int{c0}
		c := c0
		for len(cells) < maxn {
			j := flw.Ds[c]
			if j < 0 || !mask[j] || nup[j] > 1 {
				break
			}
			cells = append(cells, j)
			c = j
		}
		next := flw.Ds[c]
		if next < 0 || !mask[next] {
			next = -1
		} else if !seen[next] {
			starts = append(starts, next) // confluence or max-length split
		}
		raw = append(raw, seg{cells, next})
	}

	// start cell -> segment index resolves downstream links
	sx := make(map[int]int, len(raw))
	for k, sg := range raw {
		sx[sg.cells[0]] = k
	}

	segs := make(Segments, len(raw))
	for k, sg := range raw {
		ls := make(orb.LineString, len(sg.cells))
		for m, c := range sg.cells {
			row, col := gd.RowCol(c)
			x, y := gd.CellCentroid(row, col)
			ls[m] = orb.Point{x, y}
		}
		end := sg.cells[len(sg.cells)-1]
		down := -1
		if sg.next >= 0 {
			down = sx[sg.next]
		}
		e := math.NaN()
		if elev.Valid(end) {
			e = elev.Vals[end]
		}
		segs[k] = &Segment{
			ID:        k + 1,
			Geom:      ls,
			DownID:    down,
			Uparea:    upa.Vals[end],
			Elevtn:    e,
			Rivdst:    dist[end],
			Strord:    strord[end],
			Rivwth:    math.NaN(),
			Qbankfull: math.NaN(),
		}
	}
	return segs
}

// StreamMask the boolean channel-cell mask used by ExtractStreams
func StreamMask(upa *grid.Real, riverUpa float64) []bool {
	mask := make([]bool, len(upa.Vals))
	for i, v := range upa.Vals {
		mask[i] = !upa.IsNodata(v) && v > riverUpa
	}
	return mask
}
