package flownet

import "github.com/maseology/topobathy/grid"

// HAND height above nearest drainage: for every cell, the elevation drop to
// the first stream cell encountered following the flow path. Cells that never
// reach a stream cell, and no-data elevation cells, return no-data.
func (n *Network) HAND(streams []bool, elev *grid.Real) *grid.Real {
	out := grid.NewReal(n.GD, elev.Nodata)
	zdrain := make([]float64, len(n.Ds))
	has := make([]bool, len(n.Ds))
	for k := len(n.order) - 1; k >= 0; k-- { // downstream first
		i := n.order[k]
		if !elev.Valid(i) {
			continue
		}
		if streams[i] {
			zdrain[i] = elev.Vals[i]
			has[i] = true
		} else if j := n.Ds[i]; j >= 0 && has[j] {
			zdrain[i] = zdrain[j]
			has[i] = true
		}
		if has[i] {
			h := elev.Vals[i] - zdrain[i]
			if h < 0 {
				h = 0
			}
			out.Vals[i] = h
		}
	}
	return out
}
