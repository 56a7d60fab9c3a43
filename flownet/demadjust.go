package flownet

import "github.com/maseology/topobathy/grid"

// DemAdjust returns a copy of elev where every flow path is monotonically
// non-increasing downstream; offending downstream cells are dug, never are
// upstream cells raised. No-data cells pass through untouched.
func (n *Network) DemAdjust(elev *grid.Real) *grid.Real {
	out := elev.Clone()
	for _, i := range n.order { // upstream first
		if !out.Valid(i) {
			continue
		}
		j := n.Ds[i]
		if j < 0 || !out.Valid(j) {
			continue
		}
		if out.Vals[j] > out.Vals[i] {
			out.Vals[j] = out.Vals[i]
		}
	}
	return out
}

// DemDigD4 guarantees that every masked (river) cell can drain through one of
// its 4 orthogonal neighbours: where all D4 neighbours sit higher than the
// cell, the lowest is dug down to the cell's level. Hydrodynamic routing on
// the destination grid connects through cell edges only, so diagonal-only
// channels would otherwise disconnect.
func (n *Network) DemDigD4(elev *grid.Real, rivmsk []bool) *grid.Real {
	out := elev.Clone()
	gd := n.GD
	d4 := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, i := range n.order { // upstream first so digs cascade downstream
		if !rivmsk[i] || !out.Valid(i) {
			continue
		}
		row, col := gd.RowCol(i)
		kmin, zmin := -1, 0.
		open := false
		for _, d := range d4 {
			rr, cc := row+d[0], col+d[1]
			if rr < 0 || rr >= gd.Ny || cc < 0 || cc >= gd.Nx {
				continue
			}
			k := gd.CellID(rr, cc)
			if !out.Valid(k) {
				continue
			}
			if out.Vals[k] <= out.Vals[i] {
				open = true
				break
			}
			if kmin < 0 || out.Vals[k] < zmin {
				kmin, zmin = k, out.Vals[k]
			}
		}
		if !open && kmin >= 0 {
			out.Vals[kmin] = out.Vals[i]
		}
	}
	return out
}
