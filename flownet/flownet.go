// Package flownet holds a D8 flow-direction network over a raster grid and
// the network-aware elevation operations the bathymetry workflow needs:
// distance to outlet, contributing area, stream order, height above nearest
// drainage, monotonic profile adjustment and D4 connectivity digging.
package flownet

import (
	"fmt"
	"math"

	"github.com/maseology/mmaths/topology"
	"github.com/maseology/topobathy/grid"
)

// Network a directed acyclic graph over raster cells; every cell drains to at
// most one of its 8 neighbours. Read-only once built.
type Network struct {
	GD    *grid.Definition
	Ds    []int // downstream cell index; -1 outlet/pit
	order []int // topological, upstream cells first
}

// New validates the downstream array and builds the topological ordering
func New(gd *grid.Definition, ds []int) (*Network, error) {
	if len(ds) != gd.Ncells() {
		return nil, fmt.Errorf("flownet.New: downstream array length %d does not match grid (%d cells)", len(ds), gd.Ncells())
	}
	m := make(map[int]int, len(ds))
	for i, d := range ds {
		if d >= len(ds) {
			return nil, fmt.Errorf("flownet.New: cell %d drains to out-of-range cell %d", i, d)
		}
		if d < 0 {
			d = -1
		}
		if d == i {
			return nil, fmt.Errorf("flownet.New: cell %d drains to itself", i)
		}
		m[i] = d
	}
	order := topology.OrderFromToTree(m, -1)
	if len(order) != len(ds) {
		return nil, fmt.Errorf("flownet.New: flow directions contain a cycle")
	}
	return &Network{GD: gd, Ds: ds, order: order}, nil
}

// TopoOrder cell indices ordered upstream to downstream
func (n *Network) TopoOrder() []int {
	o := make([]int, len(n.order))
	copy(o, n.order)
	return o
}

// steplen distance between the centres of cell i and its downstream neighbour
// in metres
func (n *Network) steplen(i int) float64 {
	j := n.Ds[i]
	if j < 0 {
		return 0
	}
	ri, ci := n.GD.RowCol(i)
	rj, cj := n.GD.RowCol(j)
	dx := float64(cj-ci) * n.GD.Dx
	dy := float64(rj-ri) * n.GD.Dy
	if n.GD.Geographic {
		dx *= grid.DegreeLength
		dy *= grid.DegreeLength
	}
	return math.Hypot(dx, dy)
}

// Distnc along-network distance to the basin outlet for every cell [m]
func (n *Network) Distnc() []float64 {
	d := make([]float64, len(n.Ds))
	for k := len(n.order) - 1; k >= 0; k-- { // downstream first
		i := n.order[k]
		if j := n.Ds[i]; j >= 0 {
			d[i] = d[j] + n.steplen(i)
		}
	}
	return d
}

// Uparea contributing area raster [km²], each cell inclusive of itself
func (n *Network) Uparea() *grid.Real {
	ca := n.GD.CellArea() / 1e6
	out := grid.NewReal(n.GD, -9999.)
	for i := range out.Vals {
		out.Vals[i] = ca
	}
	for _, i := range n.order { // upstream first
		if j := n.Ds[i]; j >= 0 {
			out.Vals[j] += out.Vals[i]
		}
	}
	return out
}

// StreamOrder Strahler order over the masked (stream) cells; zero elsewhere
func (n *Network) StreamOrder(mask []bool) []int {
	ord := make([]int, len(n.Ds))
	nmax := make([]int, len(n.Ds)) // count of upstream streams at the max order
	for _, i := range n.order {    // upstream first
		if !mask[i] {
			continue
		}
		if ord[i] == 0 {
			ord[i] = 1 // headwater
		}
		j := n.Ds[i]
		if j < 0 || !mask[j] {
			continue
		}
		switch {
		case ord[i] > ord[j]:
			ord[j] = ord[i]
			nmax[j] = 1
		case ord[i] == ord[j]:
			nmax[j]++
			if nmax[j] > 1 {
				ord[j]++
				nmax[j] = 1
			}
		}
	}
	return ord
}
