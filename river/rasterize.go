package river

import (
	"math"

	"github.com/maseology/topobathy/grid"
	"github.com/paulmach/orb"
)

// lineCells the grid cells traversed by a polyline, traced between the cells
// containing consecutive vertices
func lineCells(gd *grid.Definition, ls orb.LineString) []int {
	cells := []int{}
	last := -1
	push := func(row, col int) {
		if row < 0 || row >= gd.Ny || col < 0 || col >= gd.Nx {
			return
		}
		i := gd.CellID(row, col)
		if i != last {
			cells = append(cells, i)
			last = i
		}
	}
	for k := 1; k < len(ls); k++ {
		r0, c0, ok0 := gd.CellIndex(ls[k-1][0], ls[k-1][1])
		r1, c1, ok1 := gd.CellIndex(ls[k][0], ls[k][1])
		if !ok0 && !ok1 {
			continue
		}
		// Bresenham between cell indices
		dr, dc := abs(r1-r0), abs(c1-c0)
		sr, sc := 1, 1
		if r0 > r1 {
			sr = -1
		}
		if c0 > c1 {
			sc = -1
		}
		e := dc - dr
		r, c := r0, c0
		for {
			push(r, c)
			if r == r1 && c == c1 {
				break
			}
			e2 := 2 * e
			if e2 > -dr {
				e -= dr
				c += sc
			}
			if e2 < dc {
				e += dc
				r += sr
			}
		}
	}
	if len(ls) == 1 {
		if r, c, ok := gd.CellIndex(ls[0][0], ls[0][1]); ok {
			push(r, c)
		}
	}
	return cells
}

// RasterizeSegments writes val(segment) into every cell its line traverses;
// later segments overwrite earlier ones at shared (confluence) cells.
func RasterizeSegments(segs Segments, gd *grid.Definition, val func(*Segment) float64, nodata float64) *grid.Real {
	out := grid.NewReal(gd, nodata)
	for _, sg := range segs {
		v := val(sg)
		for _, i := range lineCells(gd, sg.Geom) {
			out.Vals[i] = v
		}
	}
	return out
}

// bufferMask a boolean channel mask built by buffering each segment's line
// cells by half the segment width
func bufferMask(segs Segments, gd *grid.Definition, halfwidth func(*Segment) float64) []bool {
	mask := make([]bool, gd.Ncells())
	cw := gd.CellWidth()
	for _, sg := range segs {
		hw := halfwidth(sg)
		if math.IsNaN(hw) || hw < 1 {
			hw = 1
		}
		nb := int(math.Round(hw / cw))
		cells := lineCells(gd, sg.Geom)
		for _, i := range cells {
			row, col := gd.RowCol(i)
			for dr := -nb; dr <= nb; dr++ {
				for dc := -nb; dc <= nb; dc++ {
					rr, cc := row+dr, col+dc
					if rr < 0 || rr >= gd.Ny || cc < 0 || cc >= gd.Nx {
						continue
					}
					if float64(dr*dr+dc*dc) <= float64(nb*nb)+.5 {
						mask[gd.CellID(rr, cc)] = true
					}
				}
			}
		}
	}
	return mask
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
