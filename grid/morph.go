package grid

import "math"

// Dilate grows a boolean mask by n iterations of a 3x3 structuring element
func Dilate(mask []bool, gd *Definition, n int) []bool {
	cur := make([]bool, len(mask))
	copy(cur, mask)
	for it := 0; it < n; it++ {
		nxt := make([]bool, len(cur))
		copy(nxt, cur)
		for row := 0; row < gd.Ny; row++ {
			for col := 0; col < gd.Nx; col++ {
				if cur[gd.CellID(row, col)] {
					continue
				}
				for dr := -1; dr <= 1 && !nxt[gd.CellID(row, col)]; dr++ {
					for dc := -1; dc <= 1; dc++ {
						rr, cc := row+dr, col+dc
						if rr < 0 || rr >= gd.Ny || cc < 0 || cc >= gd.Nx {
							continue
						}
						if cur[gd.CellID(rr, cc)] {
							nxt[gd.CellID(row, col)] = true
							break
						}
					}
				}
			}
		}
		cur = nxt
	}
	return cur
}

// FillHoles closes interior false regions of a mask: any false region not
// connected (4-neighbour) to the grid border becomes true.
func FillHoles(mask []bool, gd *Definition) []bool {
	out := make([]bool, len(mask))
	for i := range out {
		out[i] = true
	}
	// flood the complement from the border; what the flood reaches stays open
	stack := []int{}
	visit := make([]bool, len(mask))
	push := func(row, col int) {
		i := gd.CellID(row, col)
		if !mask[i] && !visit[i] {
			visit[i] = true
			stack = append(stack, i)
		}
	}
	for col := 0; col < gd.Nx; col++ {
		push(0, col)
		push(gd.Ny-1, col)
	}
	for row := 0; row < gd.Ny; row++ {
		push(row, 0)
		push(row, gd.Nx-1)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out[i] = false
		row, col := gd.RowCol(i)
		if row > 0 {
			push(row-1, col)
		}
		if row < gd.Ny-1 {
			push(row+1, col)
		}
		if col > 0 {
			push(row, col-1)
		}
		if col < gd.Nx-1 {
			push(row, col+1)
		}
	}
	return out
}

// Spread assigns every no-data cell the value of its nearest (8-neighbour
// breadth-first) data cell. A non-nil within mask bounds the spreading; cells
// outside it are left untouched.
func Spread(r *Real, within []bool) *Real {
	gd := r.GD
	out := r.Clone()
	queue := make([]int, 0, len(out.Vals))
	for i := range out.Vals {
		if out.Valid(i) {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		next := queue[:0:0]
		for _, i := range queue {
			row, col := gd.RowCol(i)
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					rr, cc := row+dr, col+dc
					if rr < 0 || rr >= gd.Ny || cc < 0 || cc >= gd.Nx {
						continue
					}
					j := gd.CellID(rr, cc)
					if within != nil && !within[j] {
						continue
					}
					if !out.Valid(j) {
						out.Vals[j] = out.Vals[i]
						next = append(next, j)
					}
				}
			}
		}
		queue = next
	}
	return out
}

// FillNodata interpolates no-data cells from surrounding data. Method
// "nearest" spreads the closest value; "linear" relaxes a Laplace surface
// seeded by the spread (valid cells act as fixed boundary), giving a smooth
// gradient through filled cells. Cells unreachable from any data cell stay
// no-data.
func FillNodata(r *Real, method string) (*Real, error) {
	switch method {
	case "nearest":
		return Spread(r, nil), nil
	case "linear", "":
		// fallthrough below
	default:
		return nil, ConfigErrorf("unknown interpolation method %q", method)
	}

	gd := r.GD
	fixed := r.ValidMask()
	out := Spread(r, nil)
	holes := []int{}
	for i := range out.Vals {
		if !fixed[i] && out.Valid(i) {
			holes = append(holes, i)
		}
	}
	if len(holes) == 0 {
		return out, nil
	}

	const maxiter, tol = 500, 1e-6
	for it := 0; it < maxiter; it++ {
		dmax := 0.
		for _, i := range holes {
			row, col := gd.RowCol(i)
			sum, n := 0., 0
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				rr, cc := row+d[0], col+d[1]
				if rr < 0 || rr >= gd.Ny || cc < 0 || cc >= gd.Nx {
					continue
				}
				v := out.Value(rr, cc)
				if out.IsNodata(v) {
					continue
				}
				sum += v
				n++
			}
			if n == 0 {
				continue
			}
			v := sum / float64(n)
			if d := math.Abs(v - out.Vals[i]); d > dmax {
				dmax = d
			}
			out.Vals[i] = v
		}
		if dmax < tol {
			break
		}
	}
	return out, nil
}
