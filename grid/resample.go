package grid

import "math"

// Method interpolation kernel used when resampling one raster onto another
type Method int

const (
	Nearest Method = iota
	Bilinear
	Cubic
	Average
	Min
	Max
)

func (m Method) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case Cubic:
		return "cubic"
	case Average:
		return "average"
	case Min:
		return "min"
	case Max:
		return "max"
	}
	return "unknown"
}

// ParseMethod resolves a kernel name
func ParseMethod(s string) (Method, error) {
	switch s {
	case "nearest":
		return Nearest, nil
	case "bilinear", "":
		return Bilinear, nil
	case "cubic":
		return Cubic, nil
	case "average":
		return Average, nil
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	}
	return Nearest, ConfigErrorf("unknown resample method %q", s)
}

// Resample projects src onto the pixel grid gd using the given kernel. Both
// grids must share a coordinate reference system and be unrotated; cells
// outside the source footprint become no-data. Returns ErrNoOverlap when the
// two grids share no spatial extent.
func Resample(src *Real, gd *Definition, m Method) (*Real, error) {
	if src.GD.Rot != 0 || gd.Rot != 0 {
		return nil, ConfigErrorf("resample: rotated grids not supported")
	}
	if src.GD.Geographic != gd.Geographic {
		return nil, ConfigErrorf("resample: source and destination reference systems differ")
	}
	if gd.Same(src.GD) {
		return src.Clone(), nil
	}
	sxn, syn, sxx, syx := src.GD.Bounds()
	dxn, dyn, dxx, dyx := gd.Bounds()
	if sxn >= dxx || dxn >= sxx || syn >= dyx || dyn >= syx {
		return nil, ErrNoOverlap
	}

	out := NewReal(gd, src.Nodata)
	switch m {
	case Nearest:
		resamplePoint(src, out, sampleNearest)
	case Bilinear:
		resamplePoint(src, out, sampleBilinear)
	case Cubic:
		resamplePoint(src, out, sampleCubic)
	case Average, Min, Max:
		resampleAggregate(src, out, m)
	default:
		return nil, ConfigErrorf("resample: unknown method %d", int(m))
	}
	return out, nil
}

func resamplePoint(src, out *Real, sample func(*Real, float64, float64) float64) {
	for row := 0; row < out.GD.Ny; row++ {
		for col := 0; col < out.GD.Nx; col++ {
			x, y := out.GD.CellCentroid(row, col)
			v := sample(src, x, y)
			if math.IsNaN(v) {
				v = out.Nodata
			}
			out.Set(row, col, v)
		}
	}
}

// fractional source position in cell-centre units
func fracPos(src *Real, x, y float64) (gr, gc float64) {
	gc = (x-src.GD.Xul)/src.GD.Dx - .5
	gr = (y-src.GD.Yul)/src.GD.Dy - .5
	return
}

func srcVal(src *Real, row, col int) float64 {
	if row < 0 || row >= src.GD.Ny || col < 0 || col >= src.GD.Nx {
		return math.NaN()
	}
	v := src.Value(row, col)
	if src.IsNodata(v) {
		return math.NaN()
	}
	return v
}

func sampleNearest(src *Real, x, y float64) float64 {
	row, col, ok := src.GD.CellIndex(x, y)
	if !ok {
		return math.NaN()
	}
	return srcVal(src, row, col)
}

func sampleBilinear(src *Real, x, y float64) float64 {
	gr, gc := fracPos(src, x, y)
	r0, c0 := int(math.Floor(gr)), int(math.Floor(gc))
	fr, fc := gr-float64(r0), gc-float64(c0)
	var sum, wsum float64
	for dr := 0; dr <= 1; dr++ {
		for dc := 0; dc <= 1; dc++ {
			v := srcVal(src, r0+dr, c0+dc)
			if math.IsNaN(v) {
				continue
			}
			wr := 1 - fr
			if dr == 1 {
				wr = fr
			}
			wc := 1 - fc
			if dc == 1 {
				wc = fc
			}
			sum += wr * wc * v
			wsum += wr * wc
		}
	}
	if wsum < 1e-12 {
		return math.NaN()
	}
	return sum / wsum
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	return p1 + .5*t*(p2-p0+t*(2*p0-5*p1+4*p2-p3+t*(3*(p1-p2)+p3-p0)))
}

// sampleCubic falls back to bilinear wherever the 4x4 neighbourhood is
// incomplete (margins, nodata).
func sampleCubic(src *Real, x, y float64) float64 {
	gr, gc := fracPos(src, x, y)
	r0, c0 := int(math.Floor(gr)), int(math.Floor(gc))
	fr, fc := gr-float64(r0), gc-float64(c0)
	var rows [4]float64
	for dr := -1; dr <= 2; dr++ {
		var p [4]float64
		for dc := -1; dc <= 2; dc++ {
			v := srcVal(src, r0+dr, c0+dc)
			if math.IsNaN(v) {
				return sampleBilinear(src, x, y)
			}
			p[dc+1] = v
		}
		rows[dr+1] = catmullRom(p[0], p[1], p[2], p[3], fc)
	}
	return catmullRom(rows[0], rows[1], rows[2], rows[3], fr)
}

// resampleAggregate pools all source cell centres falling within each
// destination cell footprint; destination cells finer than the source fall
// back to a nearest sample.
func resampleAggregate(src, out *Real, m Method) {
	for row := 0; row < out.GD.Ny; row++ {
		for col := 0; col < out.GD.Nx; col++ {
			x0 := out.GD.Xul + float64(col)*out.GD.Dx
			x1 := x0 + out.GD.Dx
			y0 := out.GD.Yul + float64(row)*out.GD.Dy
			y1 := y0 + out.GD.Dy
			xn, xx := math.Min(x0, x1), math.Max(x0, x1)
			yn, yx := math.Min(y0, y1), math.Max(y0, y1)

			// source index window covering the destination footprint
			sr0 := int(math.Floor((yx - src.GD.Yul) / src.GD.Dy))
			sr1 := int(math.Ceil((yn - src.GD.Yul) / src.GD.Dy))
			sc0 := int(math.Floor((xn - src.GD.Xul) / src.GD.Dx))
			sc1 := int(math.Ceil((xx - src.GD.Xul) / src.GD.Dx))
			if sr0 < 0 {
				sr0 = 0
			}
			if sc0 < 0 {
				sc0 = 0
			}
			if sr1 > src.GD.Ny {
				sr1 = src.GD.Ny
			}
			if sc1 > src.GD.Nx {
				sc1 = src.GD.Nx
			}

			agg, n := 0., 0
			for sr := sr0; sr < sr1; sr++ {
				_, cy := src.GD.CellCentroid(sr, 0)
				if cy < yn || cy >= yx {
					continue
				}
				for sc := sc0; sc < sc1; sc++ {
					cx, _ := src.GD.CellCentroid(sr, sc)
					if cx < xn || cx >= xx {
						continue
					}
					v := srcVal(src, sr, sc)
					if math.IsNaN(v) {
						continue
					}
					switch m {
					case Average:
						agg += v
					case Min:
						if n == 0 || v < agg {
							agg = v
						}
					case Max:
						if n == 0 || v > agg {
							agg = v
						}
					}
					n++
				}
			}
			v := math.NaN()
			if n > 0 {
				if m == Average {
					v = agg / float64(n)
				} else {
					v = agg
				}
			} else {
				cx, cy := out.GD.CellCentroid(row, col)
				v = sampleNearest(src, cx, cy)
			}
			if math.IsNaN(v) {
				v = out.Nodata
			}
			out.Set(row, col, v)
		}
	}
}
