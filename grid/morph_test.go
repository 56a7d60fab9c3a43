package grid

import (
	"math"
	"testing"
)

func TestDilate(t *testing.T) {
	gd := testGD(5, 5)
	mask := make([]bool, gd.Ncells())
	mask[gd.CellID(2, 2)] = true
	d := Dilate(mask, gd, 1)
	n := 0
	for _, b := range d {
		if b {
			n++
		}
	}
	if n != 9 {
		t.Fatalf("single-cell dilation: expected 9 cells, got %d", n)
	}
	if !d[gd.CellID(1, 1)] || d[gd.CellID(0, 0)] {
		t.Fatal("dilation footprint wrong")
	}
}

func TestFillHolesInteriorVsBorder(t *testing.T) {
	// 5x5 mask: all true except an interior hole at (2,2) and a border notch
	// at (0,2); only the interior hole closes
	gd := testGD(5, 5)
	mask := make([]bool, gd.Ncells())
	for i := range mask {
		mask[i] = true
	}
	mask[gd.CellID(2, 2)] = false
	mask[gd.CellID(0, 2)] = false
	f := FillHoles(mask, gd)
	if !f[gd.CellID(2, 2)] {
		t.Fatal("interior hole not closed")
	}
	if f[gd.CellID(0, 2)] {
		t.Fatal("border-connected gap closed")
	}
}

func TestSpreadNearest(t *testing.T) {
	gd := testGD(5, 1)
	r := NewReal(gd, -9999)
	r.Vals[0], r.Vals[4] = 10, 20
	s := Spread(r, nil)
	if s.Vals[1] != 10 || s.Vals[3] != 20 {
		t.Fatalf("spread values: got %v", s.Vals)
	}
}

func TestSpreadWithinMask(t *testing.T) {
	gd := testGD(4, 1)
	r := NewReal(gd, -9999)
	r.Vals[0] = 5
	within := []bool{true, true, false, true}
	s := Spread(r, within)
	if s.Vals[1] != 5 {
		t.Fatal("spread did not fill masked-in cell")
	}
	if s.Valid(2) || s.Valid(3) {
		t.Fatal("spread crossed the mask boundary")
	}
}

func TestFillNodataLinear(t *testing.T) {
	// hole between two fixed values relaxes toward their midpoint
	gd := testGD(3, 1)
	r := NewReal(gd, math.NaN())
	r.Vals[0], r.Vals[2] = 0, 10
	f, err := FillNodata(r, "linear")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f.Vals[1]-5) > 1e-3 {
		t.Fatalf("linear fill: expected 5, got %f", f.Vals[1])
	}
	if f.Vals[0] != 0 || f.Vals[2] != 10 {
		t.Fatal("fixed cells altered")
	}
}

func TestFillNodataUnknownMethod(t *testing.T) {
	gd := testGD(2, 1)
	if _, err := FillNodata(NewReal(gd, -9999), "spline"); !IsConfigError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
