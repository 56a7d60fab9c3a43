package merge

import (
	"testing"

	"github.com/maseology/topobathy/grid"
)

func TestMergeMultiPriority(t *testing.T) {
	gd := testGD(4, 4)
	a := constReal(gd, 1)
	a.Set(0, 0, -9999)
	b := constReal(gd, 2)
	out, err := MergeMulti([]Source{{Raster: a}, {Raster: b}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Value(0, 0); got != 2 {
		t.Fatalf("hole not filled by the second source: %f", got)
	}
	if got := out.Value(1, 1); got != 1 {
		t.Fatalf("first source overridden: %f", got)
	}
}

func TestMergeMultiShortCircuit(t *testing.T) {
	// a complete accumulator skips later first-rule sources: a source with a
	// lower value under the first rule cannot alter any cell
	gd := testGD(3, 3)
	a := constReal(gd, 4)
	b := constReal(gd, -1)
	out, err := MergeMulti([]Source{{Raster: a}, {Raster: b, Policy: Policy{Rule: First}}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Vals {
		if v != 4 {
			t.Fatalf("cell %d: expected 4, got %f", i, v)
		}
	}
}

func TestMergeMultiLastRuleStillApplies(t *testing.T) {
	gd := testGD(3, 3)
	a := constReal(gd, 4)
	b := constReal(gd, 7)
	out, err := MergeMulti([]Source{{Raster: a}, {Raster: b, Policy: Policy{Rule: Last}}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Vals[0] != 7 {
		t.Fatalf("last rule not applied on complete accumulator: %f", out.Vals[0])
	}
}

func TestMergeMultiEmpty(t *testing.T) {
	if _, err := MergeMulti(nil, Options{}); !grid.IsConfigError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestMergeMultiLikeGrid(t *testing.T) {
	// destination grid from Options.Like rather than the first source
	like := testGD(2, 2)
	src := constReal(testGD(4, 4), 3)
	out, err := MergeMulti([]Source{{Raster: src}}, Options{Like: like})
	if err != nil {
		t.Fatal(err)
	}
	if !out.GD.Same(like) {
		t.Fatalf("output grid does not match the like grid: %+v", out.GD)
	}
	if out.Vals[0] != 3 {
		t.Fatalf("expected 3, got %f", out.Vals[0])
	}
}

func TestDefaultMethodHeuristic(t *testing.T) {
	coarse := &grid.Definition{Nx: 1, Ny: 1, Dx: 100, Dy: -100}
	fine := &grid.Definition{Nx: 1, Ny: 1, Dx: 10, Dy: -10}
	if m := defaultMethod(coarse, fine); m != grid.Bilinear {
		t.Fatalf("coarser source: expected bilinear, got %s", m)
	}
	if m := defaultMethod(fine, coarse); m != grid.Average {
		t.Fatalf("finer source: expected average, got %s", m)
	}
	if m := defaultMethod(coarse, coarse); m != grid.Bilinear {
		t.Fatalf("equal resolution: expected bilinear, got %s", m)
	}
	// geographic resolutions compare in metre equivalents
	geo := &grid.Definition{Nx: 1, Ny: 1, Dx: 1. / 3600, Dy: -1. / 3600, Geographic: true} // ~31 m
	if m := defaultMethod(geo, fine); m != grid.Bilinear {
		t.Fatalf("geographic coarser source: expected bilinear, got %s", m)
	}
}
