package river

import (
	"math"
	"testing"

	"github.com/maseology/topobathy/grid"
)

func TestRiverDepthPowlaw(t *testing.T) {
	p := DefaultParams()
	p.PowlawHc, p.PowlawHp = 2, .3
	segs := Segments{{ID: 1, DownID: -1, Qbankfull: 8}}
	h, err := riverDepth(segs, "powlaw", p)
	if err != nil {
		t.Fatal(err)
	}
	want := 2 * math.Pow(8, .3)
	if math.Abs(h[0]-want) > 1e-12 {
		t.Fatalf("expected %f, got %f", want, h[0])
	}
}

func TestRiverDepthMinFloor(t *testing.T) {
	// a trickle of discharge cannot produce a channel shallower than MinDepth
	p := DefaultParams()
	segs := Segments{{ID: 1, DownID: -1, Qbankfull: .001}}
	h, err := riverDepth(segs, "powlaw", p)
	if err != nil {
		t.Fatal(err)
	}
	if h[0] != p.MinDepth {
		t.Fatalf("expected floor %f, got %f", p.MinDepth, h[0])
	}
}

func TestRiverDepthManning(t *testing.T) {
	p := DefaultParams()
	p.MinSlope = 1e-4
	segs := Segments{{ID: 1, DownID: -1, Qbankfull: 100, Rivwth: 30, Zs: 5}}
	h, err := riverDepth(segs, "manning", p)
	if err != nil {
		t.Fatal(err)
	}
	// single outlet segment: slope floors at MinSlope
	want := math.Pow(p.Manning*100/(30*math.Sqrt(p.MinSlope)), .6)
	if math.Abs(h[0]-want) > 1e-12 {
		t.Fatalf("expected %f, got %f", want, h[0])
	}
}

func TestRiverDepthGvfMonotoneSlope(t *testing.T) {
	// gvf refines toward the implied bed: depths stay at or above the floor
	// and finite on a simple sloping chain
	p := DefaultParams()
	segs := Segments{
		{ID: 1, DownID: 1, Qbankfull: 50, Rivwth: 20, Zs: 12, Rivdst: 2000},
		{ID: 2, DownID: 2, Qbankfull: 60, Rivwth: 25, Zs: 8, Rivdst: 1000},
		{ID: 3, DownID: -1, Qbankfull: 70, Rivwth: 30, Zs: 5, Rivdst: 0},
	}
	h, err := riverDepth(segs, "gvf", p)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range h {
		if math.IsNaN(v) || v < p.MinDepth {
			t.Fatalf("segment %d: invalid depth %f", i, v)
		}
	}
}

func TestRiverDepthUnknownMethod(t *testing.T) {
	p := DefaultParams()
	if _, err := riverDepth(Segments{{ID: 1, DownID: -1}}, "hydraulic", p); !grid.IsConfigError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestProfileSlopeFloor(t *testing.T) {
	segs := Segments{
		{ID: 1, DownID: 1, Rivdst: 1000},
		{ID: 2, DownID: -1, Rivdst: 0},
	}
	slp := segs.profileSlope([]float64{10, 5}, 1e-5)
	if math.Abs(slp[0]-.005) > 1e-12 {
		t.Fatalf("expected 0.005, got %f", slp[0])
	}
	if slp[1] != 1e-5 {
		t.Fatalf("outlet slope: expected the floor, got %f", slp[1])
	}
	// adverse gradient floors too
	slp = segs.profileSlope([]float64{5, 10}, 1e-5)
	if slp[0] != 1e-5 {
		t.Fatalf("adverse slope: expected the floor, got %f", slp[0])
	}
}
