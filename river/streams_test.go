package river

import (
	"math"
	"testing"

	"github.com/maseology/topobathy/flownet"
	"github.com/maseology/topobathy/grid"
)

func testGD(nx, ny int) *grid.Definition {
	return &grid.Definition{Nx: nx, Ny: ny, Xul: 0, Yul: float64(ny) * 10, Dx: 10, Dy: -10}
}

// 5x5 grid, channel along the middle row flowing east, hillslopes draining
// toward it from north and south
func crossValleyNet(t *testing.T) *flownet.Network {
	t.Helper()
	ds := make([]int, 25)
	for c := 0; c < 5; c++ {
		ds[c] = c + 5      // row 0 south
		ds[5+c] = c + 10   // row 1 south
		ds[15+c] = c + 10  // row 3 north
		ds[20+c] = c + 15  // row 4 north
		ds[10+c] = c + 11  // channel east
	}
	ds[14] = -1 // outlet
	n, err := flownet.New(testGD(5, 5), ds)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestExtractStreamsChopping(t *testing.T) {
	flw := crossValleyNet(t)
	upa := flw.Uparea()
	elev := grid.NewReal(flw.GD, -9999)
	for i := range elev.Vals {
		elev.Vals[i] = 12
	}
	for c := 0; c < 5; c++ {
		elev.Vals[10+c] = 10
	}

	// threshold keeps only the 5 channel cells; 20 m chops into 2-cell reaches
	segs := ExtractStreams(flw, upa, elev, 4e-4, 20)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[0].DownID != 1 || segs[1].DownID != 2 || segs[2].DownID != -1 {
		t.Fatalf("downstream links wrong: %d %d %d", segs[0].DownID, segs[1].DownID, segs[2].DownID)
	}
	if segs[0].Rivdst != 30 || segs[1].Rivdst != 10 || segs[2].Rivdst != 0 {
		t.Fatalf("outlet distances wrong: %f %f %f", segs[0].Rivdst, segs[1].Rivdst, segs[2].Rivdst)
	}
	for _, sg := range segs {
		if sg.Elevtn != 10 {
			t.Fatalf("segment elevation sample: expected 10, got %f", sg.Elevtn)
		}
		if !math.IsNaN(sg.Rivwth) || !math.IsNaN(sg.Qbankfull) {
			t.Fatal("unjoined attributes must start unknown")
		}
	}
	// contributing area accumulates downstream
	if segs[2].Uparea <= segs[0].Uparea {
		t.Fatal("contributing area not increasing downstream")
	}
}

func TestExtractStreamsConfluence(t *testing.T) {
	// Y network: two headwaters joining then draining south
	ds := []int{4, -1, 4, -1, 7, -1, -1, -1, -1}
	flw, err := flownet.New(testGD(3, 3), ds)
	if err != nil {
		t.Fatal(err)
	}
	upa := grid.NewReal(flw.GD, -9999)
	for _, i := range []int{0, 2, 4, 7} {
		upa.Vals[i] = 1
	}
	elev := grid.NewReal(flw.GD, -9999)
	for i := range elev.Vals {
		elev.Vals[i] = 1
	}
	segs := ExtractStreams(flw, upa, elev, .5, 1e6)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments at the confluence, got %d", len(segs))
	}
	nhead, nout := 0, 0
	for _, sg := range segs {
		if sg.DownID < 0 {
			nout++
		} else if segs[sg.DownID].DownID < 0 {
			nhead++
		}
	}
	if nout != 1 || nhead != 2 {
		t.Fatalf("expected 2 headwaters joining 1 outlet reach, got %d/%d", nhead, nout)
	}
}

func TestStreamMask(t *testing.T) {
	gd := testGD(2, 1)
	upa := grid.NewReal(gd, -9999)
	upa.Vals[0] = 5
	m := StreamMask(upa, 1)
	if !m[0] || m[1] {
		t.Fatalf("mask wrong: %v", m)
	}
}
