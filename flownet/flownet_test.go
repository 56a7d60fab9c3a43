package flownet

import (
	"math"
	"testing"

	"github.com/maseology/topobathy/grid"
)

func testGD(nx, ny int) *grid.Definition {
	return &grid.Definition{Nx: nx, Ny: ny, Xul: 0, Yul: float64(ny) * 10, Dx: 10, Dy: -10}
}

// 1x4 strip draining west to east, outlet at cell 3
func stripNet(t *testing.T) *Network {
	t.Helper()
	n, err := New(testGD(4, 1), []int{1, 2, 3, -1})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestNewValidation(t *testing.T) {
	gd := testGD(2, 1)
	if _, err := New(gd, []int{1}); err == nil {
		t.Fatal("length mismatch accepted")
	}
	if _, err := New(gd, []int{0, 0}); err == nil {
		t.Fatal("self-loop accepted")
	}
	if _, err := New(gd, []int{1, 0}); err == nil {
		t.Fatal("cycle accepted")
	}
	if _, err := New(gd, []int{5, -1}); err == nil {
		t.Fatal("out-of-range target accepted")
	}
}

func TestTopoOrderUpstreamFirst(t *testing.T) {
	n := stripNet(t)
	pos := make(map[int]int)
	for k, i := range n.TopoOrder() {
		pos[i] = k
	}
	for i, j := range n.Ds {
		if j < 0 {
			continue
		}
		if pos[i] > pos[j] {
			t.Fatalf("cell %d ordered after its downstream cell %d", i, j)
		}
	}
}

func TestDistnc(t *testing.T) {
	n := stripNet(t)
	d := n.Distnc()
	want := []float64{30, 20, 10, 0}
	for i := range want {
		if math.Abs(d[i]-want[i]) > 1e-9 {
			t.Fatalf("cell %d: expected %f, got %f", i, want[i], d[i])
		}
	}
}

func TestUparea(t *testing.T) {
	// Y network on a 3x3 grid: two headwaters joining at the centre then
	// draining south
	//   0 . 2
	//   . 4 .
	//   . 7 .
	ds := []int{4, -1, 4, -1, 7, -1, -1, -1, -1}
	n, err := New(testGD(3, 3), ds)
	if err != nil {
		t.Fatal(err)
	}
	upa := n.Uparea()
	ca := n.GD.CellArea() / 1e6
	if math.Abs(upa.Vals[0]-ca) > 1e-12 {
		t.Fatalf("headwater area: expected %f, got %f", ca, upa.Vals[0])
	}
	if math.Abs(upa.Vals[4]-3*ca) > 1e-12 {
		t.Fatalf("confluence area: expected %f, got %f", 3*ca, upa.Vals[4])
	}
	if math.Abs(upa.Vals[7]-4*ca) > 1e-12 {
		t.Fatalf("outlet area: expected %f, got %f", 4*ca, upa.Vals[7])
	}
}

func TestStreamOrderStrahler(t *testing.T) {
	// two first-order streams joining: the junction is promoted to order 2
	ds := []int{4, -1, 4, -1, 7, -1, -1, -1, -1}
	n, err := New(testGD(3, 3), ds)
	if err != nil {
		t.Fatal(err)
	}
	mask := []bool{true, false, true, false, true, false, false, true, false}
	ord := n.StreamOrder(mask)
	if ord[0] != 1 || ord[2] != 1 {
		t.Fatalf("headwaters: expected order 1, got %d %d", ord[0], ord[2])
	}
	if ord[4] != 2 {
		t.Fatalf("junction: expected order 2, got %d", ord[4])
	}
	if ord[7] != 2 {
		t.Fatalf("downstream of junction: expected order 2, got %d", ord[7])
	}
	if ord[1] != 0 {
		t.Fatalf("off-stream cell: expected 0, got %d", ord[1])
	}
}

func TestHAND(t *testing.T) {
	n := stripNet(t)
	elev := grid.NewReal(n.GD, -9999)
	copy(elev.Vals, []float64{13, 12, 11, 10})
	streams := []bool{false, false, true, true}
	h := n.HAND(streams, elev)
	want := []float64{2, 1, 0, 0} // drainage elevation 11 reaches upstream
	for i := range want {
		if math.Abs(h.Vals[i]-want[i]) > 1e-9 {
			t.Fatalf("cell %d: expected %f, got %f", i, want[i], h.Vals[i])
		}
	}
}

func TestHANDUnreachable(t *testing.T) {
	gd := testGD(2, 1)
	n, err := New(gd, []int{1, -1})
	if err != nil {
		t.Fatal(err)
	}
	elev := grid.NewReal(gd, -9999)
	elev.Vals[0], elev.Vals[1] = 5, 4
	h := n.HAND([]bool{false, false}, elev)
	if h.Valid(0) || h.Valid(1) {
		t.Fatal("cells that never reach a stream must stay no-data")
	}
}

func TestDemAdjustMonotone(t *testing.T) {
	n := stripNet(t)
	elev := grid.NewReal(n.GD, -9999)
	copy(elev.Vals, []float64{10, 12, 9, 11})
	adj := n.DemAdjust(elev)
	want := []float64{10, 10, 9, 9} // dig-only, never raise
	for i := range want {
		if adj.Vals[i] != want[i] {
			t.Fatalf("cell %d: expected %f, got %f", i, want[i], adj.Vals[i])
		}
	}
	if elev.Vals[1] != 12 {
		t.Fatal("input mutated")
	}
}

func TestDemDigD4(t *testing.T) {
	// river runs diagonally (0,0)->(1,1) on a 2x2 grid; the channel cells have
	// no open D4 neighbour, so the lowest neighbour is dug — first to the
	// upstream cell's level, then to the downstream cell's as digs cascade
	gd := testGD(2, 2)
	n, err := New(gd, []int{3, -1, -1, -1})
	if err != nil {
		t.Fatal(err)
	}
	elev := grid.NewReal(gd, -9999)
	copy(elev.Vals, []float64{5, 8, 7, 4})
	rivmsk := []bool{true, false, false, true}
	out := n.DemDigD4(elev, rivmsk)
	if out.Vals[2] != 4 {
		t.Fatalf("cascading dig: expected 4, got %f", out.Vals[2])
	}
	if out.Vals[1] != 8 {
		t.Fatalf("higher D4 neighbour altered: %f", out.Vals[1])
	}
	if out.Vals[0] != 5 || out.Vals[3] != 4 {
		t.Fatal("channel cells altered")
	}
}
