package wavefront

import (
	"math"
	"testing"

	"github.com/achilleasa/splitpath/types"
)

func TestRNGStreams(t *testing.T) {
	rs := NewRNGState(4, 4, 42)
	unit := WorkUnit{X: 1, Y: 2, Sample: 3}

	a := rs.InitStream(unit)
	b := rs.InitStream(unit)
	for i := 0; i < 16; i++ {
		va, vb := a.Float(), b.Float()
		if va != vb {
			t.Fatalf("expected identical streams for the same unit; got %f and %f", va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("expected value in [0, 1); got %f", va)
		}
	}

	other := rs.InitStream(WorkUnit{X: 1, Y: 2, Sample: 4})
	if other.State() == rs.InitStream(unit).State() {
		t.Fatal("expected different samples to use different streams")
	}

	rs.FinalizeStream(unit, a)
	if rs.Last(1, 2) != a.State() {
		t.Fatalf("expected last stream position to be %d; got %d", a.State(), rs.Last(1, 2))
	}
}

func TestClampAndSum(t *testing.T) {
	type spec struct {
		radiance      PathRadiance
		clampDirect   float32
		clampIndirect float32
		exp           types.Vec3
	}

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	specs := []spec{
		{PathRadiance{Direct: types.XYZ(1, 2, 3), Indirect: types.XYZ(1, 1, 1)}, 0, 0, types.XYZ(2, 3, 4)},
		{PathRadiance{Direct: types.XYZ(1, 2, 4)}, 2, 0, types.XYZ(0.5, 1, 2)},
		{PathRadiance{Indirect: types.XYZ(8, 0, 0)}, 0, 4, types.XYZ(4, 0, 0)},
		{PathRadiance{Direct: types.XYZ(nan, 1, 1)}, 0, 0, types.Vec3{}},
		{PathRadiance{Indirect: types.XYZ(1, inf, 1)}, 0, 0, types.Vec3{}},
	}

	for index, s := range specs {
		got := s.radiance.ClampAndSum(s.clampDirect, s.clampIndirect)
		if !types.ApproxEqual(got, s.exp, 1e-6) {
			t.Errorf("[spec %d] expected sum to be %v; got %v", index, s.exp, got)
		}
	}
}
