package types

import (
	"math"
	"testing"
)

func TestVec3Ops(t *testing.T) {
	v1 := XYZ(1, 2, 3)
	v2 := XYZ(4, 5, 6)

	type spec struct {
		got Vec3
		exp Vec3
	}

	specs := []spec{
		{v1.Add(v2), XYZ(5, 7, 9)},
		{v2.Sub(v1), XYZ(3, 3, 3)},
		{v1.Mul(2), XYZ(2, 4, 6)},
		{v1.MulVec(v2), XYZ(4, 10, 18)},
		{v1.Cross(v2), XYZ(-3, 6, -3)},
		{XYZ(0, 3, 4).Normalize(), XYZ(0, 0.6, 0.8)},
		{Vec3{}.Normalize(), Vec3{}},
		{Splat3(2), XYZ(2, 2, 2)},
	}

	for index, s := range specs {
		if !ApproxEqual(s.got, s.exp, floatCmpEpsilon) {
			t.Errorf("[spec %d] expected %v; got %v", index, s.exp, s.got)
		}
	}

	if d := v1.Dot(v2); d != 32 {
		t.Fatalf("expected dot product to be 32; got %f", d)
	}
	if l := XYZ(0, 3, 4).Len(); math.Abs(float64(l-5)) > floatCmpEpsilon {
		t.Fatalf("expected length to be 5; got %f", l)
	}
	if a := v1.Average(); a != 2 {
		t.Fatalf("expected average to be 2; got %f", a)
	}
	if m := XYZ(1, 7, 3).MaxComponent(); m != 7 {
		t.Fatalf("expected max component to be 7; got %f", m)
	}
	if v1.IsZero() || !(Vec3{}).IsZero() {
		t.Fatal("IsZero returned unexpected result")
	}
}

func TestVec4Ops(t *testing.T) {
	v := XYZ(1, 2, 3).Vec4(4)
	if v != XYZW(1, 2, 3, 4) {
		t.Fatalf("expected (1, 2, 3, 4); got %v", v)
	}
	if got := v.Add(XYZW(1, 1, 1, 1)); got != XYZW(2, 3, 4, 5) {
		t.Fatalf("expected (2, 3, 4, 5); got %v", got)
	}
	if got := v.Mul(0.5); got != XYZW(0.5, 1, 1.5, 2) {
		t.Fatalf("expected (0.5, 1, 1.5, 2); got %v", got)
	}
	if got := v.Vec3(); got != XYZ(1, 2, 3) {
		t.Fatalf("expected (1, 2, 3); got %v", got)
	}
}
