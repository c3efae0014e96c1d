package film

import (
	"errors"
	"testing"
)

func TestParsePasses(t *testing.T) {
	type spec struct {
		names  []string
		exp    PassFlag
		expErr error
	}

	specs := []spec{
		{nil, PassCombined, nil},
		{[]string{"combined"}, PassCombined, nil},
		{[]string{"bg"}, PassCombined | PassBackground, nil},
		{[]string{"Emission", " background "}, allPasses, nil},
		{[]string{"all"}, allPasses, nil},
		{[]string{"depth"}, 0, ErrUnknownPass},
	}

	for index, s := range specs {
		passes, err := ParsePasses(s.names)
		if !errors.Is(err, s.expErr) {
			t.Errorf("[spec %d] expected error %v; got %v", index, s.expErr, err)
			continue
		}
		if passes != s.exp {
			t.Errorf("[spec %d] expected passes %s; got %s", index, s.exp, passes)
		}
	}
}

func TestPassLayout(t *testing.T) {
	type spec struct {
		passes    PassFlag
		pass      PassFlag
		expStride uint32
		expOffset uint32
		expOk     bool
	}

	specs := []spec{
		{PassCombined, PassCombined, 4, 0, true},
		{PassCombined, PassEmission, 4, 0, false},
		{PassCombined | PassEmission, PassEmission, 8, 4, true},
		{allPasses, PassBackground, 12, 4, true},
		{allPasses, PassEmission, 12, 8, true},
	}

	for index, s := range specs {
		if stride := s.passes.Stride(); stride != s.expStride {
			t.Errorf("[spec %d] expected stride %d; got %d", index, s.expStride, stride)
		}
		offset, ok := s.passes.Offset(s.pass)
		if ok != s.expOk || offset != s.expOffset {
			t.Errorf("[spec %d] expected offset (%d, %t); got (%d, %t)", index, s.expOffset, s.expOk, offset, ok)
		}
	}
}

func TestPassString(t *testing.T) {
	if got := (PassCombined | PassEmission).String(); got != "combined|emission" {
		t.Fatalf("expected combined|emission; got %s", got)
	}
}
