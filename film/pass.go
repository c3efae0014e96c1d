package film

import (
	"fmt"
	"strings"
)

// Output passes. Every pass stores four float channels per sample.
type PassFlag uint8

const (
	// Clamped radiance sum in RGB and coverage (1 - transparency) in alpha.
	PassCombined PassFlag = 1 << iota

	// Radiance contributed by the background.
	PassBackground

	// Radiance contributed by emissive surfaces and lamps.
	PassEmission

	allPasses = PassCombined | PassBackground | PassEmission
)

// Number of float channels per pass.
const channelsPerPass = 4

// Implements Stringer.
func (p PassFlag) String() string {
	switch p {
	case PassCombined:
		return "combined"
	case PassBackground:
		return "background"
	case PassEmission:
		return "emission"
	}

	var names []string
	for pass := PassCombined; pass <= PassEmission; pass <<= 1 {
		if p&pass == pass {
			names = append(names, pass.String())
		}
	}
	return strings.Join(names, "|")
}

// Parse a comma separated list of pass names. The combined pass is always
// included.
func ParsePasses(names []string) (PassFlag, error) {
	passes := PassCombined
	for _, name := range names {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "combined", "":
		case "background", "bg":
			passes |= PassBackground
		case "emission":
			passes |= PassEmission
		case "all":
			passes |= allPasses
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnknownPass, name)
		}
	}
	return passes, nil
}

// Get the number of floats needed for one sample of all enabled passes.
func (p PassFlag) Stride() uint32 {
	var stride uint32
	for pass := PassCombined; pass <= PassEmission; pass <<= 1 {
		if p&pass == pass {
			stride += channelsPerPass
		}
	}
	return stride
}

// Get the offset of a pass within a sample record. Returns false if the pass
// is not enabled.
func (p PassFlag) Offset(pass PassFlag) (uint32, bool) {
	if p&pass != pass {
		return 0, false
	}
	var offset uint32
	for cur := PassCombined; cur < pass; cur <<= 1 {
		if p&cur == cur {
			offset += channelsPerPass
		}
	}
	return offset, true
}
