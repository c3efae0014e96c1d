package wavefront

import "fmt"

// The state of a ray slot. The state determines which stage is allowed to
// operate on the slot during a wave.
type RayState uint32

const (
	// The slot carries a path that is waiting for (or has completed) a scene
	// intersection and is eligible for shading.
	RayActive RayState = iota

	// The slot has no work assigned and will not be processed again until
	// the pipeline is reset.
	RayInactive

	// A fresh camera ray was generated for the slot in this wave. It becomes
	// active when the next intersection stage picks it up.
	RayRegenerated

	// The ray escaped the scene geometry.
	RayHitBackground

	// The path has terminated and its radiance must be flushed to the output.
	RayUpdateBuffer

	// The slot's sample is complete and it needs a new work unit.
	RayToRegenerate

	numRayStates
)

// Implements Stringer.
func (s RayState) String() string {
	switch s {
	case RayActive:
		return "active"
	case RayInactive:
		return "inactive"
	case RayRegenerated:
		return "regenerated"
	case RayHitBackground:
		return "hit-background"
	case RayUpdateBuffer:
		return "update-buffer"
	case RayToRegenerate:
		return "to-regenerate"
	default:
		return fmt.Sprintf("ray-state(%d)", uint32(s))
	}
}

// The set of legal state transitions. Any other transition indicates a
// scheduling bug.
var validTransitions = [numRayStates][numRayStates]bool{
	RayInactive:      {RayToRegenerate: true},
	RayToRegenerate:  {RayRegenerated: true, RayInactive: true},
	RayRegenerated:   {RayActive: true},
	RayActive:        {RayHitBackground: true, RayUpdateBuffer: true},
	RayHitBackground: {RayUpdateBuffer: true},
	RayUpdateBuffer:  {RayToRegenerate: true},
}

// Returns true if a slot may move from state from to state to.
func IsValidTransition(from, to RayState) bool {
	if from >= numRayStates || to >= numRayStates {
		return false
	}
	return validTransitions[from][to]
}
