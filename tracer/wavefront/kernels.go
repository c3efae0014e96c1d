package wavefront

import (
	"math"

	"github.com/achilleasa/splitpath/types"
)

func (tr *Tracer) intersectSlot(rayIndex int) {
	// Freshly regenerated rays join path iteration here.
	tr.pool.CompareAndSwapState(rayIndex, RayRegenerated, RayActive)
	if !tr.pool.IsState(rayIndex, RayActive) {
		return
	}

	slot := tr.pool.Slot(rayIndex)
	isect, hit := tr.collab.Scene.Intersect(&slot.Ray)
	if !hit {
		slot.Isect = Intersection{T: slot.Ray.T}
		tr.pool.SetState(rayIndex, RayHitBackground)
		return
	}
	slot.Isect = isect
}

func (tr *Tracer) accumulateLampEmission(rayIndex int) {
	if !tr.pool.IsState(rayIndex, RayActive) && !tr.pool.IsState(rayIndex, RayHitBackground) {
		return
	}

	slot := tr.pool.Slot(rayIndex)
	if slot.Path.Flags&PathCameraRay != 0 {
		return
	}

	// Rebuild the segment starting at the previous non-transparent bounce.
	segmentT := slot.Isect.T
	if math.IsInf(float64(segmentT), 0) {
		segmentT = math.MaxFloat32
	}
	lightRay := Ray{
		Origin:    slot.Ray.Origin.Sub(slot.Ray.Direction.Mul(slot.Path.RayT)),
		Direction: slot.Ray.Direction,
		Time:      slot.Ray.Time,
	}
	slot.Path.RayT += segmentT
	lightRay.T = slot.Path.RayT

	if emission, ok := tr.collab.Lamps.IndirectEmission(&lightRay, &slot.Path); ok {
		slot.Radiance.AccumEmission(slot.Throughput, emission, slot.Path.Bounce)
	}
}

// Process a slot taken from the hit-background queue. The slot keeps moving
// through the retire/regenerate states until it settles in a state this
// stage does not own. Returns true if the slot was regenerated and must be
// appended to the active queue.
func (tr *Tracer) updateBuffer(rayIndex int) bool {
	slot := tr.pool.Slot(rayIndex)
	claims := 0

	for {
		switch tr.pool.State(rayIndex) {
		case RayHitBackground:
			tr.shadeBackground(slot)
			tr.pool.SetState(rayIndex, RayUpdateBuffer)
		case RayUpdateBuffer:
			tr.flushSample(slot)
			tr.pool.SetState(rayIndex, RayToRegenerate)
		case RayToRegenerate:
			// Defer further degenerate-ray retries to the next wave.
			if claims > tr.cfg.MaxRegenerateRetries {
				return false
			}
			claims++

			unit, ok := tr.work.Next(rayIndex)
			if !ok {
				tr.pool.SetState(rayIndex, RayInactive)
				return false
			}
			tr.counters.regenerated.Add(1)

			slot.Work = unit
			if tr.regenerate(slot) {
				tr.pool.SetState(rayIndex, RayRegenerated)
				return true
			}

			// Degenerate camera ray; record an empty sample and try again.
			tr.counters.degenerateRays.Add(1)
			tr.collab.Output.WriteSample(slot.Work, types.Vec4{}, nil)
			tr.collab.RNG.FinalizeStream(slot.Work, slot.RNG)
			tr.counters.samplesWritten.Add(1)
		default:
			return false
		}
	}
}

func (tr *Tracer) shadeBackground(slot *Slot) {
	if tr.cfg.TransparentBackground && slot.Path.Flags&PathCameraRay != 0 {
		slot.Transparency += slot.Throughput.Average()
		if tr.cfg.BackgroundPass {
			bg := tr.collab.Background.Evaluate(&slot.Ray, &slot.Path)
			slot.Radiance.AccumBackgroundPass(slot.Throughput, bg)
		}
		return
	}

	bg := tr.collab.Background.Evaluate(&slot.Ray, &slot.Path)
	slot.Radiance.AccumBackground(slot.Throughput, bg, slot.Path.Bounce)
}

func (tr *Tracer) flushSample(slot *Slot) {
	sum := slot.Radiance.ClampAndSum(tr.cfg.SampleClampDirect, tr.cfg.SampleClampIndirect)
	tr.collab.Output.WriteSample(slot.Work, sum.Vec4(1.0-slot.Transparency), &slot.Radiance)
	tr.collab.RNG.FinalizeStream(slot.Work, slot.RNG)
	tr.counters.samplesWritten.Add(1)
}

// Set up the camera ray for the slot's work unit. Returns false if the
// generated ray is degenerate.
func (tr *Tracer) regenerate(slot *Slot) bool {
	unit := slot.Work
	slot.RNG = tr.collab.RNG.InitStream(unit)
	slot.Ray = tr.collab.Camera.GenerateRay(unit.X, unit.Y, unit.Sample, &slot.RNG)
	if slot.Ray.T == 0 {
		return false
	}

	slot.Throughput = types.Splat3(1.0)
	slot.Transparency = 0
	slot.Radiance.Reset()
	slot.Isect = Intersection{}
	slot.Path = PathState{
		Flags:  PathCameraRay,
		Sample: unit.Sample,
	}
	return true
}

func (tr *Tracer) shadeSlot(rayIndex int) {
	if !tr.pool.IsState(rayIndex, RayActive) {
		return
	}

	slot := tr.pool.Slot(rayIndex)
	res := tr.collab.Shader.Shade(&slot.Ray, &slot.Isect, &slot.Path, &slot.RNG)
	if !res.Emission.IsZero() {
		slot.Radiance.AccumEmission(slot.Throughput, res.Emission, slot.Path.Bounce)
	}

	if res.Absorbed || slot.Path.Bounce >= tr.cfg.MaxBounces {
		tr.pool.SetState(rayIndex, RayUpdateBuffer)
		return
	}

	slot.Throughput = slot.Throughput.MulVec(res.Weight)
	if slot.Throughput.IsZero() {
		tr.pool.SetState(rayIndex, RayUpdateBuffer)
		return
	}

	slot.Ray = res.Next
	slot.Path.Bounce++
	slot.Path.RayT = 0
	slot.Path.RayPdf = res.Pdf
	slot.Path.Flags &^= PathCameraRay | PathSingular
	if res.Singular {
		slot.Path.Flags |= PathSingular
	}
}
