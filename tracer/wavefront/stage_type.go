package wavefront

import "fmt"

type stageType uint8

// The stages that make up the tracing pipeline.
const (
	dataInit stageType = iota
	sceneIntersect
	lampEmission
	queueEnqueue
	backgroundBufferUpdate
	shadeSurface
	//
	numStages
)

// Implements Stringer.
func (st stageType) String() string {
	switch st {
	case dataInit:
		return "dataInit"
	case sceneIntersect:
		return "sceneIntersect"
	case lampEmission:
		return "lampEmission"
	case queueEnqueue:
		return "queueEnqueue"
	case backgroundBufferUpdate:
		return "backgroundBufferUpdate"
	case shadeSurface:
		return "shadeSurface"
	default:
		panic(fmt.Sprintf("Unsupported stage type: %d", st))
	}
}
