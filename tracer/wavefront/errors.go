package wavefront

import "errors"

var (
	ErrInvalidPoolSize     = errors.New("wavefront: ray pool size must be positive")
	ErrQueueCapacity       = errors.New("wavefront: queue capacity is smaller than the ray pool")
	ErrQueueOverflow       = errors.New("wavefront: queue overflow")
	ErrQueueExclusivity    = errors.New("wavefront: slot present in more than one queue")
	ErrInvalidTransition   = errors.New("wavefront: invalid ray state transition")
	ErrPoolTooSmall        = errors.New("wavefront: ray pool too small for static partitioning of tile")
	ErrInvalidTile         = errors.New("wavefront: invalid tile dimensions")
	ErrMissingCollaborator = errors.New("wavefront: missing collaborator")
	ErrUnknownWorkPolicy   = errors.New("wavefront: unknown work policy")
	ErrWaveLimitExceeded   = errors.New("wavefront: wave limit exceeded before all slots became inactive")
	ErrInterrupted         = errors.New("wavefront: interrupted while tracing")
)
