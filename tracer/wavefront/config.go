package wavefront

import (
	"fmt"
	"runtime"
)

// Debug flags.
type DebugFlag uint16

const (
	Off DebugFlag = 0

	// Record queue occupancy and a state histogram after every wave.
	CaptureWaveStats DebugFlag = 1 << iota

	// Verify that no slot appears in more than one queue before each stage.
	CheckQueueExclusivity

	// Fail the trace if a slot performs an illegal state transition.
	CheckStateTransitions

	// Log per-wave statistics at debug level.
	LogWaves
)

// Tracer configuration.
type Config struct {
	// Number of concurrently resident paths.
	PoolSize int

	// Optional queue capacity. Queues are always sized to the pool; a
	// non-zero value smaller than PoolSize is rejected.
	QueueSize int

	// Number of lanes executing a stage concurrently and the number of
	// consecutive slots processed by each lane group.
	NumLanes      int
	LaneGroupSize int

	// Work assignment policy and, for work stealing, the number of shared
	// pool entries. Zero selects one entry per lane.
	WorkPolicy   WorkPolicy
	NumWorkPools int

	// Paths terminate after this many scattering events.
	MaxBounces uint32

	// Camera rays that escape contribute transparency instead of radiance.
	TransparentBackground bool

	// Keep evaluating the background for the background pass even when the
	// background is transparent.
	BackgroundPass bool

	// Enable multiple importance sampling against lamps for indirect rays.
	LampMIS bool

	// Read-only stages iterate the active queue. When disabled they visit
	// every slot in the pool instead.
	UseQueues bool

	// Maximum radiance component for direct and indirect contributions.
	// Zero disables clamping.
	SampleClampDirect   float32
	SampleClampIndirect float32

	// Number of additional work units a slot may claim within one wave
	// after generating a degenerate camera ray. Further retries are
	// deferred to the next wave.
	MaxRegenerateRetries int

	// Abort tracing after this many waves. Zero disables the limit.
	MaxWaves int

	Debug DebugFlag
}

// Get a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PoolSize:             64 * 1024,
		NumLanes:             runtime.GOMAXPROCS(0),
		LaneGroupSize:        64,
		WorkPolicy:           WorkStealing,
		MaxBounces:           8,
		UseQueues:            true,
		LampMIS:              true,
		MaxRegenerateRetries: 1,
	}
}

// Validate the configuration and fill in derived defaults.
func (c *Config) Validate() error {
	if c.PoolSize <= 0 {
		return ErrInvalidPoolSize
	}
	if c.QueueSize != 0 && c.QueueSize < c.PoolSize {
		return fmt.Errorf("%w: %d < %d", ErrQueueCapacity, c.QueueSize, c.PoolSize)
	}
	if c.WorkPolicy != WorkStealing && c.WorkPolicy != StaticPartition {
		return fmt.Errorf("%w: %d", ErrUnknownWorkPolicy, c.WorkPolicy)
	}
	if c.NumLanes <= 0 {
		c.NumLanes = runtime.GOMAXPROCS(0)
	}
	if c.LaneGroupSize <= 0 {
		c.LaneGroupSize = 64
	}
	if c.NumWorkPools <= 0 {
		c.NumWorkPools = c.NumLanes
	}
	if c.MaxRegenerateRetries < 0 {
		c.MaxRegenerateRetries = 0
	}
	return nil
}
