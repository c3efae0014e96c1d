package film

import "errors"

var (
	ErrUnknownPass    = errors.New("film: unknown pass")
	ErrPassDisabled   = errors.New("film: pass not enabled")
	ErrTileOutOfFrame = errors.New("film: tile exceeds frame bounds")
)
