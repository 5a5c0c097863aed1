package stream

import (
	"context"
	"errors"
	"image"
)

// ErrSourceUnavailable means frame capture cannot run at all (no display,
// capture backend failure). Stream-scoped: the command channel is unaffected.
var ErrSourceUnavailable = errors.New("frame source unavailable")

// Source captures raw display frames. The gateway owns pacing; the source
// owns capture.
type Source interface {
	Grab(ctx context.Context) (image.Image, error)
}
