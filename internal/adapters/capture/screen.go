package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/byStayo/AI-Computer-Controller/internal/stream"
)

// ScreenSource grabs raw frames from a local display. Display 0 is the
// primary monitor.
type ScreenSource struct {
	Display int
}

func (s *ScreenSource) Grab(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := screenshot.NumActiveDisplays(); s.Display >= n {
		return nil, fmt.Errorf("%w: display %d of %d not found", stream.ErrSourceUnavailable, s.Display, n)
	}
	img, err := screenshot.CaptureDisplay(s.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", stream.ErrSourceUnavailable, err)
	}
	return img, nil
}
