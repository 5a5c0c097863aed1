package stream

import (
	"bytes"
	"image"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"
)

func encodeFrame(img image.Image, cfg Config) ([]byte, error) {
	img = fit(img, cfg.Width, cfg.Height)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: cfg.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit downscales into the target box preserving aspect ratio. No-op when no
// box is configured or the frame already fits.
func fit(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return img
	}
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw <= w && sh <= h {
		return img
	}
	nw, nh := w, sh*w/sw
	if nh > h {
		nh, nw = h, sw*h/sh
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
