package main

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for uploads

	"golang.org/x/image/draw"
)

const (
	maxImageDim = 800
	jpegQuality = 70
)

// downscaleJPEG decodes an uploaded photo, proportionally shrinks it so
// neither dimension exceeds maxImageDim, and re-encodes it as JPEG at a
// fixed lossy quality. Bounds the payload sent to the AI upstream and the
// size of the inline history entry.
func downscaleJPEG(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tw, th := fitWithin(w, h, maxImageDim)

	out := src
	if tw != w || th != h {
		dst := image.NewRGBA(image.Rect(0, 0, tw, th))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales (w, h) proportionally so the longer side equals max,
// leaving images already within bounds untouched.
func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		return max, h * max / w
	}
	return w * max / h, max
}
