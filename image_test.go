package main

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h, max  int
		wantW, wantH int
	}{
		{1600, 1200, 800, 800, 600},
		{1200, 1600, 800, 600, 800},
		{800, 800, 800, 800, 800},
		{640, 480, 800, 640, 480},
		{3000, 1000, 800, 800, 266},
	}
	for _, c := range cases {
		gotW, gotH := fitWithin(c.w, c.h, c.max)
		assert.Equal(t, c.wantW, gotW, "%dx%d", c.w, c.h)
		assert.Equal(t, c.wantH, gotH, "%dx%d", c.w, c.h)
	}
}

func encodeTestImage(t *testing.T, w, h int, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestDownscaleJPEGShrinksLargeImage(t *testing.T) {
	src := encodeTestImage(t, 1600, 1200, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
	})

	out, err := downscaleJPEG(src)
	require.NoError(t, err)

	w, h := decodedSize(t, out)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestDownscaleJPEGKeepsSmallImageSize(t *testing.T) {
	src := encodeTestImage(t, 320, 240, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
	})

	out, err := downscaleJPEG(src)
	require.NoError(t, err)

	w, h := decodedSize(t, out)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestDownscaleJPEGAcceptsPNG(t *testing.T) {
	src := encodeTestImage(t, 1000, 2000, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})

	out, err := downscaleJPEG(src)
	require.NoError(t, err)

	w, h := decodedSize(t, out)
	assert.Equal(t, 400, w)
	assert.Equal(t, 800, h)
}

func TestDownscaleJPEGRejectsGarbage(t *testing.T) {
	_, err := downscaleJPEG([]byte("not an image"))
	assert.ErrorContains(t, err, "decode image")
}
