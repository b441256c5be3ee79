package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepare_PassThroughSmallImage(t *testing.T) {
	data := encodePNG(t, 40, 20)

	got, err := Prepare(data, 100)
	require.NoError(t, err)

	assert.Equal(t, data, got.Data)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, 40, got.Width)
	assert.Equal(t, 20, got.Height)
}

func TestPrepare_DownscalesLargeImage(t *testing.T) {
	data := encodePNG(t, 400, 100)

	got, err := Prepare(data, 200)
	require.NoError(t, err)

	assert.Equal(t, 200, got.Width)
	assert.Equal(t, 50, got.Height)

	decoded, err := png.Decode(bytes.NewReader(got.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 50), decoded.Bounds())
}

func TestPrepare_PortraitKeepsAspect(t *testing.T) {
	got, err := Prepare(encodePNG(t, 100, 400), 100)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Width)
	assert.Equal(t, 100, got.Height)
}

func TestPrepare_Corrupt(t *testing.T) {
	_, err := Prepare([]byte("definitely not an image"), 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")
}

func TestPrepare_RejectsOversizedDimensions(t *testing.T) {
	old := MaxPixels
	MaxPixels = 100
	t.Cleanup(func() { MaxPixels = old })

	_, err := Prepare(encodePNG(t, 40, 20), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 100 pixels")
}
