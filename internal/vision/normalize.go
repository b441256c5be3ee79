package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxPixels rejects images whose declared dimensions would decode into an
// oversized bitmap.
var MaxPixels = 40_000_000

// Prepared is an image ready to be sent to an OCR engine.
type Prepared struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Prepare decodes data and, when either edge exceeds maxEdge, downscales it
// preserving aspect ratio and re-encodes it as PNG. Images within bounds are
// passed through untouched. maxEdge <= 0 disables resizing.
func Prepare(data []byte, maxEdge int) (*Prepared, error) {
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if int64(cfg.Width)*int64(cfg.Height) > int64(MaxPixels) {
			return nil, fmt.Errorf("decode image: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels)
		}
	}

	img, format, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("decode image: empty %dx%d image", w, h)
	}

	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return &Prepared{Data: data, MimeType: "image/" + format, Width: w, Height: h}, nil
	}

	nw, nh := scaledSize(w, h, maxEdge)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}
	return &Prepared{Data: buf.Bytes(), MimeType: "image/png", Width: nw, Height: nh}, nil
}

func scaledSize(w, h, maxEdge int) (int, int) {
	if w >= h {
		nh := h * maxEdge / w
		if nh < 1 {
			nh = 1
		}
		return maxEdge, nh
	}
	nw := w * maxEdge / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxEdge
}

func decodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}
	// Try JPEG and PNG explicitly (image.Decode may not recognize some)
	if img, jerr := jpeg.Decode(bytes.NewReader(data)); jerr == nil {
		return img, "jpeg", nil
	}
	if img, perr := png.Decode(bytes.NewReader(data)); perr == nil {
		return img, "png", nil
	}
	return nil, "", err
}
