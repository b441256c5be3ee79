package decode

import (
	"context"

	"legaldraft-analyzer/internal/vision"
)

// ImageDecoder normalizes the image and hands it to an OCR engine.
type ImageDecoder struct {
	OCR     OCR
	MaxEdge int
}

func (d *ImageDecoder) Decode(ctx context.Context, data []byte) (string, error) {
	prepared, err := vision.Prepare(data, d.MaxEdge)
	if err != nil {
		return "", err
	}
	if d.OCR == nil {
		return "", ErrOCRUnavailable
	}
	return d.OCR.RecognizeText(ctx, prepared.Data, prepared.MimeType)
}
