package decode

import (
	"context"
	"fmt"

	"legaldraft-analyzer/internal/pkg/pdfextract"
	"legaldraft-analyzer/internal/staging"
)

// PDFDecoder stages the upload on disk and extracts text page by page.
type PDFDecoder struct {
	StagingDir string
}

func (d *PDFDecoder) Decode(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	area, err := staging.Stage(d.StagingDir, data, ".pdf")
	if err != nil {
		return "", err
	}
	defer area.Release()

	text, err := pdfextract.ExtractText(area.Path())
	if err != nil {
		return "", fmt.Errorf("pdf: %w", err)
	}
	return text, nil
}
