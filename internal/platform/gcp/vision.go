package gcp

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"legaldraft-analyzer/internal/pkg/logger"
)

// VisionOCR recognizes document text with Cloud Vision DOCUMENT_TEXT_DETECTION.
type VisionOCR struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
	log     *logger.Logger
}

func NewVisionOCR(ctx context.Context, credentials string, timeout time.Duration, log *logger.Logger) (*VisionOCR, error) {
	if log == nil {
		log = logger.Nop()
	}
	client, err := vision.NewImageAnnotatorClient(ctx, ClientOptions(credentials)...)
	if err != nil {
		return nil, fmt.Errorf("create vision client failed: %w", err)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &VisionOCR{client: client, timeout: timeout, log: log.With("service", "gcp.Vision")}, nil
}

func (v *VisionOCR) RecognizeText(ctx context.Context, img []byte, mimeType string) (string, error) {
	if len(img) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: img},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	}
	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision annotate failed: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if r0.FullTextAnnotation == nil {
		return "", nil
	}
	v.log.Debug("ocr complete", "mime_type", mimeType, "chars", len(r0.FullTextAnnotation.Text))
	return r0.FullTextAnnotation.Text, nil
}

func (v *VisionOCR) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}
