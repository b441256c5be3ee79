package app

import (
	"context"

	"legaldraft-analyzer/internal/model"
	"legaldraft-analyzer/internal/pkg/logger"
	"legaldraft-analyzer/internal/spotter"
)

type TextDecoder interface {
	Decode(ctx context.Context, data []byte, filename string) (string, error)
}

type EvidenceAggregator interface {
	Aggregate(ctx context.Context, issues []model.Issue) []model.IssueResult
}

type AnalysisService struct {
	decoder    TextDecoder
	spotter    spotter.Spotter
	aggregator EvidenceAggregator
	log        *logger.Logger
}

type AnalyzeInput struct {
	Filename string
	Data     []byte
}

func NewAnalysisService(decoder TextDecoder, sp spotter.Spotter, aggregator EvidenceAggregator, log *logger.Logger) *AnalysisService {
	if sp == nil {
		sp = spotter.Placeholder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AnalysisService{
		decoder:    decoder,
		spotter:    sp,
		aggregator: aggregator,
		log:        log,
	}
}

// Analyze decodes the upload, spots issues and attaches precedents. Only a
// decoding failure aborts the request; search failures are reported per issue.
func (s *AnalysisService) Analyze(ctx context.Context, input AnalyzeInput) (*model.AnalysisReport, error) {
	text, err := s.decoder.Decode(ctx, input.Data, input.Filename)
	if err != nil {
		s.log.Warn("draft decode failed", "filename", input.Filename, "error", err)
		return nil, err
	}

	issues := s.spotter.Spot(text)
	if issues == nil {
		issues = []model.Issue{}
	}
	cases := s.aggregator.Aggregate(ctx, issues)

	failed := 0
	for _, c := range cases {
		if c.Error != "" {
			failed++
		}
	}
	s.log.Info("draft analyzed",
		"filename", input.Filename,
		"chars", len(text),
		"issues", len(issues),
		"failed_searches", failed,
	)

	return &model.AnalysisReport{
		Questions: issues,
		Cases:     cases,
		DraftText: text,
	}, nil
}
