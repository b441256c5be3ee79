package app

import (
	"context"
	"time"

	"legaldraft-analyzer/internal/model"
	"legaldraft-analyzer/internal/pkg/logger"
)

const FeedbackSavedMessage = "Feedback saved. Model will use this data for retraining."

type FeedbackStore interface {
	Create(ctx context.Context, record *model.FeedbackRecord) error
	List(ctx context.Context, limit int) ([]model.FeedbackRecord, error)
}

// FeedbackPublisher announces saved records to downstream consumers.
type FeedbackPublisher interface {
	Publish(ctx context.Context, record model.FeedbackRecord) error
}

type FeedbackService struct {
	store     FeedbackStore
	publisher FeedbackPublisher
	log       *logger.Logger
	now       func() time.Time
}

type FeedbackServiceOption func(*FeedbackService)

func WithFeedbackPublisher(p FeedbackPublisher) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.publisher = p
	}
}

func WithFeedbackLogger(log *logger.Logger) FeedbackServiceOption {
	return func(s *FeedbackService) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.now = now
	}
}

type FeedbackInput struct {
	DraftText string
	Predicted string
	Corrected string
}

func NewFeedbackService(store FeedbackStore, opts ...FeedbackServiceOption) *FeedbackService {
	s := &FeedbackService{
		store: store,
		log:   logger.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends one feedback entry stamped with the current UTC time. Text
// fields are stored verbatim, empty strings included.
func (s *FeedbackService) Record(ctx context.Context, input FeedbackInput) (*model.FeedbackRecord, error) {
	record := &model.FeedbackRecord{
		DraftText:          input.DraftText,
		PredictedQuestions: input.Predicted,
		CorrectedQuestions: input.Corrected,
		Timestamp:          s.now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.store.Create(ctx, record); err != nil {
		s.log.Error("feedback save failed", "error", err)
		return nil, &StorageError{Op: "insert", Err: err}
	}
	s.log.Info("feedback saved", "id", record.ID)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, *record); err != nil {
			s.log.Warn("feedback event publish failed", "id", record.ID, "error", err)
		}
	}
	return record, nil
}

func (s *FeedbackService) List(ctx context.Context, limit int) ([]model.FeedbackRecord, error) {
	records, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return records, nil
}
