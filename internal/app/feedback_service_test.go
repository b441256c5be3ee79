package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legaldraft-analyzer/internal/model"
	"legaldraft-analyzer/internal/platform/database"
	"legaldraft-analyzer/internal/repository"
)

type failingStore struct{ err error }

func (f failingStore) Create(context.Context, *model.FeedbackRecord) error { return f.err }
func (f failingStore) List(context.Context, int) ([]model.FeedbackRecord, error) {
	return nil, f.err
}

type recordingPublisher struct {
	records []model.FeedbackRecord
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, r model.FeedbackRecord) error {
	p.records = append(p.records, r)
	return p.err
}

func newSQLiteStore(t *testing.T) *repository.FeedbackRepository {
	t.Helper()
	db, err := database.New(context.Background(), database.DriverSQLite, filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	repo := repository.NewFeedbackRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func TestFeedbackService_RecordRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	fixed := time.Date(2024, 3, 5, 10, 30, 0, 123000000, time.FixedZone("IST", 5*3600+1800))
	svc := NewFeedbackService(store, WithClock(func() time.Time { return fixed }))

	rec, err := svc.Record(context.Background(), FeedbackInput{
		DraftText: "draft body",
		Predicted: "Q1\nQ2\nQ3",
		Corrected: "Q1\nQ4",
	})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, "2024-03-05T05:00:00.123Z", rec.Timestamp)

	records, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
	assert.Equal(t, "draft body", records[0].DraftText)
	assert.Equal(t, "Q1\nQ2\nQ3", records[0].PredictedQuestions)
	assert.Equal(t, "Q1\nQ4", records[0].CorrectedQuestions)
}

func TestFeedbackService_EmptyFieldsAllowed(t *testing.T) {
	svc := NewFeedbackService(newSQLiteStore(t))

	first, err := svc.Record(context.Background(), FeedbackInput{})
	require.NoError(t, err)
	second, err := svc.Record(context.Background(), FeedbackInput{})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	ts, err := time.Parse(time.RFC3339Nano, first.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
}

func TestFeedbackService_StorageError(t *testing.T) {
	cause := errors.New("disk full")
	pub := &recordingPublisher{}
	svc := NewFeedbackService(failingStore{err: cause}, WithFeedbackPublisher(pub))

	_, err := svc.Record(context.Background(), FeedbackInput{DraftText: "x"})
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, pub.records)

	_, err = svc.List(context.Background(), 1)
	require.ErrorAs(t, err, &se)
}

func TestFeedbackService_PublishesAfterSave(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker unreachable")}
	svc := NewFeedbackService(newSQLiteStore(t), WithFeedbackPublisher(pub))

	rec, err := svc.Record(context.Background(), FeedbackInput{DraftText: "d", Predicted: "p", Corrected: "c"})
	require.NoError(t, err, "publish failures must not fail a saved record")
	require.Len(t, pub.records, 1)
	assert.Equal(t, rec.ID, pub.records[0].ID)
	assert.Equal(t, "c", pub.records[0].CorrectedQuestions)
}

func TestFeedbackService_TimestampWithinCall(t *testing.T) {
	svc := NewFeedbackService(newSQLiteStore(t))

	before := time.Now()
	rec, err := svc.Record(context.Background(), FeedbackInput{DraftText: "X", Predicted: "[]", Corrected: `["Q1"]`})
	after := time.Now()
	require.NoError(t, err)

	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	require.NoError(t, err)
	assert.False(t, ts.Before(before.Round(0)), "timestamp %s precedes call start %s", ts, before)
	assert.False(t, ts.After(after.Round(0)), "timestamp %s follows call end %s", ts, after)

	records, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "X", records[0].DraftText)
	assert.Equal(t, "[]", records[0].PredictedQuestions)
	assert.Equal(t, `["Q1"]`, records[0].CorrectedQuestions)
	assert.Equal(t, rec.Timestamp, records[0].Timestamp)
}
