package repository

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"legaldraft-analyzer/internal/model"
)

// FeedbackRepository appends feedback records. Writes from one process are
// serialized so concurrent submissions never interleave inside a transaction.
type FeedbackRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// AutoMigrate creates the feedback table when missing.
func (r *FeedbackRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&model.FeedbackRecord{}); err != nil {
		return fmt.Errorf("migrate feedback table failed: %w", err)
	}
	return nil
}

// Create inserts record and fills in its ID.
func (r *FeedbackRepository) Create(ctx context.Context, record *model.FeedbackRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		return fmt.Errorf("create feedback failed: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (r *FeedbackRepository) List(ctx context.Context, limit int) ([]model.FeedbackRecord, error) {
	var records []model.FeedbackRecord
	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list feedback failed: %w", err)
	}
	return records, nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id uint) (*model.FeedbackRecord, error) {
	var record model.FeedbackRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, fmt.Errorf("get feedback failed: %w", err)
	}
	return &record, nil
}

func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.FeedbackRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count feedback failed: %w", err)
	}
	return n, nil
}
