package model

// FeedbackRecord pairs predicted issues with a reviewer's corrections.
// Records are append-only.
type FeedbackRecord struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DraftText          string `gorm:"type:text" json:"draft_text"`
	PredictedQuestions string `gorm:"type:text" json:"predicted_questions"`
	CorrectedQuestions string `gorm:"type:text" json:"corrected_questions"`
	// Timestamp is UTC in RFC 3339 with fractional seconds.
	Timestamp string `gorm:"size:64" json:"timestamp"`
}

func (FeedbackRecord) TableName() string { return "feedback" }
