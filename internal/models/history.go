package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryStatus is the outcome of a single video extraction
type HistoryStatus string

const (
	HistoryProcessing HistoryStatus = "processing"
	HistoryCompleted  HistoryStatus = "completed"
	HistoryFailed     HistoryStatus = "failed"
)

// HistoryPreviewLength caps the transcript excerpt kept per entry, in runes
const HistoryPreviewLength = 500

// ExtractionHistory records one single-video extraction of a signed-in user
type ExtractionHistory struct {
	ID                string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID            string        `gorm:"not null;index:idx_history_user_created" json:"userId"`
	VideoID           string        `gorm:"not null;type:varchar(16)" json:"videoId"`
	VideoTitle        string        `json:"videoTitle"`
	ChannelName       string        `json:"channelName,omitempty"`
	ThumbnailURL      string        `json:"thumbnailUrl,omitempty"`
	DurationSeconds   int           `json:"durationSeconds"`
	Status            HistoryStatus `gorm:"type:varchar(16);not null" json:"status"`
	ErrorMessage      string        `gorm:"type:text" json:"errorMessage,omitempty"`
	TranscriptPreview string        `gorm:"type:text" json:"transcriptPreview,omitempty"`
	WordCount         int           `json:"wordCount"`
	CreatedAt         time.Time     `gorm:"index:idx_history_user_created" json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for ExtractionHistory
func (ExtractionHistory) TableName() string {
	return "extraction_history"
}

func (h *ExtractionHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// Preview returns the first HistoryPreviewLength runes of text
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= HistoryPreviewLength {
		return text
	}
	return string(runes[:HistoryPreviewLength])
}
