package types

// ChannelExtractionRequest starts a channel batch extraction. Limit is clamped
// to the tier maximum; Format is combined (default) or individual.
type ChannelExtractionRequest struct {
	URL    string `json:"url" example:"https://www.youtube.com/@fireship"`
	Limit  int    `json:"limit,omitempty" example:"10"`
	Format string `json:"format,omitempty" example:"combined"`
}

// SaveTranscriptRequest adds a transcript to the caller's library
type SaveTranscriptRequest struct {
	VideoID         string                 `json:"videoId" binding:"required" example:"dQw4w9WgXcQ"`
	Title           string                 `json:"title"`
	ChannelName     string                 `json:"channelName"`
	ThumbnailURL    string                 `json:"thumbnailUrl"`
	DurationSeconds int                    `json:"durationSeconds"`
	Transcript      string                 `json:"transcript"`
	Segments        []TranscriptSegmentDTO `json:"segments"`
	WordCount       int                    `json:"wordCount"`
}

// TranscriptSegmentDTO is one timed caption line; offset and duration are milliseconds
type TranscriptSegmentDTO struct {
	Text     string `json:"text"`
	Offset   int64  `json:"offset"`
	Duration int64  `json:"duration"`
}

// UpdateTranscriptRequest patches a saved transcript. Omitted fields are left as they are.
type UpdateTranscriptRequest struct {
	IsFavorite *bool     `json:"isFavorite,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

// UpdateSettingsRequest patches the caller's preferences. Omitted fields are left as they are.
type UpdateSettingsRequest struct {
	DefaultExportFormat *string `json:"defaultExportFormat,omitempty" example:"srt"`
	Theme               *string `json:"theme,omitempty" example:"dark"`
}
