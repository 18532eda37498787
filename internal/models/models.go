package models

// AllModels lists every persisted model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&ChannelJob{},
		&UsageRecord{},
		&UserSubscription{},
		&SavedTranscript{},
		&CacheEntry{},
		&ExtractionHistory{},
		&UserSettings{},
	}
}
