package models

import "time"

// ActionType is a metered operation
type ActionType string

const (
	ActionVideoExtraction   ActionType = "video_extraction"
	ActionChannelExtraction ActionType = "channel_extraction"
)

// UsageRecord is one append-only usage entry
type UsageRecord struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserID     string     `gorm:"index:idx_usage_user_created;not null" json:"userId"`
	ActionType ActionType `gorm:"type:varchar(32);not null" json:"actionType"`
	VideoCount int        `gorm:"not null;default:1" json:"videoCount"`
	CreatedAt  time.Time  `gorm:"index:idx_usage_user_created" json:"createdAt"`
}

// TableName specifies the table name for UsageRecord
func (UsageRecord) TableName() string {
	return "usage_tracking"
}

// SubscriptionTier names a billing tier
type SubscriptionTier string

const (
	TierFree     SubscriptionTier = "free"
	TierPro      SubscriptionTier = "pro"
	TierBusiness SubscriptionTier = "business"
)

// UserSubscription is written by the billing integration; only the tier is read here
type UserSubscription struct {
	UserID    string           `gorm:"primaryKey;type:varchar(64)" json:"userId"`
	Tier      SubscriptionTier `gorm:"type:varchar(16);not null;default:'free'" json:"tier"`
	Status    string           `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName specifies the table name for UserSubscription
func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// IsActive reports whether the subscription currently grants its tier
func (s UserSubscription) IsActive() bool {
	return s.Status == "" || s.Status == "active" || s.Status == "trialing"
}
