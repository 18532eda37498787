package models

import "time"

// Theme values accepted for UserSettings.Theme
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// UserSettings holds per-user preferences. Users without a row get
// DefaultUserSettings.
type UserSettings struct {
	UserID              string    `gorm:"primaryKey;type:varchar(64)" json:"userId"`
	DefaultExportFormat string    `gorm:"type:varchar(8);not null;default:'txt'" json:"defaultExportFormat"`
	Theme               string    `gorm:"type:varchar(16);not null;default:'system'" json:"theme"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// TableName specifies the table name for UserSettings
func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings returns the preferences of a user who never saved any
func DefaultUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:              userID,
		DefaultExportFormat: "txt",
		Theme:               ThemeSystem,
	}
}
