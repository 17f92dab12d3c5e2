package models

import "time"

// PreferencesModel persists per-user notification settings. RoundupTypes
// is stored as a comma-separated list.
type PreferencesModel struct {
	UserID           uint   `gorm:"primarykey;autoIncrement:false"`
	TrackerEmails    bool   `gorm:"not null;default:true"`
	SalesRoundup     bool   `gorm:"not null;default:false"`
	RoundupFrequency string `gorm:"not null;default:weekly;size:20"`
	RoundupTypes     string `gorm:"size:255"`
	Newsletter       bool   `gorm:"not null;default:false"`
	PreferencesSet   bool   `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (PreferencesModel) TableName() string {
	return "user_preferences"
}
