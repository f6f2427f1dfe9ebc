package model

import "time"

// Activity records one mutation made through the API or the CLI.
type Activity struct {
	Base
	At        time.Time `gorm:"index;not null" json:"at"`
	Target    string    `gorm:"size:64;not null;index" json:"table"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	RowID     string    `gorm:"size:36" json:"row_id"`
	RequestID string    `gorm:"size:64" json:"request_id"`
	Details   string    `json:"details"`
}

// TableName implements gorm's tabler.
func (Activity) TableName() string { return "activity_log" }
