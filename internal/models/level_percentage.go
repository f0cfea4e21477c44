package models

import "time"

// LevelPercentageBase is a dated record of per-level commission multipliers,
// keyed by level name (BASIC ... PRIME). The table is append-only; the
// current policy is the row with the greatest creation instant.
type LevelPercentageBase struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Percentages DecimalMap `gorm:"type:json;not null" json:"percentages"`
	CreatedAt   time.Time  `gorm:"index;not null" json:"created_at"`
}

// TableName sets the table name.
func (LevelPercentageBase) TableName() string {
	return "level_percentage_bases"
}
