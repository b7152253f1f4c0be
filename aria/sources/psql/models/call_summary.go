package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallSummary is written once per session at teardown. SessionID is unique so
// a second end-of-session trigger updates the row instead of duplicating it.
type CallSummary struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SessionID       string    `json:"session_id" gorm:"type:varchar(255);not null;unique"`
	UserPhone       *string   `json:"user_phone,omitempty" gorm:"type:varchar(32);index"`
	DurationSeconds int       `json:"duration_seconds" gorm:"not null"`
	Transcript      string    `json:"transcript" gorm:"type:jsonb"`
	SummaryText     string    `json:"summary_text" gorm:"type:text;not null"`
	CostBreakdown   string    `json:"cost_breakdown" gorm:"type:jsonb"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CallSummary) TableName() string {
	return "call_summaries"
}

func (s *CallSummary) BeforeCreate(tx *gorm.DB) (err error) {
	return tx.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
}
