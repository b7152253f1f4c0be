package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preference notes are append-only. UserPhone is nullable because callers
// sometimes mention preferences before identifying themselves.
type Preference struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserPhone  *string   `json:"user_phone,omitempty" gorm:"type:varchar(32);index"`
	Preference string    `json:"preference" gorm:"type:text;not null"`
	Category   string    `json:"category" gorm:"type:varchar(50);not null;default:general"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Preference) TableName() string {
	return "preferences"
}

func (p *Preference) BeforeCreate(tx *gorm.DB) (err error) {
	return tx.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
}
