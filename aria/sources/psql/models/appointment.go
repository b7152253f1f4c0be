package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Appointment rows are never deleted; cancellation flips Status. A partial
// unique index on (date, time) where status = 'confirmed' backs the
// one-booking-per-slot invariant (see psql.NewDatabase).
type Appointment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserPhone string    `json:"user_phone" gorm:"type:varchar(32);not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserPhone;references:PhoneNumber;constraint:OnDelete:CASCADE"`
	Date      string    `json:"date" gorm:"type:varchar(10);not null"`
	Time      string    `json:"time" gorm:"type:varchar(5);not null"`
	Purpose   string    `json:"purpose" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"type:varchar(20);not null;default:confirmed"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	return tx.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
}
