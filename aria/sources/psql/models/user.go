package models

import "time"

// User is keyed by phone number: callers identify themselves by speaking it,
// so it is the one stable identifier we have.
type User struct {
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(32);primaryKey"`
	Name        *string   `json:"name,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
