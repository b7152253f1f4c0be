package dao

import (
	"aria/aria/sources/psql/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

// UpsertUser creates the user row for a phone number, or updates the stored
// name when one is supplied. A nil name never clobbers an existing one.
func (dao *UserDAO) UpsertUser(ctx context.Context, phone string, name *string) error {
	user := models.User{PhoneNumber: phone, Name: name}
	assign := clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoNothing: true,
	}
	if name != nil {
		assign = clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}
	}
	return dao.DB.WithContext(ctx).Clauses(assign).Create(&user).Error
}

// GetUserName returns the stored display name for a phone number, or nil when
// the user is unknown or has no name on file.
func (dao *UserDAO) GetUserName(ctx context.Context, phone string) (*string, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user.Name, nil
}
