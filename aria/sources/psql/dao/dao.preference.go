package dao

import (
	"aria/aria/sources/psql/models"
	"context"

	"gorm.io/gorm"
)

type PreferenceDAO struct {
	DB *gorm.DB
}

func NewPreferenceDAO(db *gorm.DB) *PreferenceDAO {
	return &PreferenceDAO{DB: db}
}

func (dao *PreferenceDAO) InsertPreference(ctx context.Context, pref *models.Preference) error {
	return dao.DB.WithContext(ctx).Create(pref).Error
}

func (dao *PreferenceDAO) ListPreferences(ctx context.Context, phone string) ([]models.Preference, error) {
	var prefs []models.Preference
	err := dao.DB.WithContext(ctx).
		Where("user_phone = ?", phone).
		Order("created_at ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
}
