package dao

import (
	"aria/aria/sources/psql/models"
	"context"

	"gorm.io/gorm"
)

type CallSummaryDAO struct {
	DB *gorm.DB
}

func NewCallSummaryDAO(db *gorm.DB) *CallSummaryDAO {
	return &CallSummaryDAO{DB: db}
}

// SaveCallSummary creates or refreshes the summary row for a session. The
// session end handler can fire twice (explicit goodbye plus disconnect), so
// this is an upsert keyed on session id.
func (dao *CallSummaryDAO) SaveCallSummary(ctx context.Context, summary *models.CallSummary) error {
	var existing models.CallSummary
	err := dao.DB.WithContext(ctx).
		Where("session_id = ?", summary.SessionID).
		First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return dao.DB.WithContext(ctx).Create(summary).Error
		}
		return err
	}
	existing.UserPhone = summary.UserPhone
	existing.DurationSeconds = summary.DurationSeconds
	existing.Transcript = summary.Transcript
	existing.SummaryText = summary.SummaryText
	existing.CostBreakdown = summary.CostBreakdown
	return dao.DB.WithContext(ctx).Save(&existing).Error
}

// ListCallSummaries returns summaries for a phone number, newest first.
func (dao *CallSummaryDAO) ListCallSummaries(ctx context.Context, phone string, limit int) ([]models.CallSummary, error) {
	var summaries []models.CallSummary
	err := dao.DB.WithContext(ctx).
		Where("user_phone = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
