package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vibho-hcm/backend/internal/model"
)

// HolidayRepository 节假日数据访问接口
type HolidayRepository interface {
	Create(ctx context.Context, holiday *model.Holiday) error
	ListByRange(ctx context.Context, start, end time.Time) ([]model.Holiday, error)
	ExistsOn(ctx context.Context, date time.Time) (bool, error)
}

type holidayRepo struct {
	db *gorm.DB
}

func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) Create(ctx context.Context, holiday *model.Holiday) error {
	return r.db.WithContext(ctx).Create(holiday).Error
}

func (r *holidayRepo) ListByRange(ctx context.Context, start, end time.Time) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *holidayRepo) ExistsOn(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Holiday{}).
		Where("date = ?", date).
		Count(&count).Error
	return count > 0, err
}
