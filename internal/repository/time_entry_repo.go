package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vibho-hcm/backend/internal/model"
	pkgerrors "vibho-hcm/backend/pkg/errors"
)

// TimeEntryRepository 工时条目数据访问接口
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, id string) (*model.TimeEntry, error)
	// ListByRange 查询日期闭区间内的条目，employeeID / projectID 为空时不过滤
	ListByRange(ctx context.Context, start, end time.Time, employeeID, projectID string) ([]model.TimeEntry, error)
	Update(ctx context.Context, entry *model.TimeEntry) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type timeEntryRepo struct {
	db *gorm.DB
}

func NewTimeEntryRepo(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepo{db: db}
}

func (r *timeEntryRepo) Create(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timeEntryRepo) GetByID(ctx context.Context, id string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Task").
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) ListByRange(ctx context.Context, start, end time.Time, employeeID, projectID string) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	db := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end)
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	if projectID != "" {
		db = db.Where("project_id = ?", projectID)
	}
	err := db.Preload("Project").
		Preload("Task").
		Preload("Employee").Preload("Employee.Department").
		Order("date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timeEntryRepo) Update(ctx context.Context, entry *model.TimeEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(entry).
		Where("entry_id = ? AND version = ?", entry.EntryID, oldVersion).
		Updates(map[string]interface{}{
			"project_id":  entry.ProjectID,
			"task_id":     entry.TaskID,
			"date":        entry.Date,
			"hours":       entry.Hours,
			"description": entry.Description,
			"billable":    entry.Billable,
			"status":      entry.Status,
			"updated_by":  entry.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *timeEntryRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Where("entry_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
