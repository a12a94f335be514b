package repository

import (
	"context"

	"gorm.io/gorm"

	"vibho-hcm/backend/internal/model"
	pkgerrors "vibho-hcm/backend/pkg/errors"
)

// TaskRepository 任务数据访问接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	ListByProject(ctx context.Context, projectID string, status string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string, deletedBy string) error
	CountEntries(ctx context.Context, taskID string) (int64, error)
}

type taskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) ListByProject(ctx context.Context, projectID string, status string) ([]model.Task, error) {
	var tasks []model.Task
	db := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) Update(ctx context.Context, task *model.Task) error {
	oldVersion := task.Version
	result := r.db.WithContext(ctx).
		Model(task).
		Where("task_id = ? AND version = ?", task.TaskID, oldVersion).
		Updates(map[string]interface{}{
			"name":        task.Name,
			"description": task.Description,
			"status":      task.Status,
			"updated_by":  task.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	task.Version = oldVersion + 1
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("task_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *taskRepo) CountEntries(ctx context.Context, taskID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}
