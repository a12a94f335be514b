package repository

import (
	"context"

	"gorm.io/gorm"

	"vibho-hcm/backend/internal/model"
	pkgerrors "vibho-hcm/backend/pkg/errors"
)

// ProjectRepository 项目数据访问接口
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, status string) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string, deletedBy string) error
	CountTasks(ctx context.Context, projectID string) (int64, error)
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) List(ctx context.Context, status string) ([]model.Project, error) {
	var projects []model.Project
	db := r.db.WithContext(ctx)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Preload("Tasks").
		Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	oldVersion := project.Version
	result := r.db.WithContext(ctx).
		Model(project).
		Where("project_id = ? AND version = ?", project.ProjectID, oldVersion).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"client":      project.Client,
			"description": project.Description,
			"start_date":  project.StartDate,
			"end_date":    project.EndDate,
			"status":      project.Status,
			"updated_by":  project.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	project.Version = oldVersion + 1
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("project_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *projectRepo) CountTasks(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
