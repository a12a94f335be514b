package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
)

var ErrDepartmentHasMembers = errors.New("部门下仍有员工，无法删除")

// DepartmentService 部门业务接口
type DepartmentService interface {
	Create(ctx context.Context, name, description, operatorID string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	Update(ctx context.Context, id, name, description, operatorID string) (*model.Department, error)
	Delete(ctx context.Context, id, operatorID string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

func (s *departmentService) Create(ctx context.Context, name, description, operatorID string) (*model.Department, error) {
	dept := &model.Department{Name: name, Description: description}
	dept.CreatedBy = &operatorID
	if err := s.repo.Department.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) List(ctx context.Context) ([]model.Department, error) {
	return s.repo.Department.List(ctx)
}

func (s *departmentService) Update(ctx context.Context, id, name, description, operatorID string) (*model.Department, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	dept.Name = name
	dept.Description = description
	dept.UpdatedBy = &operatorID
	if err := s.repo.Department.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) Delete(ctx context.Context, id, operatorID string) error {
	if _, err := s.repo.Department.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	members, err := s.repo.User.ListByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		return ErrDepartmentHasMembers
	}
	return s.repo.Department.Delete(ctx, id, operatorID)
}
