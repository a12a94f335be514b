package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrDepartmentNotFound = errors.New("部门不存在")
	ErrManagerNotFound    = errors.New("指定的经理不存在")
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, operatorID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, departmentID string, page, pageSize int) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, operatorID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, operatorID string) (*dto.UserResponse, error) {
	// 邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 部门存在性
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	// 经理存在性（可选字段）
	if req.ManagerID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.ManagerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrManagerNotFound
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		ManagerID:    req.ManagerID,
		Designation:  req.Designation,
	}
	user.CreatedBy = &operatorID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户已创建",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role))
	return toUserResponse(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, departmentID string, page, pageSize int) ([]dto.UserResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := s.repo.User.List(ctx, departmentID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, *toUserResponse(&users[i]))
	}
	return list, total, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, operatorID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.DepartmentID != nil {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		user.DepartmentID = *req.DepartmentID
	}
	if req.ManagerID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.ManagerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrManagerNotFound
			}
			return nil, err
		}
		user.ManagerID = req.ManagerID
	}
	if req.Designation != nil {
		user.Designation = *req.Designation
	}
	user.UpdatedBy = &operatorID

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.repo.User.Delete(ctx, id, operatorID); err != nil {
		return err
	}
	s.logger.Info("用户已删除", zap.String("user_id", id), zap.String("operator", operatorID))
	return nil
}
