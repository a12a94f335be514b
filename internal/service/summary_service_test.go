package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"vibho-hcm/backend/config"
	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
)

func setupTestSummaryService() (SummaryService, *mockTimeEntryRepo, *mockUserRepo) {
	userRepo := newMockUserRepo()
	entryRepo := newMockTimeEntryRepo()
	taskRepo := newMockTaskRepo(entryRepo)

	repo := &repository.Repository{
		User:      userRepo,
		TimeEntry: entryRepo,
		Task:      taskRepo,
		Project:   newMockProjectRepo(taskRepo),
	}
	svc := NewSummaryService(&config.Config{}, repo, nil, zap.NewNop())
	return svc, entryRepo, userRepo
}

func seedSummaryEntry(entryRepo *mockTimeEntryRepo, employeeID, projectID, date string, hours float64, billable bool) {
	_ = entryRepo.Create(context.Background(), &model.TimeEntry{
		EmployeeID:  employeeID,
		ProjectID:   projectID,
		TaskID:      "task-x",
		Date:        mustDate(date),
		Hours:       hours,
		Description: "工作",
		Billable:    billable,
		Status:      model.StatusApproved,
		Project:     &model.Project{ProjectID: projectID, Name: "项目" + projectID},
		Employee:    &model.User{UserID: employeeID, Name: "员工" + employeeID, DepartmentID: "dept-1"},
	})
}

func TestSummaryService_BillablePercentage(t *testing.T) {
	svc, entryRepo, _ := setupTestSummaryService()

	// 10 + 5 计费，12 + 5 不计费 → 15 / 32 ≈ 46.9%
	seedSummaryEntry(entryRepo, "emp-1", "p1", "2026-03-02", 10, true)
	seedSummaryEntry(entryRepo, "emp-1", "p1", "2026-03-03", 12, false)
	seedSummaryEntry(entryRepo, "emp-2", "p2", "2026-03-04", 5, true)
	seedSummaryEntry(entryRepo, "emp-2", "p2", "2026-03-05", 5, false)

	result, err := svc.Summarize(context.Background(), "hr-1", model.RoleHR, &dto.SummaryQuery{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	if err != nil {
		t.Fatalf("汇总应成功: %v", err)
	}
	if result.TotalHours != 32 {
		t.Errorf("期望总工时=32，实际=%v", result.TotalHours)
	}
	if result.BillableHours != 15 {
		t.Errorf("期望计费工时=15，实际=%v", result.BillableHours)
	}
	if result.NonBillableHours != 17 {
		t.Errorf("期望非计费工时=17，实际=%v", result.NonBillableHours)
	}
	if result.BillablePercentage != 46.9 {
		t.Errorf("期望计费占比=46.9，实际=%v", result.BillablePercentage)
	}
	if len(result.ProjectSummary) != 2 {
		t.Errorf("期望 2 个项目分组，实际=%d", len(result.ProjectSummary))
	}
	if len(result.EmployeeSummary) != 2 {
		t.Errorf("期望 2 个员工分组，实际=%d", len(result.EmployeeSummary))
	}
	// 分组按总工时降序
	if result.ProjectSummary[0].TotalHours < result.ProjectSummary[1].TotalHours {
		t.Error("项目分组应按总工时降序")
	}
}

func TestSummaryService_ZeroHours(t *testing.T) {
	svc, _, _ := setupTestSummaryService()

	result, err := svc.Summarize(context.Background(), "hr-1", model.RoleHR, &dto.SummaryQuery{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	if err != nil {
		t.Fatalf("空汇总应成功: %v", err)
	}
	if result.BillablePercentage != 0 {
		t.Errorf("总工时为 0 时计费占比应为 0，实际=%v", result.BillablePercentage)
	}
	if result.ProjectSummary == nil || result.EmployeeSummary == nil {
		t.Error("分组应为空数组而非 nil")
	}
}

func TestSummaryService_EmployeeScopedToSelf(t *testing.T) {
	svc, entryRepo, _ := setupTestSummaryService()

	seedSummaryEntry(entryRepo, "emp-1", "p1", "2026-03-02", 8, true)
	seedSummaryEntry(entryRepo, "emp-2", "p1", "2026-03-02", 6, true)

	// 员工请求他人数据时强制限定本人
	result, err := svc.Summarize(context.Background(), "emp-1", model.RoleEmployee, &dto.SummaryQuery{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-31",
		EmployeeID: "emp-2",
	})
	if err != nil {
		t.Fatalf("汇总应成功: %v", err)
	}
	if result.TotalHours != 8 {
		t.Errorf("员工只应汇总本人工时，期望=8，实际=%v", result.TotalHours)
	}
}

func TestSummaryService_DepartmentFilter(t *testing.T) {
	svc, entryRepo, _ := setupTestSummaryService()

	seedSummaryEntry(entryRepo, "emp-1", "p1", "2026-03-02", 8, true)
	e := &model.TimeEntry{
		EmployeeID:  "emp-9",
		ProjectID:   "p1",
		TaskID:      "task-x",
		Date:        mustDate("2026-03-02"),
		Hours:       6,
		Description: "工作",
		Billable:    true,
		Status:      model.StatusApproved,
		Employee:    &model.User{UserID: "emp-9", Name: "外部门员工", DepartmentID: "dept-2"},
	}
	_ = entryRepo.Create(context.Background(), e)

	result, err := svc.Summarize(context.Background(), "hr-1", model.RoleHR, &dto.SummaryQuery{
		StartDate:    "2026-03-01",
		EndDate:      "2026-03-31",
		DepartmentID: "dept-1",
	})
	if err != nil {
		t.Fatalf("汇总应成功: %v", err)
	}
	if result.TotalHours != 8 {
		t.Errorf("部门过滤后期望总工时=8，实际=%v", result.TotalHours)
	}
}

func seedSummaryTeam(userRepo *mockUserRepo) {
	mgrID := "mgr-1"
	_ = userRepo.Create(context.Background(), &model.User{
		UserID: mgrID, Name: "王经理", Email: "mgr@vibho.com",
		Role: model.RoleManager, DepartmentID: "dept-1",
	})
	_ = userRepo.Create(context.Background(), &model.User{
		UserID: "emp-team", Name: "组内员工", Email: "team@vibho.com",
		Role: model.RoleEmployee, DepartmentID: "dept-1", ManagerID: &mgrID,
	})
	_ = userRepo.Create(context.Background(), &model.User{
		UserID: "emp-other", Name: "其他团队员工", Email: "other@vibho.com",
		Role: model.RoleEmployee, DepartmentID: "dept-2",
	})
}

func TestSummaryService_ManagerNotDirectReport(t *testing.T) {
	svc, entryRepo, userRepo := setupTestSummaryService()
	seedSummaryTeam(userRepo)
	seedSummaryEntry(entryRepo, "emp-other", "p1", "2026-03-02", 8, true)

	// 经理指定非直属下属时拒绝
	_, err := svc.Summarize(context.Background(), "mgr-1", model.RoleManager, &dto.SummaryQuery{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-31",
		EmployeeID: "emp-other",
	})
	if !errors.Is(err, ErrNotAllowedToView) {
		t.Errorf("期望 ErrNotAllowedToView，实际: %v", err)
	}
}

func TestSummaryService_ManagerDirectReportAllowed(t *testing.T) {
	svc, entryRepo, userRepo := setupTestSummaryService()
	seedSummaryTeam(userRepo)
	seedSummaryEntry(entryRepo, "emp-team", "p1", "2026-03-02", 8, true)
	seedSummaryEntry(entryRepo, "emp-other", "p1", "2026-03-02", 6, true)

	result, err := svc.Summarize(context.Background(), "mgr-1", model.RoleManager, &dto.SummaryQuery{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-31",
		EmployeeID: "emp-team",
	})
	if err != nil {
		t.Fatalf("汇总直属下属应成功: %v", err)
	}
	if result.TotalHours != 8 {
		t.Errorf("期望总工时=8，实际=%v", result.TotalHours)
	}
}

func TestSummaryService_ManagerUnscopedLimitedToSelf(t *testing.T) {
	svc, entryRepo, userRepo := setupTestSummaryService()
	seedSummaryTeam(userRepo)
	seedSummaryEntry(entryRepo, "mgr-1", "p1", "2026-03-02", 4, true)
	seedSummaryEntry(entryRepo, "emp-team", "p1", "2026-03-02", 8, true)
	seedSummaryEntry(entryRepo, "emp-other", "p1", "2026-03-02", 6, true)

	// 经理未指定 employee_id 时仅汇总本人，不泄露全公司明细
	result, err := svc.Summarize(context.Background(), "mgr-1", model.RoleManager, &dto.SummaryQuery{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	if err != nil {
		t.Fatalf("汇总应成功: %v", err)
	}
	if result.TotalHours != 4 {
		t.Errorf("期望总工时=4，实际=%v", result.TotalHours)
	}
	if len(result.EmployeeSummary) != 1 {
		t.Errorf("期望 1 个员工分组，实际=%d", len(result.EmployeeSummary))
	}
}

func TestSummaryService_InvalidRange(t *testing.T) {
	svc, _, _ := setupTestSummaryService()

	_, err := svc.Summarize(context.Background(), "hr-1", model.RoleHR, &dto.SummaryQuery{
		StartDate: "2026-03-31",
		EndDate:   "2026-03-01",
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}
}
