package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
)

func setupTestExportService() (ExportService, *mockTimeEntryRepo, *mockUserRepo) {
	userRepo := newMockUserRepo()
	entryRepo := newMockTimeEntryRepo()

	repo := &repository.Repository{
		User:      userRepo,
		TimeEntry: entryRepo,
	}

	_ = userRepo.Create(context.Background(), &model.User{
		Email: "alice@vibho.com", Name: "Alice",
		Role: model.RoleEmployee, DepartmentID: "dept-1",
	})

	return NewExportService(repo, zap.NewNop()), entryRepo, userRepo
}

func seedExportEntries(entryRepo *mockTimeEntryRepo) {
	for i, billable := range []bool{true, true, false} {
		_ = entryRepo.Create(context.Background(), &model.TimeEntry{
			EmployeeID:  "user-alice@vibho.com",
			ProjectID:   "p1",
			TaskID:      "t1",
			Date:        mustDate("2026-03-02").AddDate(0, 0, i),
			Hours:       8,
			Description: "开发",
			Billable:    billable,
			Status:      model.StatusApproved,
			Project:     &model.Project{ProjectID: "p1", Name: "Apollo"},
			Task:        &model.Task{TaskID: "t1", Name: "Backend"},
		})
	}
}

func TestExportService_CSV(t *testing.T) {
	svc, entryRepo, _ := setupTestExportService()
	seedExportEntries(entryRepo)

	buf, filename, contentType, err := svc.Export(context.Background(),
		"user-alice@vibho.com", model.RoleEmployee, &dto.ExportQuery{
			EmployeeID: "user-alice@vibho.com",
			StartDate:  "2026-03-01",
			EndDate:    "2026-03-31",
			Format:     "csv",
		})
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".csv") {
		t.Errorf("期望 .csv 文件名，实际=%s", filename)
	}
	if !strings.HasPrefix(contentType, "text/csv") {
		t.Errorf("期望 text/csv，实际=%s", contentType)
	}

	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV 应可解析: %v", err)
	}
	// 表头 + 3 条明细 + 合计行
	if len(records) != 5 {
		t.Fatalf("期望 5 行，实际=%d", len(records))
	}
	if records[0][0] != "日期" {
		t.Errorf("期望表头首列=日期，实际=%s", records[0][0])
	}
	last := records[len(records)-1]
	if last[0] != "合计" || last[3] != "24.00" {
		t.Errorf("合计行不正确: %v", last)
	}
}

func TestExportService_Excel(t *testing.T) {
	svc, entryRepo, _ := setupTestExportService()
	seedExportEntries(entryRepo)

	buf, filename, _, err := svc.Export(context.Background(),
		"user-alice@vibho.com", model.RoleEmployee, &dto.ExportQuery{
			EmployeeID: "user-alice@vibho.com",
			StartDate:  "2026-03-01",
			EndDate:    "2026-03-31",
			Format:     "excel",
		})
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("期望 .xlsx 文件名，实际=%s", filename)
	}
	// xlsx 即 zip 容器，校验魔数
	head := buf.Bytes()[:2]
	if head[0] != 'P' || head[1] != 'K' {
		t.Error("xlsx 内容应为 zip 格式")
	}
}

func TestExportService_PDF(t *testing.T) {
	svc, entryRepo, _ := setupTestExportService()
	seedExportEntries(entryRepo)

	buf, filename, contentType, err := svc.Export(context.Background(),
		"user-alice@vibho.com", model.RoleEmployee, &dto.ExportQuery{
			EmployeeID: "user-alice@vibho.com",
			StartDate:  "2026-03-01",
			EndDate:    "2026-03-31",
			Format:     "pdf",
		})
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".pdf") {
		t.Errorf("期望 .pdf 文件名，实际=%s", filename)
	}
	if contentType != "application/pdf" {
		t.Errorf("期望 application/pdf，实际=%s", contentType)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("PDF 内容应以 %PDF 开头")
	}
}

func TestExportService_NoEntries(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, _, err := svc.Export(context.Background(),
		"user-alice@vibho.com", model.RoleEmployee, &dto.ExportQuery{
			EmployeeID: "user-alice@vibho.com",
			StartDate:  "2026-03-01",
			EndDate:    "2026-03-31",
			Format:     "csv",
		})
	if !errors.Is(err, ErrExportNoEntries) {
		t.Errorf("期望 ErrExportNoEntries，实际: %v", err)
	}
}

func TestExportService_EmployeeCannotExportOthers(t *testing.T) {
	svc, entryRepo, userRepo := setupTestExportService()
	seedExportEntries(entryRepo)

	_ = userRepo.Create(context.Background(), &model.User{
		Email: "bob@vibho.com", Name: "Bob",
		Role: model.RoleEmployee, DepartmentID: "dept-1",
	})

	_, _, _, err := svc.Export(context.Background(),
		"user-bob@vibho.com", model.RoleEmployee, &dto.ExportQuery{
			EmployeeID: "user-alice@vibho.com",
			StartDate:  "2026-03-01",
			EndDate:    "2026-03-31",
			Format:     "csv",
		})
	if !errors.Is(err, ErrNotAllowedToView) {
		t.Errorf("期望 ErrNotAllowedToView，实际: %v", err)
	}
}
