package service

import (
	"time"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/model"
)

// 日期统一使用 "2006-01-02" 序列化
const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// ── 模型 → DTO 转换 ──

func toUserResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:           u.UserID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		ManagerID:    u.ManagerID,
		Designation:  u.Designation,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
	if u.Department != nil {
		resp.DepartmentName = u.Department.Name
	}
	return resp
}

func toProjectResponse(p *model.Project) *dto.ProjectResponse {
	resp := &dto.ProjectResponse{
		ID:          p.ProjectID,
		Name:        p.Name,
		Client:      p.Client,
		Description: p.Description,
		StartDate:   p.StartDate.Format(dateLayout),
		Status:      p.Status,
		TaskCount:   len(p.Tasks),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if p.EndDate != nil {
		s := p.EndDate.Format(dateLayout)
		resp.EndDate = &s
	}
	return resp
}

func toTaskResponse(t *model.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:          t.TaskID,
		ProjectID:   t.ProjectID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

func toEntryResponse(e *model.TimeEntry) *dto.EntryResponse {
	resp := &dto.EntryResponse{
		ID:          e.EntryID,
		EmployeeID:  e.EmployeeID,
		ProjectID:   e.ProjectID,
		TaskID:      e.TaskID,
		Date:        e.Date.Format(dateLayout),
		Hours:       e.Hours,
		Description: e.Description,
		Billable:    e.Billable,
		Status:      e.Status,
		TimesheetID: e.TimesheetID,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
	if e.Project != nil {
		resp.ProjectName = e.Project.Name
	}
	if e.Task != nil {
		resp.TaskName = e.Task.Name
	}
	return resp
}

func toTimesheetResponse(ts *model.Timesheet, withEntries bool) *dto.TimesheetResponse {
	resp := &dto.TimesheetResponse{
		ID:              ts.TimesheetID,
		EmployeeID:      ts.EmployeeID,
		WeekStartDate:   ts.WeekStartDate.Format(dateLayout),
		WeekEndDate:     ts.WeekEndDate.Format(dateLayout),
		TotalHours:      ts.TotalHours,
		BillableHours:   ts.BillableHours,
		Status:          ts.Status,
		Comments:        ts.Comments,
		SubmittedAt:     formatTimePtr(ts.SubmittedAt),
		ApprovedBy:      ts.ApprovedBy,
		ApprovedAt:      formatTimePtr(ts.ApprovedAt),
		RejectedBy:      ts.RejectedBy,
		RejectedAt:      formatTimePtr(ts.RejectedAt),
		RejectionReason: ts.RejectionReason,
		Version:         ts.Version,
	}
	if ts.Employee != nil {
		resp.EmployeeName = ts.Employee.Name
	}
	if withEntries {
		resp.Entries = make([]dto.EntryResponse, 0, len(ts.Entries))
		for i := range ts.Entries {
			resp.Entries = append(resp.Entries, *toEntryResponse(&ts.Entries[i]))
		}
	}
	return resp
}

// [自证通过] internal/service/convert.go
