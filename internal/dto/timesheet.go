package dto

// ── 工时模块 DTO ──
//
// 所有日期字段均以 "2006-01-02" 格式序列化

// CreateEntryRequest 创建工时条目请求
type CreateEntryRequest struct {
	ProjectID   string  `json:"project_id"  binding:"required,uuid"`
	TaskID      string  `json:"task_id"     binding:"required,uuid"`
	Date        string  `json:"date"        binding:"required"`
	Hours       float64 `json:"hours"       binding:"required"`
	Description string  `json:"description" binding:"required,max=500"`
	Billable    *bool   `json:"billable"`
}

// UpdateEntryRequest 更新工时条目请求（仅 draft 可更新）
type UpdateEntryRequest struct {
	ProjectID   *string  `json:"project_id"  binding:"omitempty,uuid"`
	TaskID      *string  `json:"task_id"     binding:"omitempty,uuid"`
	Date        *string  `json:"date"`
	Hours       *float64 `json:"hours"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Billable    *bool    `json:"billable"`
}

// EntryResponse 工时条目响应
type EntryResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name,omitempty"`
	TaskID      string  `json:"task_id"`
	TaskName    string  `json:"task_name,omitempty"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
	Billable    bool    `json:"billable"`
	Status      string  `json:"status"`
	TimesheetID *string `json:"timesheet_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ListEntriesQuery 查询工时条目
type ListEntriesQuery struct {
	StartDate  string `form:"start_date" binding:"required"`
	EndDate    string `form:"end_date"   binding:"required"`
	EmployeeID string `form:"employee_id"`
	ProjectID  string `form:"project_id"`
}

// SubmitTimesheetRequest 提交周报单请求
type SubmitTimesheetRequest struct {
	WeekStartDate string `json:"week_start_date" binding:"required"` // 任意落在目标周内的日期均可，服务端归一化为周一
	Comments      string `json:"comments"        binding:"max=500"`
}

// ApproveTimesheetRequest 审批通过请求
type ApproveTimesheetRequest struct {
	Comments string `json:"comments" binding:"max=500"`
	Version  int    `json:"version"  binding:"required,min=1"` // 乐观锁：最后一次读到的版本号
}

// RejectTimesheetRequest 审批驳回请求
type RejectTimesheetRequest struct {
	Reason  string `json:"reason"  binding:"required,min=2,max=500"`
	Version int    `json:"version" binding:"required,min=1"`
}

// TimesheetResponse 周报单响应
type TimesheetResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	WeekStartDate   string          `json:"week_start_date"`
	WeekEndDate     string          `json:"week_end_date"`
	TotalHours      float64         `json:"total_hours"`
	BillableHours   float64         `json:"billable_hours"`
	Status          string          `json:"status"`
	Comments        string          `json:"comments,omitempty"`
	SubmittedAt     *string         `json:"submitted_at,omitempty"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	RejectedBy      *string         `json:"rejected_by,omitempty"`
	RejectedAt      *string         `json:"rejected_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	Version         int             `json:"version"`
	Entries         []EntryResponse `json:"entries,omitempty"`
}

// ListTimesheetsQuery 查询周报单
type ListTimesheetsQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=submitted approved rejected"`
	EmployeeID string `form:"employee_id"`
}

// ── 汇总 DTO ──

// SummaryQuery 工时汇总查询
type SummaryQuery struct {
	StartDate    string `form:"start_date" binding:"required"`
	EndDate      string `form:"end_date"   binding:"required"`
	EmployeeID   string `form:"employee_id"`
	ProjectID    string `form:"project_id"`
	DepartmentID string `form:"department_id"`
}

// ProjectSummary 按项目汇总
type ProjectSummary struct {
	ProjectID     string  `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	TotalHours    float64 `json:"total_hours"`
	BillableHours float64 `json:"billable_hours"`
}

// EmployeeSummary 按员工汇总
type EmployeeSummary struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	TotalHours    float64 `json:"total_hours"`
	BillableHours float64 `json:"billable_hours"`
}

// SummaryResponse 工时汇总响应
type SummaryResponse struct {
	TotalHours         float64           `json:"total_hours"`
	BillableHours      float64           `json:"billable_hours"`
	NonBillableHours   float64           `json:"non_billable_hours"`
	BillablePercentage float64           `json:"billable_percentage"`
	ProjectSummary     []ProjectSummary  `json:"project_summary"`
	EmployeeSummary    []EmployeeSummary `json:"employee_summary"`
}

// ── 导出 DTO ──

// ExportQuery 工时导出查询
type ExportQuery struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	StartDate  string `form:"start_date"  binding:"required"`
	EndDate    string `form:"end_date"    binding:"required"`
	Format     string `form:"format"      binding:"required,oneof=csv excel pdf"`
}
