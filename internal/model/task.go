package model

// Task 任务表 — 对应 tasks
// 每个任务归属且仅归属一个项目
type Task struct {
	TaskID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	ProjectID   string `gorm:"type:uuid;not null;index"                       json:"project_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	Status      string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | completed
	VersionedModel

	// 关联
	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
