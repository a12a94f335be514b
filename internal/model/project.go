package model

import "time"

// Project 项目表 — 对应 projects
type Project struct {
	ProjectID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"project_id"`
	Name        string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Client      string     `gorm:"type:varchar(100);not null"                     json:"client"`
	Description string     `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	StartDate   time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | completed | on_hold
	VersionedModel

	// 关联
	Tasks []Task `gorm:"foreignKey:ProjectID;references:ProjectID" json:"tasks,omitempty"`
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }
