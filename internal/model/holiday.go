package model

import "time"

// Holiday 公司节假日表 — 对应 holidays
// 提交周报时，落在节假日的工作日不要求填报工时
type Holiday struct {
	HolidayID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"holiday_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"date"`
	Name      string    `gorm:"type:varchar(200);not null"                     json:"name"`
	Source    string    `gorm:"type:varchar(20);not null;default:'manual'"     json:"source"` // manual | ics
	BaseModel
}

// TableName 指定表名
func (Holiday) TableName() string { return "holidays" }
