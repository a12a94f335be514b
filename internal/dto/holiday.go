package dto

// ── 节假日模块 DTO ──

// CreateHolidayRequest 手动添加节假日
type CreateHolidayRequest struct {
	Date string `json:"date" binding:"required"` // "2024-05-01"
	Name string `json:"name" binding:"required,min=2,max=200"`
}

// ImportHolidayICSRequest 从 ICS 订阅导入节假日
// URL 为空时使用配置中的默认订阅地址
type ImportHolidayICSRequest struct {
	URL string `json:"url" binding:"omitempty,url"`
}

// HolidayResponse 节假日响应
type HolidayResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// ImportHolidayICSResponse 导入结果
type ImportHolidayICSResponse struct {
	ImportedCount int               `json:"imported_count"`
	SkippedCount  int               `json:"skipped_count"` // 已存在的日期
	Holidays      []HolidayResponse `json:"holidays"`
}
