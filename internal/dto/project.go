package dto

// ── 项目 / 任务模块 DTO ──

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string  `json:"name"        binding:"required,min=2,max=100"`
	Client      string  `json:"client"      binding:"required,min=2,max=100"`
	Description string  `json:"description" binding:"max=500"`
	StartDate   string  `json:"start_date"  binding:"required"` // "2024-01-01"
	EndDate     *string `json:"end_date"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Client      *string `json:"client"      binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      *string `json:"status"      binding:"omitempty,oneof=active completed on_hold"`
}

// ProjectResponse 项目信息响应
type ProjectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Client      string  `json:"client"`
	Description string  `json:"description,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	Status      string  `json:"status"`
	TaskCount   int     `json:"task_count"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateTaskRequest 更新任务请求
type UpdateTaskRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Status      *string `json:"status"      binding:"omitempty,oneof=active completed"`
}

// TaskResponse 任务信息响应
type TaskResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
