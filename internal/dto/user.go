package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（admin/hr）
type CreateUserRequest struct {
	Name         string  `json:"name"          binding:"required,min=2,max=100"`
	Email        string  `json:"email"         binding:"required,email"`
	Password     string  `json:"password"      binding:"required,min=6"`
	Role         string  `json:"role"          binding:"required,oneof=employee manager hr admin"`
	DepartmentID string  `json:"department_id" binding:"required,uuid"`
	ManagerID    *string `json:"manager_id"    binding:"omitempty,uuid"`
	Designation  string  `json:"designation"   binding:"max=100"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Role         *string `json:"role"          binding:"omitempty,oneof=employee manager hr admin"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	ManagerID    *string `json:"manager_id"    binding:"omitempty,uuid"`
	Designation  *string `json:"designation"   binding:"omitempty,max=100"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name,omitempty"`
	ManagerID      *string `json:"manager_id,omitempty"`
	Designation    string  `json:"designation,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
