package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/service"
	"vibho-hcm/backend/pkg/response"
)

// DepartmentHandler 部门模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// Create 创建部门
// POST /api/v1/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), req.Name, req.Description, operatorID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, dept)
}

// List 部门列表
// GET /api/v1/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	depts, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, depts)
}

// Update 更新部门
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description, operatorID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}
	response.OK(c, dept)
}

// Delete 删除部门
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), c.Param("id"), operatorID); err != nil {
		h.handleDepartmentError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *DepartmentHandler) handleDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrDepartmentHasMembers):
		response.BadRequest(c, 13002, "部门下仍有员工，无法删除")
	default:
		response.InternalError(c)
	}
}
