package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/service"
	"vibho-hcm/backend/pkg/response"
)

// HolidayHandler 节假日模块 HTTP 处理器
type HolidayHandler struct {
	holidaySvc service.HolidayService
}

// NewHolidayHandler 创建 HolidayHandler
func NewHolidayHandler(holidaySvc service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidaySvc: holidaySvc}
}

// Create 手动添加节假日
// POST /api/v1/holidays
func (h *HolidayHandler) Create(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	holiday, err := h.holidaySvc.Create(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.Created(c, holiday)
}

// List 查询节假日
// GET /api/v1/holidays?start_date=&end_date=
func (h *HolidayHandler) List(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		response.BadRequest(c, 10001, "start_date 与 end_date 不能为空")
		return
	}

	holidays, err := h.holidaySvc.ListByRange(c.Request.Context(), startDate, endDate)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.OK(c, holidays)
}

// ImportICS 从 ICS 订阅导入节假日
// POST /api/v1/holidays/import-ics
func (h *HolidayHandler) ImportICS(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ImportHolidayICSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.holidaySvc.ImportICS(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *HolidayHandler) handleHolidayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHolidayExists):
		response.BadRequest(c, 18001, "该日期已是节假日")
	case errors.Is(err, service.ErrNoICSFeedURL):
		response.BadRequest(c, 18002, "未配置节假日 ICS 订阅地址")
	case errors.Is(err, service.ErrICSFetchFailed):
		response.BadRequest(c, 18003, "获取 ICS 日历失败")
	case errors.Is(err, service.ErrICSInvalidForm):
		response.BadRequest(c, 18004, "ICS 格式解析失败")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 18005, "结束日期不能早于开始日期")
	default:
		response.InternalError(c)
	}
}
