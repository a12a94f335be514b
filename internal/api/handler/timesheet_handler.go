package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/service"
	pkgerrors "vibho-hcm/backend/pkg/errors"
	"vibho-hcm/backend/pkg/response"
)

// TimesheetHandler 工时模块 HTTP 处理器
// 覆盖条目 CRUD、周报单提交 / 审批与工时汇总
type TimesheetHandler struct {
	timesheetSvc service.TimesheetService
	summarySvc   service.SummaryService
}

// NewTimesheetHandler 创建 TimesheetHandler
func NewTimesheetHandler(timesheetSvc service.TimesheetService, summarySvc service.SummaryService) *TimesheetHandler {
	return &TimesheetHandler{timesheetSvc: timesheetSvc, summarySvc: summarySvc}
}

// ────────────────────── 工时条目 ──────────────────────

// CreateEntry 填报工时
// POST /api/v1/timesheets/entries
func (h *TimesheetHandler) CreateEntry(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.timesheetSvc.CreateEntry(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.Created(c, entry)
}

// ListEntries 查询工时条目
// GET /api/v1/timesheets/entries?start_date=&end_date=&employee_id=&project_id=
func (h *TimesheetHandler) ListEntries(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.ListEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.timesheetSvc.ListEntries(c.Request.Context(), userID, role, &q)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.OK(c, entries)
}

// UpdateEntry 更新工时条目（仅草稿）
// PUT /api/v1/timesheets/entries/:id
func (h *TimesheetHandler) UpdateEntry(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.timesheetSvc.UpdateEntry(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.OK(c, entry)
}

// DeleteEntry 删除工时条目（仅草稿）
// DELETE /api/v1/timesheets/entries/:id
func (h *TimesheetHandler) DeleteEntry(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.timesheetSvc.DeleteEntry(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 周报单 ──────────────────────

// Submit 提交周报单
// POST /api/v1/timesheets/submit
func (h *TimesheetHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ts, err := h.timesheetSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.Created(c, ts)
}

// List 周报单列表
// GET /api/v1/timesheets/submissions?status=submitted&employee_id=
func (h *TimesheetHandler) List(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.ListTimesheetsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sheets, err := h.timesheetSvc.ListTimesheets(c.Request.Context(), userID, role, &q)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.OK(c, sheets)
}

// Get 周报单详情（含条目）
// GET /api/v1/timesheets/submissions/:id
func (h *TimesheetHandler) Get(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.GetTimesheet(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.OK(c, ts)
}

// Approve 审批通过
// PUT /api/v1/timesheets/submissions/:id/approve
func (h *TimesheetHandler) Approve(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ApproveTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ts, err := h.timesheetSvc.Approve(c.Request.Context(), userID, role, c.Param("id"), &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.OK(c, ts)
}

// Reject 审批驳回（必须填写原因）
// PUT /api/v1/timesheets/submissions/:id/reject
func (h *TimesheetHandler) Reject(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.RejectTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15010, "驳回原因不能为空")
		return
	}

	ts, err := h.timesheetSvc.Reject(c.Request.Context(), userID, role, c.Param("id"), &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.OK(c, ts)
}

// ────────────────────── 汇总 ──────────────────────

// Summary 工时汇总
// GET /api/v1/timesheets/summary?start_date=&end_date=&employee_id=&project_id=&department_id=
func (h *TimesheetHandler) Summary(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.summarySvc.Summarize(c.Request.Context(), userID, role, &q)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *TimesheetHandler) handleTimesheetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 15001, "工时条目不存在")
	case errors.Is(err, service.ErrEntryNotEditable):
		response.BadRequest(c, 15002, "仅草稿状态的条目可编辑")
	case errors.Is(err, service.ErrEntryNotOwner):
		response.Forbidden(c, 15003, "只能操作本人的工时条目")
	case errors.Is(err, service.ErrInvalidHours):
		response.BadRequest(c, 15004, "工时必须大于 0 且不超过 24 小时")
	case errors.Is(err, service.ErrEmptyDescription):
		response.BadRequest(c, 15005, "工作描述不能为空")
	case errors.Is(err, service.ErrProjectNotFound):
		response.BadRequest(c, 14001, "项目不存在")
	case errors.Is(err, service.ErrTaskNotFound):
		response.BadRequest(c, 14002, "任务不存在")
	case errors.Is(err, service.ErrTaskNotInProject):
		response.BadRequest(c, 15006, "任务不属于指定项目")
	case errors.Is(err, service.ErrWeekIncomplete):
		response.BadRequest(c, 15007, "本周仍有工作日未填报工时，无法提交")
	case errors.Is(err, service.ErrNoDraftEntries):
		response.BadRequest(c, 15008, "本周没有可提交的草稿条目")
	case errors.Is(err, service.ErrTimesheetNotFound):
		response.NotFound(c, 15011, "周报单不存在")
	case errors.Is(err, service.ErrTimesheetNotPending):
		response.BadRequest(c, 15012, "周报单不在待审批状态")
	case errors.Is(err, service.ErrNotAllowedToApprove):
		response.Forbidden(c, 15013, "无权审批该周报单")
	case errors.Is(err, service.ErrNotAllowedToView):
		response.Forbidden(c, 15014, "无权查看该员工的工时数据")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15015, "结束日期不能早于开始日期")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15009, "周报单已被其他审批人处理，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/timesheet_handler.go
