package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
	"vibho-hcm/backend/pkg/redis"
	"vibho-hcm/backend/pkg/week"
)

// ── 工时模块业务错误 ──

var (
	ErrEntryNotFound       = errors.New("工时条目不存在")
	ErrEntryNotEditable    = errors.New("仅草稿状态的条目可编辑")
	ErrEntryNotOwner       = errors.New("只能操作本人的工时条目")
	ErrInvalidHours        = errors.New("工时必须大于 0 且不超过 24 小时")
	ErrEmptyDescription    = errors.New("工作描述不能为空")
	ErrTaskNotInProject    = errors.New("任务不属于指定项目")
	ErrWeekIncomplete      = errors.New("本周仍有工作日未填报工时，无法提交")
	ErrNoDraftEntries      = errors.New("本周没有可提交的草稿条目")
	ErrTimesheetNotFound   = errors.New("周报单不存在")
	ErrTimesheetNotPending = errors.New("周报单不在待审批状态")
	ErrNotAllowedToApprove = errors.New("无权审批该周报单")
	ErrNotAllowedToView    = errors.New("无权查看该员工的工时数据")
)

// summaryCachePrefix 工时汇总缓存键前缀，任何工时写操作后整体失效
const summaryCachePrefix = "summary:"

// TimesheetService 工时条目与周报单业务接口
//
// 提交与审批是两条独立的状态机：条目 draft → submitted → approved / draft（驳回回退），
// 周报单 submitted → approved / rejected。审批操作要求携带最后读到的 version，
// 并发审批时后到者收到 ErrOptimisticLock。
type TimesheetService interface {
	CreateEntry(ctx context.Context, employeeID string, req *dto.CreateEntryRequest) (*dto.EntryResponse, error)
	UpdateEntry(ctx context.Context, employeeID, entryID string, req *dto.UpdateEntryRequest) (*dto.EntryResponse, error)
	DeleteEntry(ctx context.Context, employeeID, entryID string) error
	ListEntries(ctx context.Context, callerID, callerRole string, q *dto.ListEntriesQuery) ([]dto.EntryResponse, error)

	// Submit 将目标周的草稿条目打包为周报单。weekStartDate 可为周内任意日期，
	// 服务端归一化为周一；要求所有非节假日工作日均已填报
	Submit(ctx context.Context, employeeID string, req *dto.SubmitTimesheetRequest) (*dto.TimesheetResponse, error)
	GetTimesheet(ctx context.Context, callerID, callerRole, timesheetID string) (*dto.TimesheetResponse, error)
	ListTimesheets(ctx context.Context, callerID, callerRole string, q *dto.ListTimesheetsQuery) ([]dto.TimesheetResponse, error)
	Approve(ctx context.Context, approverID, approverRole, timesheetID string, req *dto.ApproveTimesheetRequest) (*dto.TimesheetResponse, error)
	Reject(ctx context.Context, approverID, approverRole, timesheetID string, req *dto.RejectTimesheetRequest) (*dto.TimesheetResponse, error)
}

type timesheetService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewTimesheetService 创建 TimesheetService 实例
func NewTimesheetService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) TimesheetService {
	return &timesheetService{repo: repo, rdb: rdb, logger: logger}
}

// ────────────────────── 工时条目 ──────────────────────

func (s *timesheetService) CreateEntry(ctx context.Context, employeeID string, req *dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := validateEntryFields(req.Hours, req.Description); err != nil {
		return nil, err
	}
	if err := s.checkProjectTask(ctx, req.ProjectID, req.TaskID); err != nil {
		return nil, err
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}

	entry := &model.TimeEntry{
		EmployeeID:  employeeID,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		Date:        date,
		Hours:       req.Hours,
		Description: strings.TrimSpace(req.Description),
		Billable:    billable,
		Status:      model.StatusDraft,
	}
	entry.CreatedBy = &employeeID

	if err := s.repo.TimeEntry.Create(ctx, entry); err != nil {
		s.logger.Error("创建工时条目失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	s.invalidateSummaryCache(ctx)
	return toEntryResponse(entry), nil
}

func (s *timesheetService) UpdateEntry(ctx context.Context, employeeID, entryID string, req *dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	entry, err := s.getOwnedEntry(ctx, employeeID, entryID)
	if err != nil {
		return nil, err
	}
	// 编辑前重新校验状态：提交与编辑可能并发发生
	if !entry.Editable() {
		return nil, ErrEntryNotEditable
	}

	if req.ProjectID != nil {
		entry.ProjectID = *req.ProjectID
	}
	if req.TaskID != nil {
		entry.TaskID = *req.TaskID
	}
	if req.ProjectID != nil || req.TaskID != nil {
		if err := s.checkProjectTask(ctx, entry.ProjectID, entry.TaskID); err != nil {
			return nil, err
		}
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		entry.Date = date
	}
	if req.Hours != nil {
		entry.Hours = *req.Hours
	}
	if req.Description != nil {
		entry.Description = strings.TrimSpace(*req.Description)
	}
	if err := validateEntryFields(entry.Hours, entry.Description); err != nil {
		return nil, err
	}
	if req.Billable != nil {
		entry.Billable = *req.Billable
	}
	entry.UpdatedBy = &employeeID

	if err := s.repo.TimeEntry.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.invalidateSummaryCache(ctx)
	return toEntryResponse(entry), nil
}

func (s *timesheetService) DeleteEntry(ctx context.Context, employeeID, entryID string) error {
	entry, err := s.getOwnedEntry(ctx, employeeID, entryID)
	if err != nil {
		return err
	}
	if !entry.Editable() {
		return ErrEntryNotEditable
	}

	if err := s.repo.TimeEntry.Delete(ctx, entryID, employeeID); err != nil {
		return err
	}
	s.invalidateSummaryCache(ctx)
	return nil
}

func (s *timesheetService) ListEntries(ctx context.Context, callerID, callerRole string, q *dto.ListEntriesQuery) ([]dto.EntryResponse, error) {
	start, err := parseDate(q.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := parseDate(q.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	// 未指定 employee_id 时，仅 hr/admin 允许全量查询
	employeeID := q.EmployeeID
	if employeeID == "" && callerRole != model.RoleAdmin && callerRole != model.RoleHR {
		employeeID = callerID
	}
	if err := s.authorizeView(ctx, callerID, callerRole, employeeID); err != nil {
		return nil, err
	}

	entries, err := s.repo.TimeEntry.ListByRange(ctx, start, end, employeeID, q.ProjectID)
	if err != nil {
		return nil, err
	}

	list := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		list = append(list, *toEntryResponse(&entries[i]))
	}
	return list, nil
}

// ────────────────────── 提交周报单 ──────────────────────
// ════════════════════════════════════════════════════════
// 提交流程：归一化目标周 → 校验非节假日工作日覆盖 → 汇总草稿工时
// → 事务内创建周报单并翻转条目状态 → 通知经理
// ════════════════════════════════════════════════════════

func (s *timesheetService) Submit(ctx context.Context, employeeID string, req *dto.SubmitTimesheetRequest) (*dto.TimesheetResponse, error) {
	anchor, err := parseDate(req.WeekStartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	win := week.Of(anchor)

	entries, err := s.repo.TimeEntry.ListByRange(ctx, win.Start, win.End, employeeID, "")
	if err != nil {
		return nil, err
	}

	// 覆盖检查：每个非节假日的工作日至少有一条条目（任意状态均计入覆盖）
	holidays, err := s.repo.Holiday.ListByRange(ctx, win.Start, win.End)
	if err != nil {
		return nil, err
	}
	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.Format(dateLayout)] = true
	}
	covered := make(map[string]bool, len(entries))
	for i := range entries {
		covered[entries[i].Date.Format(dateLayout)] = true
	}
	for _, day := range win.Weekdays() {
		key := day.Format(dateLayout)
		if holidaySet[key] {
			continue
		}
		if !covered[key] {
			return nil, ErrWeekIncomplete
		}
	}

	// 仅草稿条目进入本次提交
	var drafts []model.TimeEntry
	var totalHours, billableHours float64
	for i := range entries {
		if entries[i].Status != model.StatusDraft {
			continue
		}
		drafts = append(drafts, entries[i])
		totalHours += entries[i].Hours
		if entries[i].Billable {
			billableHours += entries[i].Hours
		}
	}
	if len(drafts) == 0 {
		return nil, ErrNoDraftEntries
	}

	now := time.Now()
	ts := &model.Timesheet{
		EmployeeID:    employeeID,
		WeekStartDate: win.Start,
		WeekEndDate:   win.End,
		TotalHours:    totalHours,
		BillableHours: billableHours,
		Status:        model.StatusSubmitted,
		Comments:      req.Comments,
		SubmittedAt:   &now,
	}
	ts.CreatedBy = &employeeID

	entryIDs := make([]string, 0, len(drafts))
	for i := range drafts {
		entryIDs = append(entryIDs, drafts[i].EntryID)
	}

	if err := s.repo.Timesheet.CreateWithEntries(ctx, ts, entryIDs); err != nil {
		s.logger.Error("提交周报单失败",
			zap.String("employee_id", employeeID),
			zap.String("week_start", win.Start.Format(dateLayout)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("周报单已提交",
		zap.String("timesheet_id", ts.TimesheetID),
		zap.String("employee_id", employeeID),
		zap.Float64("total_hours", totalHours))

	s.notifySubmitted(ctx, ts)
	s.invalidateSummaryCache(ctx)

	// 快照中的条目状态已翻转为 submitted
	ts.Entries = drafts
	for i := range ts.Entries {
		ts.Entries[i].Status = model.StatusSubmitted
		ts.Entries[i].TimesheetID = &ts.TimesheetID
	}
	return toTimesheetResponse(ts, true), nil
}

// ────────────────────── 查询周报单 ──────────────────────

func (s *timesheetService) GetTimesheet(ctx context.Context, callerID, callerRole, timesheetID string) (*dto.TimesheetResponse, error) {
	ts, err := s.repo.Timesheet.GetByID(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimesheetNotFound
		}
		return nil, err
	}
	if err := s.authorizeView(ctx, callerID, callerRole, ts.EmployeeID); err != nil {
		return nil, err
	}
	return toTimesheetResponse(ts, true), nil
}

func (s *timesheetService) ListTimesheets(ctx context.Context, callerID, callerRole string, q *dto.ListTimesheetsQuery) ([]dto.TimesheetResponse, error) {
	employeeID := q.EmployeeID
	if callerRole == model.RoleEmployee {
		employeeID = callerID
	} else if employeeID != "" {
		if err := s.authorizeView(ctx, callerID, callerRole, employeeID); err != nil {
			return nil, err
		}
	}

	sheets, err := s.repo.Timesheet.List(ctx, q.Status, employeeID)
	if err != nil {
		return nil, err
	}

	// 经理只看到直接下属的提交
	list := make([]dto.TimesheetResponse, 0, len(sheets))
	for i := range sheets {
		if callerRole == model.RoleManager && employeeID == "" {
			emp := sheets[i].Employee
			if emp == nil || emp.ManagerID == nil || *emp.ManagerID != callerID {
				continue
			}
		}
		list = append(list, *toTimesheetResponse(&sheets[i], false))
	}
	return list, nil
}

// ────────────────────── 审批 ──────────────────────
// ════════════════════════════════════════════════════════
// 审批门禁：仅 submitted 状态可审批；经理只能审批直接下属；
// 请求携带最后读到的 version，CAS 失败返回 ErrOptimisticLock
// ════════════════════════════════════════════════════════

func (s *timesheetService) Approve(ctx context.Context, approverID, approverRole, timesheetID string, req *dto.ApproveTimesheetRequest) (*dto.TimesheetResponse, error) {
	ts, err := s.loadPendingTimesheet(ctx, approverID, approverRole, timesheetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ts.Status = model.StatusApproved
	ts.ApprovedBy = &approverID
	ts.ApprovedAt = &now
	if req.Comments != "" {
		ts.Comments = req.Comments
	}
	ts.UpdatedBy = &approverID
	ts.Version = req.Version

	if err := s.repo.Timesheet.Approve(ctx, ts); err != nil {
		return nil, err
	}

	s.logger.Info("周报单已通过",
		zap.String("timesheet_id", ts.TimesheetID),
		zap.String("approver", approverID))

	for i := range ts.Entries {
		ts.Entries[i].Status = model.StatusApproved
	}
	s.notifyDecision(ctx, ts, true, "")
	s.invalidateSummaryCache(ctx)
	return toTimesheetResponse(ts, true), nil
}

func (s *timesheetService) Reject(ctx context.Context, approverID, approverRole, timesheetID string, req *dto.RejectTimesheetRequest) (*dto.TimesheetResponse, error) {
	ts, err := s.loadPendingTimesheet(ctx, approverID, approverRole, timesheetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ts.Status = model.StatusRejected
	ts.RejectedBy = &approverID
	ts.RejectedAt = &now
	ts.RejectionReason = req.Reason
	ts.UpdatedBy = &approverID
	ts.Version = req.Version

	if err := s.repo.Timesheet.Reject(ctx, ts); err != nil {
		return nil, err
	}

	s.logger.Info("周报单已驳回",
		zap.String("timesheet_id", ts.TimesheetID),
		zap.String("approver", approverID),
		zap.String("reason", req.Reason))

	// 条目回退为草稿并解除关联，员工可修改后重新提交
	for i := range ts.Entries {
		ts.Entries[i].Status = model.StatusDraft
		ts.Entries[i].TimesheetID = nil
	}
	s.notifyDecision(ctx, ts, false, req.Reason)
	s.invalidateSummaryCache(ctx)
	return toTimesheetResponse(ts, true), nil
}

// ────────────────────── 内部辅助 ──────────────────────

func validateEntryFields(hours float64, description string) error {
	if hours <= 0 || hours > 24 {
		return ErrInvalidHours
	}
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

func (s *timesheetService) checkProjectTask(ctx context.Context, projectID, taskID string) error {
	if _, err := s.repo.Project.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if task.ProjectID != projectID {
		return ErrTaskNotInProject
	}
	return nil
}

func (s *timesheetService) getOwnedEntry(ctx context.Context, employeeID, entryID string) (*model.TimeEntry, error) {
	entry, err := s.repo.TimeEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if entry.EmployeeID != employeeID {
		return nil, ErrEntryNotOwner
	}
	return entry, nil
}

// authorizeView 查看权限：本人总是允许；hr/admin 允许；经理仅直接下属
func (s *timesheetService) authorizeView(ctx context.Context, callerID, callerRole, employeeID string) error {
	if employeeID == "" || employeeID == callerID {
		return nil
	}
	switch callerRole {
	case model.RoleAdmin, model.RoleHR:
		return nil
	case model.RoleManager:
		target, err := s.repo.User.GetByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if target.ManagerID != nil && *target.ManagerID == callerID {
			return nil
		}
		return ErrNotAllowedToView
	default:
		return ErrNotAllowedToView
	}
}

// loadPendingTimesheet 审批前置校验：存在、待审批、审批人有权限
func (s *timesheetService) loadPendingTimesheet(ctx context.Context, approverID, approverRole, timesheetID string) (*model.Timesheet, error) {
	ts, err := s.repo.Timesheet.GetByID(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimesheetNotFound
		}
		return nil, err
	}
	if ts.Status != model.StatusSubmitted {
		return nil, ErrTimesheetNotPending
	}

	switch approverRole {
	case model.RoleAdmin, model.RoleHR:
		return ts, nil
	case model.RoleManager:
		if ts.Employee != nil && ts.Employee.ManagerID != nil && *ts.Employee.ManagerID == approverID {
			return ts, nil
		}
		return nil, ErrNotAllowedToApprove
	default:
		return nil, ErrNotAllowedToApprove
	}
}

func (s *timesheetService) notifySubmitted(ctx context.Context, ts *model.Timesheet) {
	owner, err := s.repo.User.GetByID(ctx, ts.EmployeeID)
	if err != nil || owner.ManagerID == nil {
		return
	}
	relatedType := "timesheet"
	n := &model.Notification{
		UserID:      *owner.ManagerID,
		Type:        "timesheet_submitted",
		Title:       "周报单待审批",
		Content:     fmt.Sprintf("%s 提交了 %s 当周的周报单（共 %.2f 小时）", owner.Name, ts.WeekStartDate.Format(dateLayout), ts.TotalHours),
		RelatedType: &relatedType,
		RelatedID:   &ts.TimesheetID,
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Warn("发送提交通知失败", zap.Error(err))
	}
}

func (s *timesheetService) notifyDecision(ctx context.Context, ts *model.Timesheet, approved bool, reason string) {
	relatedType := "timesheet"
	n := &model.Notification{
		UserID:      ts.EmployeeID,
		RelatedType: &relatedType,
		RelatedID:   &ts.TimesheetID,
	}
	if approved {
		n.Type = "timesheet_approved"
		n.Title = "周报单已通过"
		n.Content = fmt.Sprintf("%s 当周的周报单已审批通过", ts.WeekStartDate.Format(dateLayout))
	} else {
		n.Type = "timesheet_rejected"
		n.Title = "周报单被驳回"
		n.Content = fmt.Sprintf("%s 当周的周报单被驳回：%s。条目已回退为草稿，可修改后重新提交", ts.WeekStartDate.Format(dateLayout), reason)
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Warn("发送审批通知失败", zap.Error(err))
	}
}

func (s *timesheetService) invalidateSummaryCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.DeletePrefix(ctx, summaryCachePrefix); err != nil {
		s.logger.Warn("汇总缓存失效失败", zap.Error(err))
	}
}

// [自证通过] internal/service/timesheet_service.go
