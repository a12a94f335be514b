package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/service"
	pkgerrors "vibho-hcm/backend/pkg/errors"
	"vibho-hcm/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult      *dto.TokenResponse
	loginErr         error
	logoutErr        error
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}

// ── Mock TimesheetService ──

type mockTimesheetService struct {
	createResult  *dto.EntryResponse
	createErr     error
	updateResult  *dto.EntryResponse
	updateErr     error
	deleteErr     error
	listResult    []dto.EntryResponse
	listErr       error
	submitResult  *dto.TimesheetResponse
	submitErr     error
	getResult     *dto.TimesheetResponse
	getErr        error
	sheetsResult  []dto.TimesheetResponse
	sheetsErr     error
	approveResult *dto.TimesheetResponse
	approveErr    error
	rejectResult  *dto.TimesheetResponse
	rejectErr     error
}

func (m *mockTimesheetService) CreateEntry(_ context.Context, _ string, _ *dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockTimesheetService) UpdateEntry(_ context.Context, _, _ string, _ *dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockTimesheetService) DeleteEntry(_ context.Context, _, _ string) error {
	return m.deleteErr
}
func (m *mockTimesheetService) ListEntries(_ context.Context, _, _ string, _ *dto.ListEntriesQuery) ([]dto.EntryResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockTimesheetService) Submit(_ context.Context, _ string, _ *dto.SubmitTimesheetRequest) (*dto.TimesheetResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockTimesheetService) GetTimesheet(_ context.Context, _, _, _ string) (*dto.TimesheetResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTimesheetService) ListTimesheets(_ context.Context, _, _ string, _ *dto.ListTimesheetsQuery) ([]dto.TimesheetResponse, error) {
	return m.sheetsResult, m.sheetsErr
}
func (m *mockTimesheetService) Approve(_ context.Context, _, _, _ string, _ *dto.ApproveTimesheetRequest) (*dto.TimesheetResponse, error) {
	return m.approveResult, m.approveErr
}
func (m *mockTimesheetService) Reject(_ context.Context, _, _, _ string, _ *dto.RejectTimesheetRequest) (*dto.TimesheetResponse, error) {
	return m.rejectResult, m.rejectErr
}

// ── Mock SummaryService ──

type mockSummaryService struct {
	result *dto.SummaryResponse
	err    error
}

func (m *mockSummaryService) Summarize(_ context.Context, _, _ string, _ *dto.SummaryQuery) (*dto.SummaryResponse, error) {
	return m.result, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf         *bytes.Buffer
	filename    string
	contentType string
	err         error
}

func (m *mockExportService) Export(_ context.Context, _, _ string, _ *dto.ExportQuery) (*bytes.Buffer, string, string, error) {
	return m.buf, m.filename, m.contentType, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "manager")
	c.Set("department_id", "test-dept-id")
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(time.Hour))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken: "test-access-token",
			ExpiresIn:   3600,
			User:        &dto.UserResponse{ID: "test-user-id", Name: "张三"},
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@vibho.com",
		Password: "Secret123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@vibho.com",
		Password: "wrong-pass",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Success(t *testing.T) {
	mock := &mockAuthService{
		getCurrentResult: &dto.UserResponse{ID: "test-user-id", Name: "张三"},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		setAuth(c)
		h.Me(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TimesheetHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTimesheetHandler_CreateEntry_Success(t *testing.T) {
	mock := &mockTimesheetService{
		createResult: &dto.EntryResponse{ID: "entry-1", Hours: 8, Status: "draft"},
	}
	h := NewTimesheetHandler(mock, &mockSummaryService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timesheets/entries", jsonBody(dto.CreateEntryRequest{
		ProjectID:   "11111111-1111-1111-1111-111111111111",
		TaskID:      "22222222-2222-2222-2222-222222222222",
		Date:        "2026-03-02",
		Hours:       8,
		Description: "接口联调",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timesheets/entries", func(c *gin.Context) {
		setAuth(c)
		h.CreateEntry(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestTimesheetHandler_CreateEntry_BadJSON(t *testing.T) {
	mock := &mockTimesheetService{}
	h := NewTimesheetHandler(mock, &mockSummaryService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timesheets/entries", bytes.NewReader([]byte("bad")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timesheets/entries", func(c *gin.Context) {
		setAuth(c)
		h.CreateEntry(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTimesheetHandler_Submit_WeekIncomplete(t *testing.T) {
	mock := &mockTimesheetService{submitErr: service.ErrWeekIncomplete}
	h := NewTimesheetHandler(mock, &mockSummaryService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timesheets/submit", jsonBody(dto.SubmitTimesheetRequest{
		WeekStartDate: "2026-03-02",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timesheets/submit", func(c *gin.Context) {
		setAuth(c)
		h.Submit(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15007 {
		t.Errorf("expected error code 15007, got %d", resp.Code)
	}
}

func TestTimesheetHandler_Approve_Success(t *testing.T) {
	mock := &mockTimesheetService{
		approveResult: &dto.TimesheetResponse{ID: "sheet-1", Status: "approved"},
	}
	h := NewTimesheetHandler(mock, &mockSummaryService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/timesheets/submissions/sheet-1/approve", jsonBody(dto.ApproveTimesheetRequest{
		Version: 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/timesheets/submissions/:id/approve", func(c *gin.Context) {
		setAuth(c)
		h.Approve(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestTimesheetHandler_Approve_StaleVersion(t *testing.T) {
	mock := &mockTimesheetService{approveErr: pkgerrors.ErrOptimisticLock}
	h := NewTimesheetHandler(mock, &mockSummaryService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/timesheets/submissions/sheet-1/approve", jsonBody(dto.ApproveTimesheetRequest{
		Version: 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/timesheets/submissions/:id/approve", func(c *gin.Context) {
		setAuth(c)
		h.Approve(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15009 {
		t.Errorf("expected error code 15009, got %d", resp.Code)
	}
}

func TestTimesheetHandler_Reject_MissingReason(t *testing.T) {
	mock := &mockTimesheetService{}
	h := NewTimesheetHandler(mock, &mockSummaryService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/timesheets/submissions/sheet-1/reject", jsonBody(map[string]int{
		"version": 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/timesheets/submissions/:id/reject", func(c *gin.Context) {
		setAuth(c)
		h.Reject(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15010 {
		t.Errorf("expected error code 15010, got %d", resp.Code)
	}
}

func TestTimesheetHandler_ListEntries_MissingDates(t *testing.T) {
	mock := &mockTimesheetService{}
	h := NewTimesheetHandler(mock, &mockSummaryService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timesheets/entries", nil) // 缺少 start_date / end_date

	r := gin.New()
	r.GET("/timesheets/entries", func(c *gin.Context) {
		setAuth(c)
		h.ListEntries(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTimesheetHandler_Summary_Success(t *testing.T) {
	mockSum := &mockSummaryService{
		result: &dto.SummaryResponse{TotalHours: 40, BillableHours: 32, BillablePercentage: 80},
	}
	h := NewTimesheetHandler(&mockTimesheetService{}, mockSum)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timesheets/summary?start_date=2026-03-02&end_date=2026-03-08", nil)

	r := gin.New()
	r.GET("/timesheets/summary", func(c *gin.Context) {
		setAuth(c)
		h.Summary(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestTimesheetHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"EntryNotFound", service.ErrEntryNotFound, 404, 15001},
		{"NotEditable", service.ErrEntryNotEditable, 400, 15002},
		{"NotOwner", service.ErrEntryNotOwner, 403, 15003},
		{"InvalidHours", service.ErrInvalidHours, 400, 15004},
		{"EmptyDescription", service.ErrEmptyDescription, 400, 15005},
		{"TaskNotInProject", service.ErrTaskNotInProject, 400, 15006},
		{"WeekIncomplete", service.ErrWeekIncomplete, 400, 15007},
		{"NoDraftEntries", service.ErrNoDraftEntries, 400, 15008},
		{"TimesheetNotFound", service.ErrTimesheetNotFound, 404, 15011},
		{"NotPending", service.ErrTimesheetNotPending, 400, 15012},
		{"NotAllowedToApprove", service.ErrNotAllowedToApprove, 403, 15013},
		{"NotAllowedToView", service.ErrNotAllowedToView, 403, 15014},
		{"OptimisticLock", pkgerrors.ErrOptimisticLock, 409, 15009},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockTimesheetService{getErr: tt.err}
			h := NewTimesheetHandler(mock, &mockSummaryService{})

			_, _, w := setupGin()
			req := httptest.NewRequest("GET", "/timesheets/submissions/sheet-1", nil)

			r := gin.New()
			r.GET("/timesheets/submissions/:id", func(c *gin.Context) {
				setAuth(c)
				h.Get(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	buf := bytes.NewBufferString("csv content")
	mock := &mockExportService{
		buf:         buf,
		filename:    "timesheet_张三_2026-03-02_2026-03-08.csv",
		contentType: "text/csv",
	}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timesheets/export?employee_id=33333333-3333-3333-3333-333333333333&start_date=2026-03-02&end_date=2026-03-08&format=csv", nil)

	r := gin.New()
	r.GET("/timesheets/export", func(c *gin.Context) {
		setAuth(c)
		h.Export(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_InvalidFormat(t *testing.T) {
	mock := &mockExportService{}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timesheets/export?employee_id=33333333-3333-3333-3333-333333333333&start_date=2026-03-02&end_date=2026-03-08&format=docx", nil)

	r := gin.New()
	r.GET("/timesheets/export", func(c *gin.Context) {
		setAuth(c)
		h.Export(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_NoEntries(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoEntries}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timesheets/export?employee_id=33333333-3333-3333-3333-333333333333&start_date=2026-03-02&end_date=2026-03-08&format=excel", nil)

	r := gin.New()
	r.GET("/timesheets/export", func(c *gin.Context) {
		setAuth(c)
		h.Export(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportHandler_Forbidden(t *testing.T) {
	mock := &mockExportService{err: service.ErrNotAllowedToView}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timesheets/export?employee_id=33333333-3333-3333-3333-333333333333&start_date=2026-03-02&end_date=2026-03-08&format=pdf", nil)

	r := gin.New()
	r.GET("/timesheets/export", func(c *gin.Context) {
		setAuth(c)
		h.Export(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
