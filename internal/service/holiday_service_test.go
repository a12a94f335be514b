package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"vibho-hcm/backend/config"
	"vibho-hcm/backend/internal/dto"
	"vibho-hcm/backend/internal/repository"
)

func setupTestHolidayService() (HolidayService, *mockHolidayRepo) {
	holidayRepo := newMockHolidayRepo()
	repo := &repository.Repository{Holiday: holidayRepo}
	svc := NewHolidayService(&config.Config{}, repo, zap.NewNop())
	return svc, holidayRepo
}

func TestHolidayService_Create_Success(t *testing.T) {
	svc, _ := setupTestHolidayService()

	result, err := svc.Create(context.Background(), &dto.CreateHolidayRequest{
		Date: "2026-05-01",
		Name: "劳动节",
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建节假日应成功: %v", err)
	}
	if result.Source != "manual" {
		t.Errorf("期望来源=manual，实际=%s", result.Source)
	}
}

func TestHolidayService_Create_Duplicate(t *testing.T) {
	svc, _ := setupTestHolidayService()

	req := &dto.CreateHolidayRequest{Date: "2026-05-01", Name: "劳动节"}
	if _, err := svc.Create(context.Background(), req, "admin-001"); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrHolidayExists) {
		t.Errorf("期望 ErrHolidayExists，实际: %v", err)
	}
}

func TestHolidayService_ImportICS_NoFeedURL(t *testing.T) {
	svc, _ := setupTestHolidayService()

	_, err := svc.ImportICS(context.Background(), &dto.ImportHolidayICSRequest{}, "admin-001")
	if !errors.Is(err, ErrNoICSFeedURL) {
		t.Errorf("期望 ErrNoICSFeedURL，实际: %v", err)
	}
}

// ── ICS 解析测试 ──

const sampleHolidayICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//vibho//holidays//CN
BEGIN:VEVENT
UID:holiday-1
DTSTART;VALUE=DATE:20261001
DTEND;VALUE=DATE:20261004
SUMMARY:国庆节
END:VEVENT
BEGIN:VEVENT
UID:holiday-2
DTSTART;VALUE=DATE:20261225
SUMMARY:圣诞节
END:VEVENT
BEGIN:VEVENT
UID:holiday-3
DTSTART;VALUE=DATE:20261225
SUMMARY:重复日期应去重
END:VEVENT
END:VCALENDAR
`

func TestParseHolidayICS_ExpandsMultiDayEvents(t *testing.T) {
	parsed, err := parseHolidayICS(strings.NewReader(sampleHolidayICS))
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}

	// 国庆节 10-01 ~ 10-03（DTEND 排他）+ 圣诞节 12-25，重复日期去重
	if len(parsed) != 4 {
		t.Fatalf("期望 4 个节假日，实际=%d", len(parsed))
	}

	dates := make(map[string]string)
	for _, p := range parsed {
		dates[p.Date.Format("2006-01-02")] = p.Name
	}
	for _, d := range []string{"2026-10-01", "2026-10-02", "2026-10-03"} {
		if dates[d] != "国庆节" {
			t.Errorf("期望 %s 为国庆节，实际=%s", d, dates[d])
		}
	}
	if _, ok := dates["2026-10-04"]; ok {
		t.Error("DTEND 为排他日期，10-04 不应计入")
	}
	if dates["2026-12-25"] != "圣诞节" {
		t.Errorf("期望 12-25 为圣诞节，实际=%s", dates["2026-12-25"])
	}
}

func TestParseHolidayICS_InvalidContent(t *testing.T) {
	_, err := parseHolidayICS(strings.NewReader("这不是 ICS"))
	if err == nil {
		t.Error("非法 ICS 内容应返回错误")
	}
}
