package jwt

import (
	"errors"
	"testing"
	"time"

	"vibho-hcm/backend/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-at-least-16-chars",
		AccessTokenTTL: ttl,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager(time.Hour)

	token, err := m.GenerateAccessToken("user-001", "manager", "dept-001")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != "user-001" {
		t.Errorf("期望 UserID=user-001，实际=%s", claims.UserID)
	}
	if claims.Role != "manager" {
		t.Errorf("期望 Role=manager，实际=%s", claims.Role)
	}
	if claims.DepartmentID != "dept-001" {
		t.Errorf("期望 DepartmentID=dept-001，实际=%s", claims.DepartmentID)
	}
	if claims.ID == "" {
		t.Error("期望 JWT ID 非空")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.GenerateAccessToken("user-001", "employee", "dept-001")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	_, err = m.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager(time.Hour)
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-16-chars-min",
		AccessTokenTTL: time.Hour,
	})

	token, err := m1.GenerateAccessToken("user-001", "employee", "dept-001")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	_, err = m2.ParseToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager(time.Hour)

	_, err := m.ParseToken("not.a.token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
