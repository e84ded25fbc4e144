package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"osas-connect/internal/dto"
	"osas-connect/internal/model"
)

type recordingBlacklist struct {
	jti string
	ttl time.Duration
}

func (b *recordingBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.jti, b.ttl = jti, ttl
	return nil
}

// ── Login ──

func TestLogin_Success(t *testing.T) {
	env := newTestEnv("")
	env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")

	result, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "u1@university.test",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login should succeed, got: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("expected both tokens")
	}
	if result.User.ID != "u1" {
		t.Errorf("expected user u1, got %s", result.User.ID)
	}
	if result.ExpiresIn != 900 {
		t.Errorf("expected ExpiresIn=900, got %d", result.ExpiresIn)
	}
	if env.users.users["u1"].LastLoginAt == nil {
		t.Error("expected last_login_at to be recorded")
	}
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	env := newTestEnv("")
	env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")

	if _, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "U1@University.TEST",
		Password: "password123",
	}); err != nil {
		t.Fatalf("Login should succeed, got: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv("")
	env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")

	_, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "u1@university.test",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	env := newTestEnv("")

	_, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@university.test",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_Inactive(t *testing.T) {
	env := newTestEnv("")
	u := env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")
	u.IsActive = false

	_, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "u1@university.test",
		Password: "password123",
	})
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("expected ErrUserInactive, got: %v", err)
	}
}

func TestLogin_RememberMe(t *testing.T) {
	env := newTestEnv("")
	env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")

	result, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		Email:      "u1@university.test",
		Password:   "password123",
		RememberMe: true,
	})
	if err != nil {
		t.Fatalf("Login(RememberMe) should succeed: %v", err)
	}

	claims, err := env.jwtMgr.ParseToken(result.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if !claims.RememberMe {
		t.Error("expected remember_me on the refresh token")
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl < 6*24*time.Hour {
		t.Errorf("expected a 7 day refresh token, got %v", ttl)
	}
}

// ── Register ──

func TestRegister_Success(t *testing.T) {
	env := newTestEnv("")

	result, err := env.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		FirstName: " Ana ",
		LastName:  "Lopez",
		Email:     "Ana.Lopez@University.test",
		Password:  "password123",
		StudentID: "2024-0001",
	})
	if err != nil {
		t.Fatalf("Register should succeed: %v", err)
	}
	if result.Role != model.RoleStudent {
		t.Errorf("expected role student, got %s", result.Role)
	}
	if result.Email != "ana.lopez@university.test" {
		t.Errorf("expected a lower-cased email, got %s", result.Email)
	}
	if result.FirstName != "Ana" {
		t.Errorf("expected trimmed first name, got %q", result.FirstName)
	}

	profile, ok := env.profiles.profiles[result.ID]
	if !ok {
		t.Fatal("expected an empty profile to be created")
	}
	if profile.StudentID == nil || *profile.StudentID != "2024-0001" {
		t.Errorf("expected student id on the profile, got %v", profile.StudentID)
	}
	if bcrypt.CompareHashAndPassword([]byte(env.users.users[result.ID].PasswordHash), []byte("password123")) != nil {
		t.Error("expected the password to be stored as a bcrypt hash")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv("")
	env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")

	_, err := env.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "u1@university.test",
		Password:  "password123",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}
}

func TestRegister_DuplicateStudentID(t *testing.T) {
	env := newTestEnv("")
	env.addStudent("s1")

	_, err := env.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "other@university.test",
		Password:  "password123",
		StudentID: "2021-s1",
	})
	if !errors.Is(err, ErrStudentIDExists) {
		t.Errorf("expected ErrStudentIDExists, got: %v", err)
	}
}

// ── RefreshToken ──

func TestRefreshToken_Success(t *testing.T) {
	env := newTestEnv("")
	env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")

	login, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "u1@university.test",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	result, err := env.svc.Auth.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken should succeed: %v", err)
	}
	if result.User.ID != "u1" {
		t.Errorf("expected user u1, got %s", result.User.ID)
	}
}

func TestRefreshToken_InvalidToken(t *testing.T) {
	env := newTestEnv("")

	_, err := env.svc.Auth.RefreshToken(context.Background(), "not-a-token")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken, got: %v", err)
	}
}

func TestRefreshToken_AccessTokenNotAllowed(t *testing.T) {
	env := newTestEnv("")
	env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")

	access, _ := env.jwtMgr.GenerateAccessToken("u1", model.RoleStudent)
	_, err := env.svc.Auth.RefreshToken(context.Background(), access)
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken, got: %v", err)
	}
}

// ── Logout ──

func TestLogout_BlacklistsRemainingLifetime(t *testing.T) {
	env := newTestEnv("")
	bl := &recordingBlacklist{}
	svc := NewAuthService(env.cfg, env.repo, env.jwtMgr, bl, nopLogger())

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Logout should succeed: %v", err)
	}
	if bl.jti != "jti-1" {
		t.Errorf("expected jti-1 to be blacklisted, got %q", bl.jti)
	}
	if bl.ttl <= 9*time.Minute || bl.ttl > 10*time.Minute {
		t.Errorf("expected ttl close to 10m, got %v", bl.ttl)
	}
}

func TestLogout_WithoutBlacklist(t *testing.T) {
	env := newTestEnv("")

	if err := env.svc.Auth.Logout(context.Background(), "jti-1", time.Now().Add(time.Minute)); err != nil {
		t.Errorf("expected nil without a blacklist, got: %v", err)
	}
}

// ── ChangePassword ──

func TestChangePassword(t *testing.T) {
	env := newTestEnv("")
	env.addUser("u1", "Juan", "Cruz", model.RoleStudent, "password123")
	ctx := context.Background()

	err := env.svc.Auth.ChangePassword(ctx, "u1", &dto.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpassword1"})
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got: %v", err)
	}

	err = env.svc.Auth.ChangePassword(ctx, "u1", &dto.ChangePasswordRequest{OldPassword: "password123", NewPassword: "password123"})
	if !errors.Is(err, ErrSamePassword) {
		t.Errorf("expected ErrSamePassword, got: %v", err)
	}

	if err := env.svc.Auth.ChangePassword(ctx, "u1", &dto.ChangePasswordRequest{OldPassword: "password123", NewPassword: "newpassword1"}); err != nil {
		t.Fatalf("ChangePassword should succeed: %v", err)
	}
	if _, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "u1@university.test", Password: "newpassword1"}); err != nil {
		t.Errorf("expected login with the new password, got: %v", err)
	}
}
