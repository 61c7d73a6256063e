package service

import (
	"errors"
	"testing"
	"time"

	"go-password-vault/internal/model"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/vaulterrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPasswordService() *PasswordService {
	return NewPasswordService(repository.NewPasswordRepository(), MinLengthPolicy{Min: 8})
}

func TestPasswordService_Create(t *testing.T) {
	setupTestDB(t)
	service := newPasswordService()
	owner := createServiceTestUser(t, "pscreate@example.com")

	password, err := service.Create(owner.ID, CreatePasswordRequest{
		Title:          "create-ok",
		Password:       "S3cret!pass",
		DurationInDays: 30,
	})
	require.NoError(t, err)
	require.NotNil(t, password)

	assert.Equal(t, owner.ID, password.CreatedByID)
	assert.NotEqual(t, "S3cret!pass", password.Ciphertext, "Ciphertext must not equal plaintext")
	assert.Equal(t, password.CreatedAt.AddDate(0, 0, 30), password.ExpiresAt)

	// 解密往返
	plaintext, err := service.GetDecrypted(password.ID)
	require.NoError(t, err)
	assert.Equal(t, "S3cret!pass", plaintext)
}

func TestPasswordService_CreateValidation(t *testing.T) {
	setupTestDB(t)
	service := newPasswordService()
	owner := createServiceTestUser(t, "psvalid@example.com")

	tests := []struct {
		name    string
		req     CreatePasswordRequest
		wantErr error
	}{
		{
			name:    "Empty title",
			req:     CreatePasswordRequest{Title: "  ", Password: "S3cret!pass", DurationInDays: 10},
			wantErr: vaulterrors.ErrValidation,
		},
		{
			name:    "Zero duration",
			req:     CreatePasswordRequest{Title: "zero-duration", Password: "S3cret!pass", DurationInDays: 0},
			wantErr: vaulterrors.ErrValidation,
		},
		{
			name:    "Negative duration",
			req:     CreatePasswordRequest{Title: "neg-duration", Password: "S3cret!pass", DurationInDays: -5},
			wantErr: vaulterrors.ErrValidation,
		},
		{
			name:    "Policy rejects short password",
			req:     CreatePasswordRequest{Title: "short-pass", Password: "short", DurationInDays: 10},
			wantErr: vaulterrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(owner.ID, tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "Create() error = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestPasswordService_CreateTitleConflict(t *testing.T) {
	setupTestDB(t)
	service := newPasswordService()
	owner := createServiceTestUser(t, "psconflict1@example.com")
	other := createServiceTestUser(t, "psconflict2@example.com")

	_, err := service.Create(owner.ID, CreatePasswordRequest{
		Title:          "taken-title",
		Password:       "S3cret!pass",
		DurationInDays: 10,
	})
	require.NoError(t, err)

	// 标题全局唯一：另一个用户也不能复用
	_, err = service.Create(other.ID, CreatePasswordRequest{
		Title:          "taken-title",
		Password:       "Other!secret1",
		DurationInDays: 10,
	})
	assert.True(t, errors.Is(err, vaulterrors.ErrConflict), "Expected conflict error, got %v", err)
}

func TestPasswordService_UpdateRecomputesExpiryWithoutDrift(t *testing.T) {
	setupTestDB(t)
	service := newPasswordService()
	owner := createServiceTestUser(t, "psdrift@example.com")

	password, err := service.Create(owner.ID, CreatePasswordRequest{
		Title:          "drift-check",
		Password:       "S3cret!pass",
		DurationInDays: 30,
	})
	require.NoError(t, err)
	createdAt := password.CreatedAt

	// 第一次修改时长：从原始创建时间算
	ten := 10
	updated, err := service.Update(password.ID, UpdatePasswordRequest{DurationInDays: &ten})
	require.NoError(t, err)
	assert.Equal(t, createdAt.AddDate(0, 0, 10), updated.ExpiresAt)

	// 第二次修改：仍从原始创建时间算，不是在上次结果上累加
	five := 5
	updated, err = service.Update(password.ID, UpdatePasswordRequest{DurationInDays: &five})
	require.NoError(t, err)
	assert.Equal(t, createdAt.AddDate(0, 0, 5), updated.ExpiresAt,
		"ExpiresAt must be recomputed from the original creation time on every update")
}

func TestPasswordService_UpdateReencrypts(t *testing.T) {
	setupTestDB(t)
	service := newPasswordService()
	owner := createServiceTestUser(t, "psreenc@example.com")

	password, err := service.Create(owner.ID, CreatePasswordRequest{
		Title:          "reencrypt",
		Password:       "Original!pass1",
		DurationInDays: 10,
	})
	require.NoError(t, err)
	oldCiphertext := password.Ciphertext

	newSecret := "Updated!pass2"
	updated, err := service.Update(password.ID, UpdatePasswordRequest{Password: &newSecret})
	require.NoError(t, err)
	assert.NotEqual(t, oldCiphertext, updated.Ciphertext)

	plaintext, err := service.GetDecrypted(password.ID)
	require.NoError(t, err)
	assert.Equal(t, newSecret, plaintext)
}

func TestPasswordService_UpdateNotFound(t *testing.T) {
	setupTestDB(t)
	service := newPasswordService()

	title := "ghost"
	_, err := service.Update(99999, UpdatePasswordRequest{Title: &title})
	assert.True(t, errors.Is(err, vaulterrors.ErrNotFound), "Expected not-found error, got %v", err)
}

func TestStatusExpiryBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      ExpiryStatus
	}{
		{"Before expiry", now.Add(time.Hour), StatusNotExpired},
		{"Exactly at expiry", now, StatusExpired}, // 含边界
		{"After expiry", now.Add(-time.Hour), StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password := &model.Password{ExpiresAt: tt.expiresAt}
			if got := Status(password, now); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyStrength(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		want      Strength
	}{
		{"All four classes", "Abcdef1!", StrengthStrong},
		{"Strong long", "MyS3cret!Password", StrengthStrong},
		{"Missing symbol", "Abcdefg1", StrengthWeak},
		{"Missing digit", "Abcdefg!", StrengthWeak},
		{"Missing upper", "abcdef1!", StrengthWeak},
		{"Missing lower", "ABCDEF1!", StrengthWeak},
		{"Only lowercase", "abcdefgh", StrengthWeak},
		{"Symbol outside fixed set", "Abcdef1?", StrengthWeak},
		{"Too short", "Ab1!xyz", StrengthUnrated},
		{"Too long", "Abcdefgh1!Abcdefgh1!Abcdefgh1!X", StrengthUnrated},
		{"Empty", "", StrengthUnrated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyStrength(tt.plaintext); got != tt.want {
				t.Errorf("ClassifyStrength(%q) = %v, want %v", tt.plaintext, got, tt.want)
			}
		})
	}
}

func TestPasswordService_Delete(t *testing.T) {
	setupTestDB(t)
	service := newPasswordService()
	owner := createServiceTestUser(t, "psdelete@example.com")

	password, err := service.Create(owner.ID, CreatePasswordRequest{
		Title:          "delete-me",
		Password:       "S3cret!pass",
		DurationInDays: 10,
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(password.ID))

	_, err = service.Get(password.ID)
	assert.True(t, errors.Is(err, vaulterrors.ErrNotFound))

	// 再次删除报not found
	err = service.Delete(password.ID)
	assert.True(t, errors.Is(err, vaulterrors.ErrNotFound))
}
