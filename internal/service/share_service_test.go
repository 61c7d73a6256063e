package service

import (
	"errors"
	"testing"

	"go-password-vault/internal/model"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/vaulterrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShareService() *ShareService {
	return NewShareService(
		repository.NewShareRepository(),
		repository.NewPasswordRepository(),
		repository.NewUserRepository(),
		"http://localhost:8080",
	)
}

func TestShareService_Grant(t *testing.T) {
	setupTestDB(t)
	shareService := newShareService()
	passwordService := newPasswordService()
	owner := createServiceTestUser(t, "shareowner@example.com")
	target := createServiceTestUser(t, "sharetarget@example.com")
	stranger := createServiceTestUser(t, "sharestranger@example.com")

	password, err := passwordService.Create(owner.ID, CreatePasswordRequest{
		Title:          "share-grant",
		Password:       "S3cret!pass",
		DurationInDays: 30,
	})
	require.NoError(t, err)

	share, err := shareService.Grant(owner.ID, target.ID, password.ID, model.PermissionSet{model.PermissionView})
	require.NoError(t, err)
	assert.True(t, share.ID > 0)
	assert.True(t, share.Permissions.Has(model.PermissionView))

	// 非所有者不能分享
	_, err = shareService.Grant(stranger.ID, target.ID, password.ID, model.PermissionSet{model.PermissionView})
	assert.True(t, errors.Is(err, vaulterrors.ErrPermission), "Expected permission error, got %v", err)

	// 不能分享给自己
	_, err = shareService.Grant(owner.ID, owner.ID, password.ID, model.PermissionSet{model.PermissionView})
	assert.True(t, errors.Is(err, vaulterrors.ErrValidation))

	// 权限集不能为空
	_, err = shareService.Grant(owner.ID, target.ID, password.ID, model.PermissionSet{})
	assert.True(t, errors.Is(err, vaulterrors.ErrValidation))

	// 条目不存在
	_, err = shareService.Grant(owner.ID, target.ID, password.ID+1000, model.PermissionSet{model.PermissionView})
	assert.True(t, errors.Is(err, vaulterrors.ErrNotFound))

	// 目标用户不存在
	_, err = shareService.Grant(owner.ID, stranger.ID+1000, password.ID, model.PermissionSet{model.PermissionView})
	assert.True(t, errors.Is(err, vaulterrors.ErrNotFound))
}

func TestShareService_Revoke(t *testing.T) {
	setupTestDB(t)
	shareService := newShareService()
	passwordService := newPasswordService()
	owner := createServiceTestUser(t, "revokeowner@example.com")
	target := createServiceTestUser(t, "revoketarget@example.com")

	password, err := passwordService.Create(owner.ID, CreatePasswordRequest{
		Title:          "share-revoke",
		Password:       "S3cret!pass",
		DurationInDays: 30,
	})
	require.NoError(t, err)

	share, err := shareService.Grant(owner.ID, target.ID, password.ID, model.PermissionSet{model.PermissionView})
	require.NoError(t, err)

	// 仅所有者可以撤销
	err = shareService.Revoke(target.ID, share.ID)
	assert.True(t, errors.Is(err, vaulterrors.ErrPermission), "Expected permission error, got %v", err)

	require.NoError(t, shareService.Revoke(owner.ID, share.ID))

	shares, err := shareService.SharedWith(target.ID)
	require.NoError(t, err)
	assert.Empty(t, shares)

	// 记录已不存在
	err = shareService.Revoke(owner.ID, share.ID)
	assert.True(t, errors.Is(err, vaulterrors.ErrNotFound))
}

func TestShareService_SharesOf(t *testing.T) {
	setupTestDB(t)
	shareService := newShareService()
	passwordService := newPasswordService()
	owner := createServiceTestUser(t, "listowner@example.com")
	target := createServiceTestUser(t, "listtarget@example.com")

	password, err := passwordService.Create(owner.ID, CreatePasswordRequest{
		Title:          "share-list",
		Password:       "S3cret!pass",
		DurationInDays: 30,
	})
	require.NoError(t, err)

	_, err = shareService.Grant(owner.ID, target.ID, password.ID, model.PermissionSet{model.PermissionView, model.PermissionChange})
	require.NoError(t, err)

	shares, err := shareService.SharesOf(owner.ID, password.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, target.ID, shares[0].UserID)

	// 非所有者不能查看条目的分享列表
	_, err = shareService.SharesOf(target.ID, password.ID)
	assert.True(t, errors.Is(err, vaulterrors.ErrPermission))
}

func TestShareService_ShareURL(t *testing.T) {
	service := NewShareService(nil, nil, nil, "https://vault.example.com")
	assert.Equal(t, "https://vault.example.com/api/shared-passwords/42/", service.ShareURL(42))
}
