package service

import (
	"fmt"

	"go-password-vault/internal/model"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/vaulterrors"
)

// 处理显式分享授权。谁可以分享/撤销：仅条目所有者。
type ShareService struct {
	shareRepo    *repository.ShareRepository
	passwordRepo *repository.PasswordRepository
	userRepo     *repository.UserRepository
	baseURL      string
}

// baseURL 用于拼接分享链接，从配置注入而非全局读取
func NewShareService(
	shareRepo *repository.ShareRepository,
	passwordRepo *repository.PasswordRepository,
	userRepo *repository.UserRepository,
	baseURL string,
) *ShareService {
	return &ShareService{
		shareRepo:    shareRepo,
		passwordRepo: passwordRepo,
		userRepo:     userRepo,
		baseURL:      baseURL,
	}
}

// Grant 将条目分享给目标用户并赋予权限集
func (s *ShareService) Grant(granterID, targetUserID, passwordID uint, perms model.PermissionSet) (*model.Share, error) {
	if len(perms) == 0 {
		return nil, fmt.Errorf("%w: at least one permission is required", vaulterrors.ErrValidation)
	}

	password, err := s.passwordRepo.FindByID(passwordID)
	if err != nil {
		return nil, err
	}
	if password == nil {
		return nil, fmt.Errorf("%w: password %d", vaulterrors.ErrNotFound, passwordID)
	}

	// 仅所有者可以分享
	if password.CreatedByID != granterID {
		return nil, fmt.Errorf("%w: only the owner may share password %d", vaulterrors.ErrPermission, passwordID)
	}

	// 不能分享给自己
	if granterID == targetUserID {
		return nil, fmt.Errorf("%w: cannot share a password with yourself", vaulterrors.ErrValidation)
	}

	exists, err := s.userRepo.Exists(targetUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", vaulterrors.ErrNotFound, targetUserID)
	}

	share := &model.Share{
		UserID:      targetUserID,
		PasswordID:  passwordID,
		Permissions: model.NewPermissionSet(perms...),
	}
	if err := s.shareRepo.Create(share); err != nil {
		return nil, err
	}
	return share, nil
}

// Revoke 撤销一条分享记录，只移除这条记录所授予的权限。
// 仅条目所有者可以撤销。
func (s *ShareService) Revoke(granterID, shareID uint) error {
	share, err := s.shareRepo.FindByID(shareID)
	if err != nil {
		return err
	}
	if share == nil {
		return fmt.Errorf("%w: share %d", vaulterrors.ErrNotFound, shareID)
	}

	password, err := s.passwordRepo.FindByID(share.PasswordID)
	if err != nil {
		return err
	}
	if password != nil && password.CreatedByID != granterID {
		return fmt.Errorf("%w: only the owner may revoke shares of password %d", vaulterrors.ErrPermission, share.PasswordID)
	}

	return s.shareRepo.Delete(shareID)
}

// 分享给指定用户的全部记录
func (s *ShareService) SharedWith(userID uint) ([]model.Share, error) {
	return s.shareRepo.FindByUser(userID)
}

// 某条目上的全部分享记录，仅所有者可查
func (s *ShareService) SharesOf(ownerID, passwordID uint) ([]model.Share, error) {
	password, err := s.passwordRepo.FindByID(passwordID)
	if err != nil {
		return nil, err
	}
	if password == nil {
		return nil, fmt.Errorf("%w: password %d", vaulterrors.ErrNotFound, passwordID)
	}
	if password.CreatedByID != ownerID {
		return nil, fmt.Errorf("%w: only the owner may list shares of password %d", vaulterrors.ErrPermission, passwordID)
	}
	return s.shareRepo.FindByPassword(passwordID)
}

// ShareURL 拼接条目的分享链接
func (s *ShareService) ShareURL(passwordID uint) string {
	return fmt.Sprintf("%s/api/shared-passwords/%d/", s.baseURL, passwordID)
}
