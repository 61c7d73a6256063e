package service

import (
	"fmt"

	"go-password-vault/internal/model"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/vaulterrors"
)

// AccessService 是访问控制的唯一决策点。
// 每次判定都是针对存储当前内容的纯函数，不跨请求缓存授权结果。
//
// 规则：
//   - 可见性 = 自己创建 ∪ 所属组织批量授权 ∪ 存在任意分享记录；
//   - 操作权限：所有者对自己的条目隐式拥有全部权限（先判所有者，短路），
//     否则动作必须出现在该用户全部分享记录权限集的并集中；
//   - 组织成员身份只带来可见性（列表），不授予 change/delete。
type AccessService struct {
	userRepo     *repository.UserRepository
	passwordRepo *repository.PasswordRepository
	orgRepo      *repository.OrganizationRepository
	shareRepo    *repository.ShareRepository
}

func NewAccessService(
	userRepo *repository.UserRepository,
	passwordRepo *repository.PasswordRepository,
	orgRepo *repository.OrganizationRepository,
	shareRepo *repository.ShareRepository,
) *AccessService {
	return &AccessService{
		userRepo:     userRepo,
		passwordRepo: passwordRepo,
		orgRepo:      orgRepo,
		shareRepo:    shareRepo,
	}
}

// Authorize 判定主体能否对条目执行指定动作。
// 缺少分享记录视为空权限集（拒绝），不报错；
// 只有主体或条目不存在时返回 ErrNotFound。
func (s *AccessService) Authorize(principalID, passwordID uint, action model.Permission) (bool, error) {
	password, err := s.lookup(principalID, passwordID)
	if err != nil {
		return false, err
	}

	// 所有者检查短路，隐式拥有全部权限，不依赖分享记录
	if password.CreatedByID == principalID {
		return true, nil
	}

	perms, err := s.grantedPermissions(principalID, passwordID)
	if err != nil {
		return false, err
	}
	return perms.Has(action), nil
}

// PermissionsOf 返回主体在条目上的生效权限集
func (s *AccessService) PermissionsOf(principalID, passwordID uint) (model.PermissionSet, error) {
	password, err := s.lookup(principalID, passwordID)
	if err != nil {
		return nil, err
	}
	if password.CreatedByID == principalID {
		return model.NewPermissionSet(model.AllPermissions...), nil
	}
	return s.grantedPermissions(principalID, passwordID)
}

// CanSee 判定条目是否对主体可见（可出现在其列表中）
func (s *AccessService) CanSee(principalID, passwordID uint) (bool, error) {
	password, err := s.lookup(principalID, passwordID)
	if err != nil {
		return false, err
	}
	if password.CreatedByID == principalID {
		return true, nil
	}

	shares, err := s.shareRepo.FindByUserAndPassword(principalID, passwordID)
	if err != nil {
		return false, err
	}
	for _, share := range shares {
		if len(share.Permissions) > 0 {
			return true, nil
		}
	}

	orgPasswords, err := s.orgRepo.FindPasswordsVisibleToMember(principalID)
	if err != nil {
		return false, err
	}
	for _, p := range orgPasswords {
		if p.ID == passwordID {
			return true, nil
		}
	}
	return false, nil
}

// ListVisible 返回主体可见的全部条目：
// 自己创建的 ∪ 组织授权的 ∪ 分享获得的，按ID去重
func (s *AccessService) ListVisible(principalID uint) ([]model.Password, error) {
	exists, err := s.userRepo.Exists(principalID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", vaulterrors.ErrNotFound, principalID)
	}

	owned, err := s.passwordRepo.FindByOwner(principalID)
	if err != nil {
		return nil, err
	}

	orgGranted, err := s.orgRepo.FindPasswordsVisibleToMember(principalID)
	if err != nil {
		return nil, err
	}

	shares, err := s.shareRepo.FindByUser(principalID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{})
	result := make([]model.Password, 0, len(owned)+len(orgGranted)+len(shares))
	appendPassword := func(p model.Password) {
		if _, ok := seen[p.ID]; ok {
			return
		}
		seen[p.ID] = struct{}{}
		result = append(result, p)
	}

	for _, p := range owned {
		appendPassword(p)
	}
	for _, p := range orgGranted {
		appendPassword(p)
	}
	for _, share := range shares {
		if len(share.Permissions) == 0 {
			continue
		}
		appendPassword(share.Password)
	}
	return result, nil
}

// 取条目并校验主体存在
func (s *AccessService) lookup(principalID, passwordID uint) (*model.Password, error) {
	exists, err := s.userRepo.Exists(principalID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", vaulterrors.ErrNotFound, principalID)
	}

	password, err := s.passwordRepo.FindByID(passwordID)
	if err != nil {
		return nil, err
	}
	if password == nil {
		return nil, fmt.Errorf("%w: password %d", vaulterrors.ErrNotFound, passwordID)
	}
	return password, nil
}

// 分享记录权限集的并集，无记录时为空集
func (s *AccessService) grantedPermissions(principalID, passwordID uint) (model.PermissionSet, error) {
	shares, err := s.shareRepo.FindByUserAndPassword(principalID, passwordID)
	if err != nil {
		return nil, err
	}
	var perms model.PermissionSet
	for _, share := range shares {
		perms = perms.Union(share.Permissions)
	}
	return perms, nil
}
