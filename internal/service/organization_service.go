package service

import (
	"fmt"
	"strings"

	"go-password-vault/internal/model"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/vaulterrors"
)

// 处理组织与成员/条目关联的业务逻辑
type OrganizationService struct {
	orgRepo  *repository.OrganizationRepository
	userRepo *repository.UserRepository
}

func NewOrganizationService(orgRepo *repository.OrganizationRepository, userRepo *repository.UserRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
	Size string `json:"size"`
}

// 新建组织，组织编号全局唯一
func (s *OrganizationService) Create(req CreateOrganizationRequest) (*model.Organization, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("%w: name and code are required", vaulterrors.ErrValidation)
	}

	existing, err := s.orgRepo.FindByCode(req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: organization code %q is taken", vaulterrors.ErrConflict, req.Code)
	}

	org := &model.Organization{
		Name: req.Name,
		Code: req.Code,
		Size: req.Size,
	}
	if err := s.orgRepo.Create(org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Get(orgID uint) (*model.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization %d", vaulterrors.ErrNotFound, orgID)
	}
	return org, nil
}

func (s *OrganizationService) List() ([]model.Organization, error) {
	return s.orgRepo.FindAll()
}

// 按邮箱将用户加入组织。重复加入是无操作。
func (s *OrganizationService) JoinMember(orgID uint, email string) error {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return fmt.Errorf("%w: organization %d", vaulterrors.ErrNotFound, orgID)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %q", vaulterrors.ErrNotFound, email)
	}

	return s.orgRepo.AddMember(orgID, user.ID)
}

// 批量授权条目给组织。全有或全无：任何一个ID无效则不授权任何条目。
func (s *OrganizationService) AddPasswords(orgID uint, passwordIDs []uint) error {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return fmt.Errorf("%w: organization %d", vaulterrors.ErrNotFound, orgID)
	}

	return s.orgRepo.AddPasswords(orgID, passwordIDs)
}

// 组织全部成员
func (s *OrganizationService) Members(orgID uint) ([]model.User, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization %d", vaulterrors.ErrNotFound, orgID)
	}
	return s.orgRepo.FindMembers(orgID)
}

// 组织已授权的全部条目
func (s *OrganizationService) Passwords(orgID uint) ([]model.Password, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("%w: organization %d", vaulterrors.ErrNotFound, orgID)
	}
	return s.orgRepo.FindPasswords(orgID)
}
