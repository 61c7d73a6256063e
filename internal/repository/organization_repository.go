package repository

import (
	"errors"
	"fmt"

	"go-password-vault/internal/model"
	"go-password-vault/internal/vaulterrors"
	"go-password-vault/pkg/db"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository() *OrganizationRepository {
	return &OrganizationRepository{db: db.DB}
}

func (r *OrganizationRepository) Create(org *model.Organization) error {
	return r.db.Create(org).Error
}

// 根据ID查找组织，并预加载成员和已授权的密码条目
func (r *OrganizationRepository) FindByID(orgID uint) (*model.Organization, error) {
	var org model.Organization
	err := r.db.Preload("Members").Preload("Passwords").First(&org, orgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 组织不存在
		}
		return nil, err
	}
	return &org, nil
}

// 组织编号全局唯一，按编号查找用于冲突检查
func (r *OrganizationRepository) FindByCode(code string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.Where("code = ?", code).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) FindAll() ([]model.Organization, error) {
	var orgs []model.Organization
	err := r.db.Order("created_at DESC").Find(&orgs).Error
	return orgs, err
}

// 查找用户所属的所有组织
func (r *OrganizationRepository) FindUserOrganizations(userID uint) ([]model.Organization, error) {
	var orgs []model.Organization
	// 通过 user_organizations 连接查询
	err := r.db.Joins("JOIN user_organizations ON organizations.id = user_organizations.organization_id").
		Where("user_organizations.user_id = ?", userID).
		Order("organizations.created_at DESC").
		Find(&orgs).Error
	return orgs, err
}

// 将用户添加为组织成员。重复添加是无操作而非错误。
func (r *OrganizationRepository) AddMember(orgID, userID uint) error {
	var count int64
	err := r.db.Table("user_organizations").
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // 已是成员
	}
	return r.db.Exec("INSERT INTO user_organizations (user_id, organization_id) VALUES (?, ?)",
		userID, orgID).Error
}

// 查找组织的所有成员
func (r *OrganizationRepository) FindMembers(orgID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.Joins("JOIN user_organizations ON users.id = user_organizations.user_id").
		Where("user_organizations.organization_id = ?", orgID).
		Find(&users).Error
	return users, err
}

// 批量将密码条目授权给组织。先在事务内校验所有ID都存在，
// 有任何一个无效ID则整体失败，不做部分授权。
func (r *OrganizationRepository) AddPasswords(orgID uint, passwordIDs []uint) error {
	// 去重，避免重复ID干扰计数校验
	unique := make([]uint, 0, len(passwordIDs))
	seen := make(map[uint]struct{}, len(passwordIDs))
	for _, id := range passwordIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return fmt.Errorf("%w: no password ids given", vaulterrors.ErrValidation)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Password{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(unique)) {
			return fmt.Errorf("%w: %d of %d password ids do not exist",
				vaulterrors.ErrValidation, int64(len(unique))-count, len(unique))
		}

		for _, id := range unique {
			var linked int64
			if err := tx.Table("organization_passwords").
				Where("organization_id = ? AND password_id = ?", orgID, id).
				Count(&linked).Error; err != nil {
				return err
			}
			if linked > 0 {
				continue // 已授权，保持幂等
			}
			if err := tx.Exec("INSERT INTO organization_passwords (organization_id, password_id) VALUES (?, ?)",
				orgID, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// 查找组织已授权的全部密码条目
func (r *OrganizationRepository) FindPasswords(orgID uint) ([]model.Password, error) {
	var passwords []model.Password
	err := r.db.Joins("JOIN organization_passwords ON passwords.id = organization_passwords.password_id").
		Where("organization_passwords.organization_id = ?", orgID).
		Find(&passwords).Error
	return passwords, err
}

// 查找用户通过组织成员身份可见的全部密码条目
func (r *OrganizationRepository) FindPasswordsVisibleToMember(userID uint) ([]model.Password, error) {
	var passwords []model.Password
	// 此查询需要联表：用户所在的所有组织，再取这些组织已授权的条目
	err := r.db.Raw(`
        SELECT DISTINCT p.* FROM passwords p
        JOIN organization_passwords op ON p.id = op.password_id
        JOIN user_organizations uo ON op.organization_id = uo.organization_id
        WHERE uo.user_id = ?`,
		userID).Find(&passwords).Error
	return passwords, err
}
