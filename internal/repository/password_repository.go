package repository

import (
	"errors"

	"go-password-vault/internal/model"
	"go-password-vault/pkg/db"

	"gorm.io/gorm"
)

// PasswordRepository 处理密码条目的持久化
type PasswordRepository struct {
	db *gorm.DB
}

func NewPasswordRepository() *PasswordRepository {
	return &PasswordRepository{db: db.DB}
}

func (r *PasswordRepository) Create(password *model.Password) error {
	return r.db.Create(password).Error
}

func (r *PasswordRepository) FindByID(id uint) (*model.Password, error) {
	var password model.Password
	if err := r.db.First(&password, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 条目不存在
		}
		return nil, err
	}
	return &password, nil
}

// 标题全局唯一，按标题查找用于冲突检查
func (r *PasswordRepository) FindByTitle(title string) (*model.Password, error) {
	var password model.Password
	if err := r.db.Where("title = ?", title).First(&password).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &password, nil
}

// 查找某用户创建的全部条目
func (r *PasswordRepository) FindByOwner(ownerID uint) ([]model.Password, error) {
	var passwords []model.Password
	err := r.db.Where("created_by_id = ?", ownerID).
		Order("passwords.created_at DESC").
		Find(&passwords).Error
	return passwords, err
}

// 统计给定ID中实际存在的条目数，用于批量授权前的前置校验
func (r *PasswordRepository) CountByIDs(ids []uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Password{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *PasswordRepository) Update(password *model.Password) error {
	return r.db.Save(password).Error
}

// 删除条目，并在同一事务内级联清理分享记录和组织关联
func (r *PasswordRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("password_id = ?", id).Delete(&model.Share{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM organization_passwords WHERE password_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Password{}, id).Error
	})
}
