package repository

import (
	"errors"

	"go-password-vault/internal/model"
	"go-password-vault/pkg/db"

	"gorm.io/gorm"
)

type ShareRepository struct {
	db *gorm.DB
}

func NewShareRepository() *ShareRepository {
	return &ShareRepository{db: db.DB}
}

func (r *ShareRepository) Create(share *model.Share) error {
	return r.db.Create(share).Error
}

func (r *ShareRepository) FindByID(id uint) (*model.Share, error) {
	var share model.Share
	if err := r.db.First(&share, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 分享记录不存在
		}
		return nil, err
	}
	return &share, nil
}

// 查找某用户在某条目上的全部分享记录。
// 同一 (user, password) 可能存在多条，调用方取权限并集。
func (r *ShareRepository) FindByUserAndPassword(userID, passwordID uint) ([]model.Share, error) {
	var shares []model.Share
	err := r.db.Where("user_id = ? AND password_id = ?", userID, passwordID).Find(&shares).Error
	return shares, err
}

// 查找分享给指定用户的所有记录
func (r *ShareRepository) FindByUser(userID uint) ([]model.Share, error) {
	var shares []model.Share
	err := r.db.Preload("Password").Where("user_id = ?", userID).Find(&shares).Error
	return shares, err
}

// 查找某条目上的全部分享记录
func (r *ShareRepository) FindByPassword(passwordID uint) ([]model.Share, error) {
	var shares []model.Share
	err := r.db.Preload("User").Where("password_id = ?", passwordID).Find(&shares).Error
	return shares, err
}

func (r *ShareRepository) Delete(id uint) error {
	return r.db.Delete(&model.Share{}, id).Error
}
