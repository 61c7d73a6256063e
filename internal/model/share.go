package model

import "time"

// Share 表示对单个密码条目的显式授权记录。
// 同一 (user, password) 允许存在多条记录，生效权限取各记录权限集的并集。
type Share struct {
	ID          uint          `gorm:"primaryKey"`
	UserID      uint          `gorm:"not null;index"`
	PasswordID  uint          `gorm:"not null;index"`
	Permissions PermissionSet `gorm:"type:varchar(64);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User     User     `gorm:"foreignKey:UserID"`
	Password Password `gorm:"foreignKey:PasswordID"`
}
