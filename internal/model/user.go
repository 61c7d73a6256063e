package model

import (
	"time"

	"gorm.io/gorm"
)

// 用户以邮箱作为唯一身份标识
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_email"`
	Password  string `gorm:"type:varchar(128);not null"` // bcrypt哈希，不是保险库条目
	FirstName string `gorm:"type:varchar(50)"`
	LastName  string `gorm:"type:varchar(50)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Organizations []Organization `gorm:"many2many:user_organizations"`
}
