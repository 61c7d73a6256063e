package model

import "time"

// Password 表示一条加密存储的凭据。
// Ciphertext 对数据库完全不透明；明文只在加解密瞬间存在于内存中。
// ExpiresAt = CreatedAt + DurationInDays 天，更新时长时从原始 CreatedAt 重新计算。
type Password struct {
	ID             uint   `gorm:"primaryKey"`
	Title          string `gorm:"type:varchar(128);not null;uniqueIndex:idx_password_title"` // 全局唯一，不是按所有者
	Ciphertext     string `gorm:"type:text;not null"`
	DurationInDays int    `gorm:"not null"`
	ExpiresAt      time.Time
	CreatedByID    uint `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	CreatedBy User `gorm:"foreignKey:CreatedByID"`
}
