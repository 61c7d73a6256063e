package model

import "time"

// Organization 批量向成员开放一组密码条目的可见性
type Organization struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(50);not null"`
	Code      string `gorm:"type:varchar(10);not null;uniqueIndex:idx_org_code"` // 全局唯一的组织编号
	Size      string `gorm:"type:varchar(15)"`                                   // 规模区间，例如 "1-10"
	CreatedAt time.Time
	UpdatedAt time.Time

	Members   []User     `gorm:"many2many:user_organizations"`
	Passwords []Password `gorm:"many2many:organization_passwords"`
}
