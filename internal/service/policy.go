package service

import (
	"fmt"

	"go-password-vault/internal/vaulterrors"
	"go-password-vault/pkg/config"
)

// PasswordPolicy 是创建/修改条目时对明文的校验策略，可替换
type PasswordPolicy interface {
	Validate(plaintext string) error
}

// MinLengthPolicy 只要求最小长度
type MinLengthPolicy struct {
	Min int
}

func (p MinLengthPolicy) Validate(plaintext string) error {
	if len(plaintext) < p.Min {
		return fmt.Errorf("%w: password must be at least %d characters", vaulterrors.ErrValidation, p.Min)
	}
	return nil
}

// 从配置构造默认策略，未配置时最小长度为8
func DefaultPolicy() PasswordPolicy {
	min := config.GlobalConfig.PasswordPolicy.MinLength
	if min <= 0 {
		min = 8
	}
	return MinLengthPolicy{Min: min}
}
