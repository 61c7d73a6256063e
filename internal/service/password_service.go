package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"go-password-vault/internal/model"
	"go-password-vault/internal/repository"
	"go-password-vault/internal/vaulterrors"
	"go-password-vault/pkg/vaultcrypto"
)

// 强度分级是展示用途的粗分类，不是安全边界
type Strength string

const (
	StrengthStrong  Strength = "Strong"
	StrengthWeak    Strength = "Weak"
	StrengthUnrated Strength = "Unrated"
)

// 过期状态在读取时计算，不落库
type ExpiryStatus string

const (
	StatusExpired    ExpiryStatus = "Expired"
	StatusNotExpired ExpiryStatus = "Not expired"
)

const strengthSymbols = "!@#$%^&*"

// 处理密码条目的业务逻辑：加密存储、过期计算、强度分级
type PasswordService struct {
	passwordRepo *repository.PasswordRepository
	policy       PasswordPolicy
}

func NewPasswordService(passwordRepo *repository.PasswordRepository, policy PasswordPolicy) *PasswordService {
	return &PasswordService{
		passwordRepo: passwordRepo,
		policy:       policy,
	}
}

// 新建条目请求
type CreatePasswordRequest struct {
	Title          string `json:"title" binding:"required"`
	Password       string `json:"password" binding:"required"`
	DurationInDays int    `json:"duration_in_days" binding:"required"`
}

// 更新条目请求，nil字段表示不修改
type UpdatePasswordRequest struct {
	Title          *string `json:"title"`
	Password       *string `json:"password"`
	DurationInDays *int    `json:"duration_in_days"`
}

// 新建加密条目
func (s *PasswordService) Create(ownerID uint, req CreatePasswordRequest) (*model.Password, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", vaulterrors.ErrValidation)
	}
	if req.DurationInDays <= 0 {
		return nil, fmt.Errorf("%w: duration_in_days must be positive", vaulterrors.ErrValidation)
	}
	if err := s.policy.Validate(req.Password); err != nil {
		return nil, err
	}

	// 标题全局唯一
	existing, err := s.passwordRepo.FindByTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: title %q is taken", vaulterrors.ErrConflict, req.Title)
	}

	ciphertext, err := vaultcrypto.Encrypt(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt password: %w", err)
	}

	now := time.Now()
	password := &model.Password{
		Title:          req.Title,
		Ciphertext:     ciphertext,
		DurationInDays: req.DurationInDays,
		CreatedAt:      now,
		ExpiresAt:      now.AddDate(0, 0, req.DurationInDays),
		CreatedByID:    ownerID,
	}

	if err := s.passwordRepo.Create(password); err != nil {
		return nil, err
	}
	return password, nil
}

// 更新条目。修改时长时过期时间总是从原始创建时间重新计算，
// 连续多次更新不会累积漂移。
func (s *PasswordService) Update(id uint, req UpdatePasswordRequest) (*model.Password, error) {
	password, err := s.passwordRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if password == nil {
		return nil, fmt.Errorf("%w: password %d", vaulterrors.ErrNotFound, id)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", vaulterrors.ErrValidation)
		}
		existing, err := s.passwordRepo.FindByTitle(title)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != password.ID {
			return nil, fmt.Errorf("%w: title %q is taken", vaulterrors.ErrConflict, title)
		}
		password.Title = title
	}

	if req.Password != nil {
		if err := s.policy.Validate(*req.Password); err != nil {
			return nil, err
		}
		ciphertext, err := vaultcrypto.Encrypt(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt password: %w", err)
		}
		password.Ciphertext = ciphertext
	}

	if req.DurationInDays != nil {
		if *req.DurationInDays <= 0 {
			return nil, fmt.Errorf("%w: duration_in_days must be positive", vaulterrors.ErrValidation)
		}
		password.DurationInDays = *req.DurationInDays
		password.ExpiresAt = password.CreatedAt.AddDate(0, 0, *req.DurationInDays)
	}

	if err := s.passwordRepo.Update(password); err != nil {
		return nil, err
	}
	return password, nil
}

func (s *PasswordService) Get(id uint) (*model.Password, error) {
	password, err := s.passwordRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if password == nil {
		return nil, fmt.Errorf("%w: password %d", vaulterrors.ErrNotFound, id)
	}
	return password, nil
}

// 解密条目内容
func (s *PasswordService) GetDecrypted(id uint) (string, error) {
	password, err := s.Get(id)
	if err != nil {
		return "", err
	}
	plaintext, err := vaultcrypto.Decrypt(password.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt password %d: %w", id, err)
	}
	return plaintext, nil
}

// 删除条目，级联清理在repository事务内完成
func (s *PasswordService) Delete(id uint) error {
	password, err := s.passwordRepo.FindByID(id)
	if err != nil {
		return err
	}
	if password == nil {
		return fmt.Errorf("%w: password %d", vaulterrors.ErrNotFound, id)
	}
	return s.passwordRepo.Delete(id)
}

// Status 报告条目在now时刻的过期状态，到期当刻即视为过期
func Status(password *model.Password, now time.Time) ExpiryStatus {
	if !now.Before(password.ExpiresAt) {
		return StatusExpired
	}
	return StatusNotExpired
}

// ClassifyStrength 粗分类明文强度：
// Strong：长度8-30且同时包含数字、小写、大写和 !@#$%^&* 中的符号；
// Weak：长度8-30但不满足Strong；
// Unrated：长度在区间外（两种模式都不匹配时的兜底值）。
func ClassifyStrength(plaintext string) Strength {
	n := len([]rune(plaintext))
	if n < 8 || n > 30 {
		return StrengthUnrated
	}

	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range plaintext {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case strings.ContainsRune(strengthSymbols, r):
			hasSymbol = true
		}
	}

	if hasDigit && hasLower && hasUpper && hasSymbol {
		return StrengthStrong
	}
	return StrengthWeak
}
