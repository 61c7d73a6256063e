package vaulterrors

import "errors"

// 核心错误分类。service层用 fmt.Errorf("...: %w", Err...) 包装，
// api层用 errors.Is 翻译为HTTP状态码。
var (
	ErrValidation = errors.New("vault: invalid input")
	ErrConflict   = errors.New("vault: already exists")
	ErrNotFound   = errors.New("vault: not found")
	ErrPermission = errors.New("vault: permission denied")
)
