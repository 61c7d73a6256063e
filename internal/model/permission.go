package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Permission 是针对单个密码条目的操作权限
type Permission string

const (
	PermissionView   Permission = "view"
	PermissionChange Permission = "change"
	PermissionDelete Permission = "delete"
)

// 全部已知权限，顺序固定
var AllPermissions = []Permission{PermissionView, PermissionChange, PermissionDelete}

func ParsePermission(s string) (Permission, error) {
	switch Permission(s) {
	case PermissionView, PermissionChange, PermissionDelete:
		return Permission(s), nil
	}
	return "", fmt.Errorf("unknown permission %q", s)
}

// PermissionSet 是去重后的权限集合，以逗号分隔的字符串形式入库
type PermissionSet []Permission

func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, 0, len(perms))
	for _, p := range perms {
		if !set.Has(p) {
			set = append(set, p)
		}
	}
	return set
}

func (s PermissionSet) Has(p Permission) bool {
	for _, existing := range s {
		if existing == p {
			return true
		}
	}
	return false
}

// Union 返回两个集合的并集，不修改原集合
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	merged := NewPermissionSet(s...)
	for _, p := range other {
		if !merged.Has(p) {
			merged = append(merged, p)
		}
	}
	return merged
}

func (s PermissionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, p := range s {
		out = append(out, string(p))
	}
	return out
}

func (s PermissionSet) Value() (driver.Value, error) {
	return strings.Join(s.Strings(), ","), nil
}

func (s *PermissionSet) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into PermissionSet", value)
	}

	if raw == "" {
		*s = nil
		return nil
	}

	parts := strings.Split(raw, ",")
	set := make(PermissionSet, 0, len(parts))
	for _, part := range parts {
		p, err := ParsePermission(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		if !set.Has(p) {
			set = append(set, p)
		}
	}
	*s = set
	return nil
}
