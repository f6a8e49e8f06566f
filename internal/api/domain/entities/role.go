// Package entities содержит сущности домена доски вакансий.
package entities

import (
	"net"
	"strings"
)

// Role - роль пользователя.
type Role string

// Поддерживаемые роли.
const (
	RoleAdmin     Role = "admin"
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
)

// Valid проверяет, что роль известна.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCandidate, RoleEmployer:
		return true
	}
	return false
}

// ParseRole разбирает строковое представление роли.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// RoleFromHost определяет роль по первому DNS-метке хоста:
// admin -> admin, employer -> employer, www -> candidate.
func RoleFromHost(host string) (Role, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || strings.ContainsAny(host, "/?#") {
		return "", false
	}

	label, _, _ := strings.Cut(host, ".")
	switch label {
	case "admin":
		return RoleAdmin, true
	case "employer":
		return RoleEmployer, true
	case "www":
		return RoleCandidate, true
	}
	return "", false
}

// AdminPermissions - набор прав администратора по умолчанию.
var AdminPermissions = []string{
	"users:read",
	"users:write",
	"jobs:read",
	"jobs:write",
	"admins:manage",
}
