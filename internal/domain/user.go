package domain

import (
	"time"
)

type Role string

const (
	RoleMember  Role = "会员"
	RoleManager Role = "赛事管理员"
)

// User 可以登录系统的账号，与 Player 分开管理
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
