package users

import (
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RolePending  Role = "pending"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanOperate reports whether the user may edit plans and request documents.
func (u *User) CanOperate() bool {
	return u != nil && (u.Role == RoleOperator || u.Role == RoleAdmin)
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// DisplayName is recorded as the author of plan changes.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return "tg:" + strconv.FormatInt(u.TelegramID, 10)
}

type Telegram struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}
