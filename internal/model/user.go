package model

import "time"

type Role string

const (
	RoleStudent  Role = "student"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

// Rank 用于权限比较，未知角色为 -1
func (r Role) Rank() int {
	switch r {
	case RoleStudent:
		return 0
	case RoleReviewer:
		return 1
	case RoleAdmin:
		return 2
	default:
		return -1
	}
}

func (r Role) Valid() bool {
	return r.Rank() >= 0
}

// IsStaff 审阅者和管理员
func (r Role) IsStaff() bool {
	return r.Rank() >= RoleReviewer.Rank()
}

type User struct {
	Model
	Email          string     `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Password       string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName       string     `gorm:"type:varchar(100);not null" json:"full_name"`
	Role           Role       `gorm:"type:varchar(20);default:student;not null;index" json:"role"`
	ProfilePicture string     `gorm:"type:varchar(255)" json:"profile_picture"`
	Bio            string     `gorm:"type:text" json:"bio"`
	LastLogin      *time.Time `json:"last_login"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	IsVerified     bool       `gorm:"default:false;not null" json:"is_verified"`
}

// UserBrief 嵌入到其他响应中的用户信息
type UserBrief struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (u *User) Brief() *UserBrief {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserBrief{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}
