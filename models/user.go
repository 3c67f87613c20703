package models

import (
	"time"
)

// User model for admin authentication
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username     string `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Name         string `gorm:"column:name" json:"name"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         string `gorm:"column:role;default:admin" json:"role"`
	IsActive     bool   `gorm:"column:is_active;default:true" json:"isActive"`

	LastLogin         *time.Time `gorm:"column:last_login" json:"lastLogin,omitempty"`
	PasswordChangedAt *time.Time `gorm:"column:password_changed_at" json:"passwordChangedAt,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// PasswordHistory model - append-only SHA-256 digests of past passwords,
// used to reject reuse of recent passwords
type PasswordHistory struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID       int64     `gorm:"column:user_id;index;not null" json:"userId"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"passwordHash"` // SHA-256 hex
	CreatedAt    time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
}

func (PasswordHistory) TableName() string {
	return "password_history"
}
