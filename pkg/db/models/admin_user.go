package models

import "time"

type AdminUser struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (AdminUser) TableName() string { return "admin_users" }
