package model

import (
	"time"

	"github.com/google/uuid"
)

type PasswordResetModel struct {
	PasswordResetID        uuid.UUID `gorm:"column:password_reset_id;type:uuid;default:gen_random_uuid();primaryKey" json:"password_reset_id"`
	PasswordResetEmail     string    `gorm:"column:password_reset_email;type:varchar(120);not null;index" json:"password_reset_email"`
	PasswordResetCode      string    `gorm:"column:password_reset_code;type:varchar(6);not null" json:"-"`
	PasswordResetExpiresAt time.Time `gorm:"column:password_reset_expires_at;not null" json:"password_reset_expires_at"`
	PasswordResetCreatedAt time.Time `gorm:"column:password_reset_created_at;autoCreateTime" json:"password_reset_created_at"`
}

func (PasswordResetModel) TableName() string {
	return "password_resets"
}
