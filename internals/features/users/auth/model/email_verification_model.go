package model

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerificationModel holds the one pending signup OTP per address.
// Issuing a new code deletes any previous row for the same email.
type EmailVerificationModel struct {
	EmailVerificationID        uuid.UUID `gorm:"column:email_verification_id;type:uuid;default:gen_random_uuid();primaryKey" json:"email_verification_id"`
	EmailVerificationEmail     string    `gorm:"column:email_verification_email;type:varchar(120);not null;index" json:"email_verification_email"`
	EmailVerificationCode      string    `gorm:"column:email_verification_code;type:varchar(6);not null" json:"-"`
	EmailVerificationExpiresAt time.Time `gorm:"column:email_verification_expires_at;not null" json:"email_verification_expires_at"`
	EmailVerificationCreatedAt time.Time `gorm:"column:email_verification_created_at;autoCreateTime" json:"email_verification_created_at"`
}

func (EmailVerificationModel) TableName() string {
	return "email_verifications"
}
