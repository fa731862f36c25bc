package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID             uuid.UUID      `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	UserName           string         `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserEmail          string         `gorm:"column:user_email;type:varchar(120);unique;not null" json:"user_email"`
	UserPassword       string         `gorm:"column:user_password;type:varchar(255);not null" json:"-"`
	UserRole           string         `gorm:"column:user_role;type:varchar(20);not null;default:'student'" json:"user_role"`
	UserStudentNumber  *string        `gorm:"column:user_student_number;type:varchar(30);uniqueIndex" json:"user_student_number,omitempty"`
	UserDepartmentName *string        `gorm:"column:user_department_name;type:varchar(100)" json:"user_department_name,omitempty"`
	UserIsActive       bool           `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`
	UserIsVerified     bool           `gorm:"column:user_is_verified;not null;default:false" json:"user_is_verified"`
	UserCreatedAt      time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt      time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt      gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}
