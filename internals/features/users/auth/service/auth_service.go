package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cesms_backend/internals/configs"
	"cesms_backend/internals/features/users/auth/mailer"
	authModel "cesms_backend/internals/features/users/auth/model"
	userModel "cesms_backend/internals/features/users/user/model"
)

const otpTTL = 10 * time.Minute

// Sentinel errors the controller maps to HTTP statuses.
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrStudentNumberTaken = errors.New("student number is already registered")
	ErrInvalidEmail       = errors.New("please use your institutional email (firstname.lastname@lspu.edu.ph)")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email is not verified yet")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrAccountInactive    = errors.New("your account has been deactivated")
)

type AuthService struct {
	DB   *gorm.DB
	Mail mailer.Sender
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db, Mail: mailer.New()}
}

// Signup creates an unverified account and mails the OTP.
func (s *AuthService) Signup(userName, email, password, role, studentNumber, departmentName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !ValidInstitutionalEmail(email) {
		return ErrInvalidEmail
	}
	if err := CheckPasswordPolicy(password); err != nil {
		return err
	}
	if role == "student" && strings.TrimSpace(studentNumber) == "" {
		return fmt.Errorf("student number is required for student accounts")
	}
	if role == "department" && strings.TrimSpace(departmentName) == "" {
		return fmt.Errorf("department name is required for department accounts")
	}

	var count int64
	if err := s.DB.Model(&userModel.UserModel{}).Where("user_email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	if role == "student" {
		if err := s.DB.Model(&userModel.UserModel{}).
			Where("user_student_number = ?", strings.TrimSpace(studentNumber)).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrStudentNumberTaken
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := userModel.UserModel{
		UserName:     userName,
		UserEmail:    email,
		UserPassword: string(hashed),
		UserRole:     role,
	}
	if role == "student" {
		sn := strings.TrimSpace(studentNumber)
		user.UserStudentNumber = &sn
	} else {
		dn := strings.TrimSpace(departmentName)
		user.UserDepartmentName = &dn
	}

	if err := s.DB.Create(&user).Error; err != nil {
		// Concurrent signups can slip past the pre-checks; the unique
		// indexes close the race.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "student_number") {
				return ErrStudentNumberTaken
			}
			return ErrEmailTaken
		}
		return err
	}

	return s.issueVerificationCode(email, userName)
}

// issueVerificationCode replaces any pending OTP for the address with a
// fresh one and mails it.
func (s *AuthService) issueVerificationCode(email, userName string) error {
	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email_verification_email = ?", email).
			Delete(&authModel.EmailVerificationModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&authModel.EmailVerificationModel{
			EmailVerificationEmail:     email,
			EmailVerificationCode:      code,
			EmailVerificationExpiresAt: time.Now().Add(otpTTL),
		}).Error
	})
	if err != nil {
		return err
	}

	if err := s.Mail.SendVerificationCode(email, userName, code); err != nil {
		log.Println("[ERROR] failed to send verification email:", err)
		return fmt.Errorf("failed to send verification email")
	}
	return nil
}

// VerifyEmail consumes a matching, unexpired OTP and marks the user verified.
func (s *AuthService) VerifyEmail(email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var rec authModel.EmailVerificationModel
	err := s.DB.Where("email_verification_email = ? AND email_verification_code = ?", email, code).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	if time.Now().After(rec.EmailVerificationExpiresAt) {
		return ErrInvalidCode
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userModel.UserModel{}).
			Where("user_email = ?", email).
			Update("user_is_verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&rec).Error
	})
}

// ResendCode issues a fresh OTP for an unverified account. Unknown or
// already-verified addresses return success without sending anything.
func (s *AuthService) ResendCode(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user userModel.UserModel
	err := s.DB.Where("user_email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.UserIsVerified {
		return nil
	}
	return s.issueVerificationCode(email, user.UserName)
}

// Login checks credentials and returns a signed token plus the user row.
func (s *AuthService) Login(email, password string) (string, *userModel.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user userModel.UserModel
	err := s.DB.Where("user_email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.UserIsVerified {
		return "", nil, ErrNotVerified
	}
	if !user.UserIsActive {
		return "", nil, ErrAccountInactive
	}

	token, err := s.signToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *AuthService) signToken(user *userModel.UserModel) (string, error) {
	if configs.JWTSecret == "" {
		return "", fmt.Errorf("JWT_SECRET is not configured")
	}
	claims := jwt.MapClaims{
		"id":        user.UserID.String(),
		"user_name": user.UserName,
		"role":      user.UserRole,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Logout blacklists the presented token until its natural expiry.
func (s *AuthService) Logout(tokenString string) error {
	expiredAt := time.Now().Add(24 * time.Hour)

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			expiredAt = time.Unix(int64(exp), 0)
		}
	}

	return s.DB.Create(&authModel.TokenBlacklistModel{
		TokenBlacklistToken:     tokenString,
		TokenBlacklistExpiredAt: expiredAt,
	}).Error
}

// ForgotPassword issues a reset code. Unknown addresses are silently ignored.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user userModel.UserModel
	err := s.DB.Where("user_email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("password_reset_email = ?", email).
			Delete(&authModel.PasswordResetModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&authModel.PasswordResetModel{
			PasswordResetEmail:     email,
			PasswordResetCode:      code,
			PasswordResetExpiresAt: time.Now().Add(otpTTL),
		}).Error
	})
	if err != nil {
		return err
	}

	if err := s.Mail.SendPasswordResetCode(email, user.UserName, code); err != nil {
		log.Println("[ERROR] failed to send password reset email:", err)
		return fmt.Errorf("failed to send password reset email")
	}
	return nil
}

// ResetPassword consumes a valid reset code and replaces the password.
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := CheckPasswordPolicy(newPassword); err != nil {
		return err
	}

	var rec authModel.PasswordResetModel
	err := s.DB.Where("password_reset_email = ? AND password_reset_code = ?", email, code).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	if time.Now().After(rec.PasswordResetExpiresAt) {
		return ErrInvalidCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userModel.UserModel{}).
			Where("user_email = ?", email).
			Update("user_password", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Delete(&rec).Error
	})
}

// GetProfile loads the authenticated user's row.
func (s *AuthService) GetProfile(userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := s.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
