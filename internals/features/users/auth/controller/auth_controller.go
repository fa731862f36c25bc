package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cesms_backend/internals/features/users/auth/dto"
	"cesms_backend/internals/features/users/auth/service"
	helper "cesms_backend/internals/helpers"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{Service: service.NewAuthService(db)}
}

func (ctrl *AuthController) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	if err := ctrl.Service.Signup(req.UserName, req.Email, req.Password, req.Role, req.StudentNumber, req.DepartmentName); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken),
			errors.Is(err, service.ErrStudentNumberTaken):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidEmail):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return helper.JsonCreated(c, "Account created. Check your email for the verification code.", fiber.Map{
		"email": strings.ToLower(strings.TrimSpace(req.Email)),
	})
}

func (ctrl *AuthController) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	if err := ctrl.Service.VerifyEmail(req.Email, req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to verify email")
	}

	return helper.JsonOK(c, "Email verified. You can now log in.", nil)
}

func (ctrl *AuthController) ResendCode(c *fiber.Ctx) error {
	var req dto.ResendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	if err := ctrl.Service.ResendCode(req.Email); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resend verification code")
	}

	return helper.JsonOK(c, "If the account exists and is unverified, a new code has been sent.", nil)
}

func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	token, user, err := ctrl.Service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrNotVerified):
			return helper.JsonError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAccountInactive):
			return helper.JsonError(c, fiber.StatusForbidden, err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Login failed")
		}
	}

	return helper.JsonOK(c, "Login successful", dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			UserID:         user.UserID.String(),
			UserName:       user.UserName,
			Email:          user.UserEmail,
			Role:           user.UserRole,
			StudentNumber:  user.UserStudentNumber,
			DepartmentName: user.UserDepartmentName,
		},
	})
}

func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing bearer token")
	}

	if err := ctrl.Service.Logout(strings.TrimSpace(parts[1])); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to log out")
	}
	return helper.JsonOK(c, "Logged out", nil)
}

func (ctrl *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	if err := ctrl.Service.ForgotPassword(req.Email); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process request")
	}
	return helper.JsonOK(c, "If the account exists, a reset code has been sent.", nil)
}

func (ctrl *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	if err := ctrl.Service.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.JsonOK(c, "Password has been reset. You can now log in.", nil)
}

// Me returns the authenticated user's profile.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := ctrl.Service.GetProfile(userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	return helper.JsonOK(c, "Profile fetched", dto.UserResponse{
		UserID:         user.UserID.String(),
		UserName:       user.UserName,
		Email:          user.UserEmail,
		Role:           user.UserRole,
		StudentNumber:  user.UserStudentNumber,
		DepartmentName: user.UserDepartmentName,
	})
}
