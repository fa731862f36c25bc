package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cesms_backend/internals/features/users/auth/controller"
	"cesms_backend/internals/middlewares"
	authMiddleware "cesms_backend/internals/middlewares/auth"
)

// AuthRoutes wires the public auth endpoints plus the token-gated ones
// (logout, profile).
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/signup", middlewares.SignupRateLimiter(), ctrl.Signup)
	auth.Post("/verify-email", ctrl.VerifyEmail)
	auth.Post("/resend-code", middlewares.SignupRateLimiter(), ctrl.ResendCode)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/forgot-password", middlewares.ForgotPasswordRateLimiter(), ctrl.ForgotPassword)
	auth.Post("/reset-password", ctrl.ResetPassword)

	auth.Post("/logout", authMiddleware.AuthMiddleware(db), ctrl.Logout)
	auth.Get("/me", authMiddleware.AuthMiddleware(db), ctrl.Me)
}
