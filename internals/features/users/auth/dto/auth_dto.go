package dto

// SignupRequest registers a new account. Department accounts carry a
// department name instead of a student number.
type SignupRequest struct {
	UserName       string `json:"user_name" validate:"required,min=3,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Role           string `json:"role" validate:"required,oneof=student department"`
	StudentNumber  string `json:"student_number" validate:"omitempty,max=30"`
	DepartmentName string `json:"department_name" validate:"omitempty,max=100"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	StudentNumber  *string `json:"student_number,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
}
