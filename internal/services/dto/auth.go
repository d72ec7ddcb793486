package dto

type RegisterRequest struct {
	FullName   string `json:"fullName" binding:"required" validate:"required"`
	SchoolName string `json:"schoolName"`
	Location   string `json:"location"`
	Gender     string `json:"gender"`
	Contact    string `json:"contact"`
	Email      string `json:"email" binding:"required" validate:"required,email"`
	Password   string `json:"password" binding:"required" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
	Code  string `json:"code" binding:"required" validate:"required,len=6,numeric"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

// UserPayload is the minimal session payload returned on login. No token
// is issued; the client keeps the user object.
type UserPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SchoolName string `json:"schoolName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

type LoginResponse struct {
	Message string      `json:"message"`
	UserID  string      `json:"userId"`
	User    UserPayload `json:"user"`
}
