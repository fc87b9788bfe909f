package models

// OTPRequest is the body of POST /api/auth/request-otp
type OTPRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
}

// OTPVerification is the body of POST /api/auth/verify-otp
type OTPVerification struct {
	Phone string `json:"phone" validate:"required,phone"`
	OTP   string `json:"otp" validate:"required,numeric,len=6"`
}

// LoginResponse is returned after a successful verification
type LoginResponse struct {
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Token string `json:"token"`
}
