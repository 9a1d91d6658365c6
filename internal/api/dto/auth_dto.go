package dto

import "time"

// RegisterRequest payload for new citizen accounts.
type RegisterRequest struct {
	NombreCompleto string `json:"nombreCompleto" validate:"required,min=6,max=255,fullname"`
	Cedula         string `json:"cedula" validate:"required,len=10,numeric"`
	NumTelefono    string `json:"numTelefono" validate:"required,len=10,numeric"`
	Email          string `json:"email" validate:"required,min=6,max=1024,email"`
	Password       string `json:"password" validate:"required,min=6,alphanum"`
}

// LoginRequest payload for citizen login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordRecoveryRequest starts a reset; either field identifies the account.
type PasswordRecoveryRequest struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Cedula string `json:"cedula" validate:"omitempty,len=10,numeric"`
}

// NewPasswordRequest completes a reset.
type NewPasswordRequest struct {
	ResetToken  string `json:"resetToken" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,alphanum"`
}

// AuthData is the session payload returned on successful login.
type AuthData struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
