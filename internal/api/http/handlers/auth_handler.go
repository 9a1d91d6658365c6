package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/denuncia-service/internal/api/dto"
	"github.com/spec-kit/denuncia-service/internal/service"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

// AuthHandler serves the citizen account lifecycle routes.
type AuthHandler struct {
	accounts    *service.AccountService
	tokenHeader string
}

// NewAuthHandler returns a new handler instance. tokenHeader names the
// response header carrying the session token on login.
func NewAuthHandler(accounts *service.AccountService, tokenHeader string) *AuthHandler {
	if tokenHeader == "" {
		tokenHeader = "auth-token"
	}
	return &AuthHandler{accounts: accounts, tokenHeader: tokenHeader}
}

// Register creates a new citizen account and sends the verification email.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	account, err := h.accounts.Register(c.UserContext(), service.RegisterInput{
		FullName: req.NombreCompleto,
		Cedula:   req.Cedula,
		Phone:    req.NumTelefono,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Usuario registrado exitosamente", account.Public())
}

// VerifyUser consumes the emailed verification token.
func (h *AuthHandler) VerifyUser(c *fiber.Ctx) error {
	token := c.Params("token")
	if err := h.accounts.VerifyAccount(c.UserContext(), token); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Usuario verificado exitosamente", nil)
}

// Login authenticates a citizen and issues a session token. The token also
// travels in the response header so clients can pick it up without parsing
// the body.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	account, token, exp, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Set(h.tokenHeader, token)
	return respond(c, fiber.StatusOK, "Inicio de sesión exitoso.", fiber.Map{
		"usuario": account.Public(),
		"auth":    dto.AuthData{Token: token, ExpiresAt: exp},
	})
}

// PasswordRecovery starts a password reset by email or cedula.
func (h *AuthHandler) PasswordRecovery(c *fiber.Ctx) error {
	var req dto.PasswordRecoveryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.accounts.RequestPasswordReset(c.UserContext(), req.Email, req.Cedula); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Se ha enviado un correo electrónico para restablecer la contraseña", nil)
}

// NewPassword completes a password reset with the emailed token.
func (h *AuthHandler) NewPassword(c *fiber.Ctx) error {
	var req dto.NewPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.accounts.CompletePasswordReset(c.UserContext(), req.ResetToken, req.NewPassword); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Cambio de contraseña exitoso", nil)
}
