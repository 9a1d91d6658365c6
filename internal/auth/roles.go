package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/denuncia-service/internal/domain"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

// AccountFromContext returns the authenticated citizen account.
func AccountFromContext(c *fiber.Ctx) (*domain.Account, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeUser || principal.Account == nil {
		return nil, apperrors.NewUnauthorized("Se requiere una sesión de usuario")
	}
	return principal.Account, nil
}

// AdminFromContext returns the authenticated admin.
func AdminFromContext(c *fiber.Ctx) (*domain.Admin, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeAdmin || principal.Admin == nil {
		return nil, apperrors.NewUnauthorized("Se requiere una sesión de administrador")
	}
	return principal.Admin, nil
}
