package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/repository"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	Account     *domain.Account
	Admin       *domain.Admin
}

// CredentialExtractor pulls the raw bearer credential out of a request. The
// source historically switched between an Authorization Bearer header and
// custom headers, so the strategy is selected once by configuration.
type CredentialExtractor func(c *fiber.Ctx) (string, error)

// BearerExtractor reads "Authorization: Bearer <token>".
func BearerExtractor(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", apperrors.NewUnauthorized("Acceso denegado. No se proporcionó token.")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.NewUnauthorized("Formato de token inválido.")
	}
	return parts[1], nil
}

// HeaderExtractor reads the token verbatim from a named header such as
// "auth-token".
func HeaderExtractor(name string) CredentialExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Get(name)
		if token == "" {
			return "", apperrors.NewUnauthorized("Acceso denegado. No se proporcionó token.")
		}
		return token, nil
	}
}

// NewCredentialExtractor selects the strategy for the configured header name.
func NewCredentialExtractor(headerName string) CredentialExtractor {
	if headerName == "" || strings.EqualFold(headerName, "Authorization") {
		return BearerExtractor
	}
	return HeaderExtractor(headerName)
}

// Middleware validates tokens and loads principals.
type Middleware struct {
	tokens   *TokenManager
	extract  CredentialExtractor
	accounts repository.AccountRepository
	admins   repository.AdminRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, extract CredentialExtractor, accounts repository.AccountRepository, admins repository.AdminRepository) *Middleware {
	return &Middleware{tokens: tokens, extract: extract, accounts: accounts, admins: admins}
}

// RequireUser enforces a citizen session token and loads the account.
func (m *Middleware) RequireUser(c *fiber.Ctx) error {
	claims, err := m.verify(c, KindSession)
	if err != nil {
		return err
	}

	account, err := m.accounts.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("Usuario no encontrado")
		}
		return apperrors.MapError(err)
	}
	if account.IsDeleted {
		return apperrors.NewUnauthorized("Usuario no encontrado")
	}
	if account.IsBlocked {
		return apperrors.NewForbidden("El usuario está bloqueado")
	}

	c.Locals(principalKey, &Principal{SubjectType: domain.SubjectTypeUser, Account: account})
	return c.Next()
}

// RequireAdmin enforces an admin token and loads the admin record.
func (m *Middleware) RequireAdmin(c *fiber.Ctx) error {
	claims, err := m.verify(c, KindAdmin)
	if err != nil {
		return err
	}

	admin, err := m.admins.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("Administrador no encontrado")
		}
		return apperrors.MapError(err)
	}
	if admin.IsDeleted {
		return apperrors.NewUnauthorized("Administrador no encontrado")
	}

	c.Locals(principalKey, &Principal{SubjectType: domain.SubjectTypeAdmin, Admin: admin})
	return c.Next()
}

func (m *Middleware) verify(c *fiber.Ctx, kind TokenKind) (*Claims, error) {
	token, err := m.extract(c)
	if err != nil {
		return nil, err
	}
	claims, err := m.tokens.Verify(kind, token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperrors.NewUnauthorized("Token expirado")
		}
		return nil, apperrors.NewUnauthorized("Token no es válido")
	}
	return claims, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
