package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/denuncia-service/internal/auth"
	"github.com/spec-kit/denuncia-service/internal/config"
	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/repository"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

// AdminService handles administrator authentication and management.
type AdminService struct {
	admins     repository.AdminRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAdminService builds the service.
func NewAdminService(cfg config.Config, admins repository.AdminRepository, tokens *auth.TokenManager) *AdminService {
	return &AdminService{admins: admins, tokens: tokens, bcryptCost: cfg.Auth.BcryptCost}
}

// Login authenticates an administrator and issues an admin session token.
// Deleted admins answer exactly like missing ones.
func (s *AdminService) Login(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Administrador no encontrado.")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if admin.IsDeleted {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Administrador no encontrado.")
	}
	if !admin.IsVerified {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Administrador no verificado.")
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Credenciales inválidas.")
	}

	token, exp, err := s.tokens.Issue(auth.KindAdmin, admin.ID, admin.FullName)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return admin, token, exp, nil
}

// AddAdminInput is the validated addAdmin payload.
type AddAdminInput struct {
	FullName   string
	Email      string
	Password   string
	SecretWord string
}

// AddAdmin creates a new administrator. Both the password and the shared
// secret word are stored hashed.
func (s *AdminService) AddAdmin(ctx context.Context, input AddAdminInput) (*domain.Admin, error) {
	if _, err := s.admins.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewDuplicateField("email", "Ya existe un administrador con ese correo electrónico.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	passwordHash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	secretHash, err := auth.HashPassword(input.SecretWord, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	admin := &domain.Admin{
		FullName:       input.FullName,
		Email:          input.Email,
		PasswordHash:   passwordHash,
		SecretWordHash: secretHash,
		IsVerified:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateField("email", "Ya existe un administrador con ese correo electrónico.")
		}
		return nil, apperrors.MapError(err)
	}
	return admin, nil
}
