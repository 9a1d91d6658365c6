package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/denuncia-service/internal/auth"
	"github.com/spec-kit/denuncia-service/internal/config"
	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/events"
	"github.com/spec-kit/denuncia-service/internal/mail"
	"github.com/spec-kit/denuncia-service/internal/repository"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

// AccountService coordinates the citizen account lifecycle: registration,
// email verification, login, password reset and block/unblock.
type AccountService struct {
	accounts    repository.AccountRepository
	tokens      *auth.TokenManager
	mailer      mail.Mailer
	dispatcher  events.Dispatcher
	bcryptCost  int
	frontendURL string
	mailTimeout time.Duration
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Tokens      *auth.TokenManager
	Mailer      mail.Mailer
	Dispatcher  events.Dispatcher
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	FullName string
	Cedula   string
	Phone    string
	Email    string
	Password string
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:    deps.AccountRepo,
		tokens:      deps.Tokens,
		mailer:      deps.Mailer,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
		frontendURL: cfg.App.FrontendBaseURL,
		mailTimeout: cfg.Mail.Timeout(),
	}
}

// Register creates a new unverified account and emails the verification link.
// The duplicate pre-checks give each field its own message; the unique indexes
// remain the actual guarantee under concurrent registration.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if err := s.checkDuplicates(ctx, input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	verificationToken := auth.NewVerificationToken()
	account := &domain.Account{
		FullName:          input.FullName,
		Cedula:            input.Cedula,
		Phone:             input.Phone,
		Email:             input.Email,
		PasswordHash:      hash,
		VerificationToken: &verificationToken,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateField("account", "El email, teléfono o cédula ya está registrado")
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.sendVerificationEmail(ctx, account, verificationToken); err != nil {
		// No partial success: a registration whose verification mail never
		// went out is rolled back so the citizen can retry.
		_ = s.accounts.Delete(ctx, account.ID)
		return nil, apperrors.NewDependencyUnavailable("Error al enviar el correo de verificación", err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		SubjectID: account.ID,
		Actor:     userActor(account.ID),
		Payload: events.AccountRegisteredPayload{
			Email:    account.Email,
			FullName: account.FullName,
		},
	})
	return account, nil
}

func (s *AccountService) checkDuplicates(ctx context.Context, input RegisterInput) error {
	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return apperrors.NewDuplicateField("email", "Email ya registrado")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	if _, err := s.accounts.GetByPhone(ctx, input.Phone); err == nil {
		return apperrors.NewDuplicateField("numTelefono", "Numero telefonico ya registrado")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	if _, err := s.accounts.GetByCedula(ctx, input.Cedula); err == nil {
		return apperrors.NewDuplicateField("cedula", "Cedula ya registrada")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AccountService) sendVerificationEmail(ctx context.Context, account *domain.Account, token string) error {
	url := fmt.Sprintf("%s/auth/verifyUser/%s", s.frontendURL, token)
	body, err := mail.VerificationEmail(account.FullName, url)
	if err != nil {
		return err
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	return s.mailer.Send(sendCtx, account.Email, "Verificación de cuenta", body)
}

// VerifyAccount consumes a verification token. Consuming clears the stored
// value, so a second call with the same token fails the lookup: single use.
func (s *AccountService) VerifyAccount(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.NewValidationError("Token de verificación no proporcionado", nil)
	}

	account, err := s.accounts.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Token inválido o expirado")
		}
		return apperrors.MapError(err)
	}

	account.IsVerified = true
	account.VerificationToken = nil
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountVerified,
		SubjectID: account.ID,
		Actor:     userActor(account.ID),
	})
	return nil
}

// Login authenticates a citizen. Every gate is enforced before a session
// token is issued: existence, block flag, verification, credentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewNotFound("Usuario no encontrado")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if account.IsDeleted {
		return nil, "", time.Time{}, apperrors.NewNotFound("Usuario no encontrado")
	}
	if account.IsBlocked {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("El usuario está bloqueado. No puede iniciar sesion")
	}
	if !account.IsVerified {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("El usuario no está verificado")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("Contraseña no válida", nil)
	}

	token, exp, err := s.tokens.Issue(auth.KindSession, account.ID, account.FullName)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// RequestPasswordReset issues a reset token, mirrors it on the account and
// emails the reset link. The raw token travels only in the email.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email, cedula string) error {
	var (
		account *domain.Account
		err     error
	)
	switch {
	case email != "":
		account, err = s.accounts.GetByEmail(ctx, email)
	case cedula != "":
		account, err = s.accounts.GetByCedula(ctx, cedula)
	default:
		return apperrors.NewValidationError("Debe proporcionar el email o la cédula", nil)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Usuario no encontrado")
		}
		return apperrors.MapError(err)
	}

	token, _, err := s.tokens.Issue(auth.KindReset, account.ID, "")
	if err != nil {
		return apperrors.MapError(err)
	}
	account.ResetToken = &token
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.MapError(err)
	}

	if err := s.sendPasswordResetEmail(ctx, account, token); err != nil {
		account.ResetToken = nil
		_ = s.accounts.Update(ctx, account)
		return apperrors.NewDependencyUnavailable("Error al enviar el correo de recuperación", err)
	}
	return nil
}

func (s *AccountService) sendPasswordResetEmail(ctx context.Context, account *domain.Account, token string) error {
	url := fmt.Sprintf("%s/auth/newPassword/%s", s.frontendURL, token)
	body, err := mail.PasswordResetEmail(account.FullName, url)
	if err != nil {
		return err
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	return s.mailer.Send(sendCtx, account.Email, "Recuperación de contraseña", body)
}

// CompletePasswordReset consumes a reset token and stores the new password.
// The mirrored token must match the presented one and is cleared afterwards,
// so a consumed token cannot be replayed even inside its signature window.
func (s *AccountService) CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.Verify(auth.KindReset, resetToken)
	if err != nil {
		return apperrors.NewUnauthorized("Token inválido o expirado")
	}

	account, err := s.accounts.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Usuario no encontrado")
		}
		return apperrors.MapError(err)
	}
	if newPassword == "" {
		return apperrors.NewValidationError("La nueva contraseña no puede estar vacía", nil)
	}
	if account.ResetToken == nil || *account.ResetToken != resetToken {
		return apperrors.NewUnauthorized("Token inválido o expirado")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	account.PasswordHash = hash
	account.ResetToken = nil
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// SetBlockedStatus blocks or unblocks an account. Admin only; the handler
// guards the route.
func (s *AccountService) SetBlockedStatus(ctx context.Context, adminID, accountID string, blocked bool) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Usuario no encontrado")
		}
		return nil, apperrors.MapError(err)
	}

	account.IsBlocked = blocked
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountBlockChanged,
		SubjectID: account.ID,
		Actor:     adminActor(adminID),
		Payload:   events.AccountBlockChangedPayload{Blocked: blocked},
	})
	return account, nil
}

// GetAccount loads one account for the admin detail view.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Usuario no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// ListAccounts returns all non-deleted accounts for the admin views.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func userActor(accountID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeUser, AccountID: &accountID}
}

func adminActor(adminID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeAdmin, AdminID: &adminID}
}
