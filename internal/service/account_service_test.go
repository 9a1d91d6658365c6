package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/denuncia-service/internal/auth"
	"github.com/spec-kit/denuncia-service/internal/config"
	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/events"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{FrontendBaseURL: "http://localhost:5000"},
		Auth: config.AuthConfig{
			SessionSecret:          "session-secret",
			AdminSecret:            "admin-secret",
			ResetSecret:            "reset-secret",
			SessionTokenTTLMinutes: 60,
			AdminTokenTTLMinutes:   60,
			ResetTokenTTLMinutes:   60,
			BcryptCost:             4,
		},
		Mail: config.MailConfig{TimeoutSeconds: 1},
	}
}

type accountFixture struct {
	service    *AccountService
	repo       *fakeAccountRepo
	mailer     *fakeMailer
	dispatcher *recordingDispatcher
	tokens     *auth.TokenManager
}

func newAccountFixture() *accountFixture {
	cfg := testConfig()
	repo := newFakeAccountRepo()
	mailer := &fakeMailer{}
	dispatcher := &recordingDispatcher{}
	tokens := auth.NewTokenManager(cfg.Auth)
	svc := NewAccountService(cfg, AccountDependencies{
		AccountRepo: repo,
		Tokens:      tokens,
		Mailer:      mailer,
		Dispatcher:  dispatcher,
	})
	return &accountFixture{service: svc, repo: repo, mailer: mailer, dispatcher: dispatcher, tokens: tokens}
}

func registerInput() RegisterInput {
	return RegisterInput{
		FullName: "Juan Perez",
		Cedula:   "1104567890",
		Phone:    "0991234567",
		Email:    "juan@example.com",
		Password: "clave123",
	}
}

func requireDomainError(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, status, domainErr.HTTPStatus)
	return domainErr
}

func TestRegisterSendsVerificationEmail(t *testing.T) {
	f := newAccountFixture()

	account, err := f.service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotNil(t, account)

	assert.False(t, account.IsVerified)
	require.NotNil(t, account.VerificationToken)
	assert.NotEqual(t, "clave123", account.PasswordHash)

	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, "juan@example.com", mail.to)
	assert.Contains(t, mail.body, *account.VerificationToken)

	published := f.dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAccountRegistered, published[0].Type)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newAccountFixture()
	_, err := f.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	cases := []struct {
		name    string
		mutate  func(*RegisterInput)
		message string
	}{
		{"email", func(in *RegisterInput) { in.Cedula = "1104567891"; in.Phone = "0991234568" }, "Email ya registrado"},
		{"phone", func(in *RegisterInput) { in.Email = "otro@example.com"; in.Cedula = "1104567891" }, "Numero telefonico ya registrado"},
		{"cedula", func(in *RegisterInput) { in.Email = "otro@example.com"; in.Phone = "0991234568" }, "Cedula ya registrada"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := registerInput()
			tc.mutate(&input)
			_, err := f.service.Register(context.Background(), input)
			domainErr := requireDomainError(t, err, 400)
			assert.Equal(t, tc.message, domainErr.Message)
		})
	}
}

func TestRegisterRollsBackWhenMailFails(t *testing.T) {
	f := newAccountFixture()
	f.mailer.failWith = errors.New("smtp down")

	_, err := f.service.Register(context.Background(), registerInput())
	requireDomainError(t, err, 500)

	_, err = f.repo.GetByEmail(context.Background(), "juan@example.com")
	assert.Error(t, err)
	assert.Empty(t, f.dispatcher.published())
}

func TestVerifyAccountIsSingleUse(t *testing.T) {
	f := newAccountFixture()
	account, err := f.service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	token := *account.VerificationToken

	require.NoError(t, f.service.VerifyAccount(context.Background(), token))

	stored, err := f.repo.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.VerificationToken)

	err = f.service.VerifyAccount(context.Background(), token)
	requireDomainError(t, err, 404)
}

func TestVerifyAccountRequiresToken(t *testing.T) {
	f := newAccountFixture()
	err := f.service.VerifyAccount(context.Background(), "")
	requireDomainError(t, err, 400)
}

func (f *accountFixture) seedVerified(t *testing.T) *domain.Account {
	t.Helper()
	account, err := f.service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NoError(t, f.service.VerifyAccount(context.Background(), *account.VerificationToken))
	return account
}

func TestLoginGates(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		f := newAccountFixture()
		_, _, _, err := f.service.Login(ctx, "nadie@example.com", "clave123")
		domainErr := requireDomainError(t, err, 404)
		assert.Equal(t, "Usuario no encontrado", domainErr.Message)
	})

	t.Run("blocked", func(t *testing.T) {
		f := newAccountFixture()
		account := f.seedVerified(t)
		stored, _ := f.repo.GetByID(ctx, account.ID)
		stored.IsBlocked = true
		require.NoError(t, f.repo.Update(ctx, stored))

		_, _, _, err := f.service.Login(ctx, "juan@example.com", "clave123")
		domainErr := requireDomainError(t, err, 401)
		assert.Equal(t, "El usuario está bloqueado. No puede iniciar sesion", domainErr.Message)
	})

	t.Run("unverified", func(t *testing.T) {
		f := newAccountFixture()
		_, err := f.service.Register(ctx, registerInput())
		require.NoError(t, err)

		_, _, _, err = f.service.Login(ctx, "juan@example.com", "clave123")
		domainErr := requireDomainError(t, err, 401)
		assert.Equal(t, "El usuario no está verificado", domainErr.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAccountFixture()
		f.seedVerified(t)

		_, _, _, err := f.service.Login(ctx, "juan@example.com", "otra-clave")
		domainErr := requireDomainError(t, err, 400)
		assert.Equal(t, "Contraseña no válida", domainErr.Message)
	})

	t.Run("success issues session token", func(t *testing.T) {
		f := newAccountFixture()
		seeded := f.seedVerified(t)

		account, token, _, err := f.service.Login(ctx, "juan@example.com", "clave123")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, account.ID)

		claims, err := f.tokens.Verify(auth.KindSession, token)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, claims.SubjectID)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()
	account := f.seedVerified(t)

	require.NoError(t, f.service.RequestPasswordReset(ctx, "juan@example.com", ""))

	stored, err := f.repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.Len(t, f.mailer.sent, 2)
	assert.Contains(t, f.mailer.sent[1].body, *stored.ResetToken)

	require.NoError(t, f.service.CompletePasswordReset(ctx, *stored.ResetToken, "nueva456"))

	_, _, _, err = f.service.Login(ctx, "juan@example.com", "nueva456")
	assert.NoError(t, err)
	_, _, _, err = f.service.Login(ctx, "juan@example.com", "clave123")
	assert.Error(t, err)

	// The mirror is cleared on use, so the same token cannot be replayed.
	err = f.service.CompletePasswordReset(ctx, *stored.ResetToken, "otra789")
	requireDomainError(t, err, 401)
}

func TestPasswordResetByCedula(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()
	account := f.seedVerified(t)

	require.NoError(t, f.service.RequestPasswordReset(ctx, "", "1104567890"))
	stored, err := f.repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ResetToken)
}

func TestPasswordResetRequiresIdentifier(t *testing.T) {
	f := newAccountFixture()
	err := f.service.RequestPasswordReset(context.Background(), "", "")
	requireDomainError(t, err, 400)
}

func TestPasswordResetMailFailureClearsMirror(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()
	account := f.seedVerified(t)
	f.mailer.failWith = errors.New("smtp down")

	err := f.service.RequestPasswordReset(ctx, "juan@example.com", "")
	requireDomainError(t, err, 500)

	stored, err := f.repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ResetToken)
}

func TestCompletePasswordResetRejectsForeignToken(t *testing.T) {
	f := newAccountFixture()
	f.seedVerified(t)

	err := f.service.CompletePasswordReset(context.Background(), "no-es-un-token", "nueva456")
	requireDomainError(t, err, 401)
}

func TestSetBlockedStatus(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()
	account := f.seedVerified(t)

	blocked, err := f.service.SetBlockedStatus(ctx, "admin-1", account.ID, true)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	unblocked, err := f.service.SetBlockedStatus(ctx, "admin-1", account.ID, false)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)

	published := f.dispatcher.published()
	last := published[len(published)-1]
	assert.Equal(t, events.EventAccountBlockChanged, last.Type)
	assert.Equal(t, domain.SubjectTypeAdmin, last.Actor.Type)
}

func TestSetBlockedStatusUnknownAccount(t *testing.T) {
	f := newAccountFixture()
	_, err := f.service.SetBlockedStatus(context.Background(), "admin-1", "missing", true)
	requireDomainError(t, err, 404)
}
