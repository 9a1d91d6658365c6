package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/denuncia-service/internal/config"
	"github.com/spec-kit/denuncia-service/internal/domain"
)

// TokenKind selects which signed-token class to issue or verify. Each kind
// carries its own secret and TTL.
type TokenKind string

const (
	KindSession TokenKind = "session"
	KindAdmin   TokenKind = "admin"
	KindReset   TokenKind = "reset"
)

// Parse failure classes. Expired is distinguished from malformed/signature
// errors where jwt/v5 can tell them apart.
var (
	ErrTokenExpired = errors.New("token expirado")
	ErrTokenInvalid = errors.New("token no es válido")
)

// TokenManager issues and validates the three JWT classes plus opaque
// verification tokens.
type TokenManager struct {
	secrets map[TokenKind][]byte
	ttls    map[TokenKind]time.Duration
}

// NewTokenManager builds a manager from the auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secrets: map[TokenKind][]byte{
			KindSession: []byte(cfg.SessionSecret),
			KindAdmin:   []byte(cfg.AdminSecret),
			KindReset:   []byte(cfg.ResetSecret),
		},
		ttls: map[TokenKind]time.Duration{
			KindSession: minutesOrDefault(cfg.SessionTokenTTLMinutes, 60),
			KindAdmin:   minutesOrDefault(cfg.AdminTokenTTLMinutes, 60),
			KindReset:   minutesOrDefault(cfg.ResetTokenTTLMinutes, 60),
		},
	}
}

func minutesOrDefault(minutes, fallback int) time.Duration {
	if minutes <= 0 {
		minutes = fallback
	}
	return time.Duration(minutes) * time.Minute
}

// Claims describes the JWT payload shared by all signed kinds.
type Claims struct {
	SubjectID string             `json:"sub"`
	Name      string             `json:"name,omitempty"`
	Subject   domain.SubjectType `json:"subject"`
	Kind      TokenKind          `json:"kind"`
	jwt.RegisteredClaims
}

// Issue builds and signs a JWT of the given kind for the subject.
func (tm *TokenManager) Issue(kind TokenKind, subjectID, name string) (string, time.Time, error) {
	secret, ok := tm.secrets[kind]
	if !ok {
		return "", time.Time{}, ErrTokenInvalid
	}
	subject := domain.SubjectTypeUser
	if kind == KindAdmin {
		subject = domain.SubjectTypeAdmin
	}
	expiresAt := time.Now().Add(tm.ttls[kind])
	claims := &Claims{
		SubjectID: subjectID,
		Name:      name,
		Subject:   subject,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates a JWT against the secret of the given kind and returns its
// claims. A token signed for another kind fails even when the secrets match.
func (tm *TokenManager) Verify(kind TokenKind, tokenStr string) (*Claims, error) {
	secret, ok := tm.secrets[kind]
	if !ok {
		return nil, ErrTokenInvalid
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Kind != kind {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// NewVerificationToken returns the opaque single-use token stored on the
// account at registration.
func NewVerificationToken() string {
	return uuid.NewString()
}
