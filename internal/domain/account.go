package domain

import "time"

// Account is the domain model for citizens who file denuncias.
//
// Exactly one of {unverified with VerificationToken, verified without it} holds
// at any time; a completed password reset clears ResetToken.
type Account struct {
	ID                string
	FullName          string
	Cedula            string
	Phone             string
	Email             string
	PasswordHash      string
	IsVerified        bool
	IsBlocked         bool
	IsDeleted         bool
	VerificationToken *string
	ResetToken        *string
	NumReports        int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicAccount is the client-safe projection: never the password hash, never
// the ephemeral tokens.
type PublicAccount struct {
	ID         string    `json:"id"`
	FullName   string    `json:"nombreCompleto"`
	Cedula     string    `json:"cedula"`
	Phone      string    `json:"numTelefono"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	IsBlocked  bool      `json:"isBlocked"`
	NumReports int       `json:"numDenunciasRealizadas"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public returns the client-safe projection of the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:         a.ID,
		FullName:   a.FullName,
		Cedula:     a.Cedula,
		Phone:      a.Phone,
		Email:      a.Email,
		IsVerified: a.IsVerified,
		IsBlocked:  a.IsBlocked,
		NumReports: a.NumReports,
		CreatedAt:  a.CreatedAt,
	}
}
