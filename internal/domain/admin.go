package domain

import "time"

// Admin is the domain model for administrators. Admins are created through the
// addAdmin flow with a shared secret word and moderate denuncias and accounts.
type Admin struct {
	ID             string
	FullName       string
	Email          string
	PasswordHash   string
	SecretWordHash string
	IsVerified     bool
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicAdmin is the client-safe projection.
type PublicAdmin struct {
	ID         string    `json:"id"`
	FullName   string    `json:"nombreCompleto"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public returns the client-safe projection of the admin.
func (a *Admin) Public() PublicAdmin {
	return PublicAdmin{
		ID:         a.ID,
		FullName:   a.FullName,
		Email:      a.Email,
		IsVerified: a.IsVerified,
		CreatedAt:  a.CreatedAt,
	}
}
