package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/denuncia-service/internal/domain"
)

// AdminRepository defines persistence access for administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	Update(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `
        id, full_name, email, password_hash, secret_word_hash,
        is_verified, is_deleted, created_at, updated_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (full_name, email, password_hash, secret_word_hash, is_verified)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		admin.FullName,
		admin.Email,
		admin.PasswordHash,
		admin.SecretWordHash,
		admin.IsVerified,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	const query = `
        UPDATE admins
        SET full_name=$1, email=$2, password_hash=$3,
            is_verified=$4, is_deleted=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		admin.FullName,
		admin.Email,
		admin.PasswordHash,
		admin.IsVerified,
		admin.IsDeleted,
		admin.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.getBy(ctx, "id", id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.getBy(ctx, "email", email)
}

func (r *adminRepository) getBy(ctx context.Context, column, value string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE ` + column + `=$1`

	var admin domain.Admin
	if err := r.pool.QueryRow(ctx, query, value).Scan(
		&admin.ID,
		&admin.FullName,
		&admin.Email,
		&admin.PasswordHash,
		&admin.SecretWordHash,
		&admin.IsVerified,
		&admin.IsDeleted,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
