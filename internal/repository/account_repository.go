package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/denuncia-service/internal/domain"
)

// AccountRepository defines persistence access for citizen accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByCedula(ctx context.Context, cedula string) (*domain.Account, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Account, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	AdjustReportCount(ctx context.Context, id string, delta int) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `
        id, full_name, cedula, phone, email, password_hash,
        is_verified, is_blocked, is_deleted, verification_token, reset_token,
        num_reports, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (full_name, cedula, phone, email, password_hash, verification_token)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.FullName,
		account.Cedula,
		account.Phone,
		account.Email,
		account.PasswordHash,
		account.VerificationToken,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts
        SET full_name=$1, phone=$2, email=$3, password_hash=$4,
            is_verified=$5, is_blocked=$6, is_deleted=$7,
            verification_token=$8, reset_token=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		account.FullName,
		account.Phone,
		account.Email,
		account.PasswordHash,
		account.IsVerified,
		account.IsBlocked,
		account.IsDeleted,
		account.VerificationToken,
		account.ResetToken,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete physically removes a row. Only the register rollback path uses it;
// everything else soft-deletes through Update.
func (r *accountRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getBy(ctx, "id", id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(ctx, "email", email)
}

func (r *accountRepository) GetByCedula(ctx context.Context, cedula string) (*domain.Account, error) {
	return r.getBy(ctx, "cedula", cedula)
}

func (r *accountRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	return r.getBy(ctx, "phone", phone)
}

func (r *accountRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.Account, error) {
	return r.getBy(ctx, "verification_token", token)
}

func (r *accountRepository) getBy(ctx context.Context, column, value string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + column + `=$1`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, value).Scan(
		&account.ID,
		&account.FullName,
		&account.Cedula,
		&account.Phone,
		&account.Email,
		&account.PasswordHash,
		&account.IsVerified,
		&account.IsBlocked,
		&account.IsDeleted,
		&account.VerificationToken,
		&account.ResetToken,
		&account.NumReports,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE NOT is_deleted ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.FullName,
			&account.Cedula,
			&account.Phone,
			&account.Email,
			&account.PasswordHash,
			&account.IsVerified,
			&account.IsBlocked,
			&account.IsDeleted,
			&account.VerificationToken,
			&account.ResetToken,
			&account.NumReports,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) AdjustReportCount(ctx context.Context, id string, delta int) error {
	const query = `
        UPDATE accounts
        SET num_reports = GREATEST(num_reports + $1, 0), updated_at = NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
