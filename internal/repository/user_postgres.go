package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medcare/internal/domain"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

const userColumns = `id, name, email, phone, address, date_of_birth, gender, password_hash, role, profile_image, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Address,
		&user.DateOfBirth,
		&user.Gender,
		&user.PasswordHash,
		&user.Role,
		&user.ProfileImage,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a bare account. Doctors and patients are created through
// their own repositories so the profile row is written with the account.
func (r *UserRepo) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	id, err := insertUser(ctx, tx, dto)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return id, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return user, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	var b setBuilder
	b.set("password_hash", passwordHash)
	return b.exec(ctx, r.db, "users", "id", id)
}

func (r *UserRepo) UpdateProfileImage(ctx context.Context, id int64, imageURL string) error {
	var b setBuilder
	b.set("profile_image", imageURL)
	return b.exec(ctx, r.db, "users", "id", id)
}

func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE users SET is_active = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
