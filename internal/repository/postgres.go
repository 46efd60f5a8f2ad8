package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"medcare/internal/domain"
	"medcare/pkg/database"
)

const usersEmailConstraint = "users_email_key"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// queryBuilder collects WHERE conditions with numbered placeholders.
type queryBuilder struct {
	conditions []string
	args       []interface{}
}

func (b *queryBuilder) add(condition string, arg interface{}) {
	b.args = append(b.args, arg)
	b.conditions = append(b.conditions, fmt.Sprintf(condition, len(b.args)))
}

func (b *queryBuilder) where() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

// page appends LIMIT/OFFSET; a non-positive limit returns every row.
func (b *queryBuilder) page(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	b.args = append(b.args, limit, offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(b.args)-1, len(b.args))
}

// setBuilder collects "column = $n" assignments for partial updates.
type setBuilder struct {
	fields []string
	args   []interface{}
}

func (b *setBuilder) set(column string, value interface{}) {
	b.args = append(b.args, value)
	b.fields = append(b.fields, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.fields) == 0
}

// exec stamps updated_at and runs the update.
func (b *setBuilder) exec(ctx context.Context, q querier, table, key string, id int64) error {
	b.set("updated_at", time.Now())
	return b.execRaw(ctx, q, table, key, id)
}

// execRaw runs UPDATE table SET ... WHERE key = id and reports
// ErrNotFound when no row matched.
func (b *setBuilder) execRaw(ctx context.Context, q querier, table, key string, id int64) error {
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d", table, strings.Join(b.fields, ", "), key, len(args))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func insertUser(ctx context.Context, tx pgx.Tx, dto domain.CreateUserDTO) (int64, error) {
	query := `
		INSERT INTO users (name, email, phone, address, date_of_birth, gender, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $9)
		RETURNING id
	`

	var id int64
	err := tx.QueryRow(ctx, query,
		dto.Name,
		dto.Email,
		dto.Phone,
		dto.Address,
		dto.DateOfBirth,
		dto.Gender,
		dto.PasswordHash,
		dto.Role,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, usersEmailConstraint) {
			return 0, fmt.Errorf("user with email %s: %w", dto.Email, domain.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

func notFound(err error, entity string, id interface{}) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", entity, err)
}
