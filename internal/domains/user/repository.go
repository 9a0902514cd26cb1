package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bookstore-api/internal/shared/repository"
	"bookstore-api/pkg/database"
)

// Repository stores identities and their role membership.
type Repository interface {
	// Create inserts the user and its roles atomically and assigns u.ID.
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	// AddRole grants role to the user; granting an existing role is a no-op.
	AddRole(ctx context.Context, userID int64, role string) error
}

const (
	usersTable     = "users"
	userRolesTable = "user_roles"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresRepository struct {
	db repository.DB
}

func NewRepository(db repository.DB) Repository {
	return &postgresRepository{db: db}
}

// normalizeEmail makes lookups case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func insertUser(u *User) sq.InsertBuilder {
	return qb.Insert(usersTable).
		Columns("email", "password_hash").
		Values(normalizeEmail(u.Email), u.PasswordHash).
		Suffix("RETURNING id, created_at")
}

func insertRole(userID int64, role string) sq.InsertBuilder {
	return qb.Insert(userRolesTable).
		Columns("user_id", "role").
		Values(userID, role).
		Suffix("ON CONFLICT (user_id, role) DO NOTHING")
}

func selectByEmail(email string) sq.SelectBuilder {
	return qb.Select("u.id", "u.email", "u.password_hash", "u.created_at",
		"COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')").
		From(usersTable + " u").
		LeftJoin(userRolesTable + " r ON r.user_id = u.id").
		Where(sq.Eq{"u.email": normalizeEmail(email)}).
		GroupBy("u.id")
}

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query, args, err := insertUser(u).ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
			return err
		}

		for _, role := range u.Roles {
			query, args, err := insertRole(u.ID, role).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return err
			}
		}
		return nil
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query, args, err := selectByEmail(email).ToSql()
	if err != nil {
		return nil, err
	}

	var u User
	err = r.db.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.Roles)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) AddRole(ctx context.Context, userID int64, role string) error {
	query, args, err := insertRole(userID, role).ToSql()
	if err != nil {
		return err
	}

	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("add role %s to user %d: %w", role, userID, err)
		}
		return nil
	})
}
