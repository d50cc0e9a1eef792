package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wefit-app/wefit-backend/internal/api/auth"
	"github.com/wefit-app/wefit-backend/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user queries beyond authentication.
type UserRepo interface {
	// ListEmails returns the email of every user, oldest first.
	ListEmails(ctx context.Context) ([]types.UserEmail, error)

	// GetUserByID retrieves a user's profile by their ID.
	// Returns types.ErrNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, userID int64) (*types.UserAuth, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool auth.PGXPool
}

func NewPostgresUserRepo(pgpool auth.PGXPool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresUserRepo) ListEmails(ctx context.Context) ([]types.UserEmail, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "ListEmails", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `SELECT email FROM users ORDER BY id`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list user emails", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing users: %w", err)
	}
	defer rows.Close()

	emails := make([]types.UserEmail, 0)
	for rows.Next() {
		var e types.UserEmail
		if err := rows.Scan(&e.Email); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning user email: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("database error reading users: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result.count", len(emails)))
	span.SetStatus(codes.Ok, "Emails listed")
	return emails, nil
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID int64) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.Int64("db.user.id", userID),
	))
	defer span.End()

	var user types.UserAuth
	query := `
        SELECT id, username, email, created_at, updated_at
        FROM users
        WHERE id = $1`

	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %d: %w", userID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query user by id", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User found")
	return &user, nil
}
