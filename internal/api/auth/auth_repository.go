package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

// ErrUnknownCredentials covers both a missing account and a wrong
// password so login failures do not leak which one it was.
var ErrUnknownCredentials = errors.New("unknown email or password")

// ErrDuplicateAccount reports a username or email already in use.
var ErrDuplicateAccount = errors.New("username or email already registered")

// Session is a stored refresh-token grant.
type Session struct {
	ID           uuid.UUID
	UserID       int64
	RefreshToken uuid.UUID
	ExpiresAt    time.Time
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, string, error)
	GetUserByID(ctx context.Context, id int64) (*types.User, error)
	CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*Session, error)
	GetSessionByRefreshToken(ctx context.Context, refreshToken uuid.UUID) (*Session, error)
	RotateSession(ctx context.Context, sessionID uuid.UUID, ttl time.Duration) (*Session, error)
	DeleteSessionsForUser(ctx context.Context, userID int64) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *RepositoryImpl) CreateUser(ctx context.Context, username, email, passwordHash string) (*types.User, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check account: %w", err)
	}
	if exists {
		return nil, ErrDuplicateAccount
	}

	var u types.User
	err = r.pgpool.QueryRow(ctx, `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, username, email, role, created_at`,
		username, email, passwordHash,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

func (r *RepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*types.User, string, error) {
	var u types.User
	var passwordHash string
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, username, email, role, created_at, password_hash
        FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrUnknownCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}
	return &u, passwordHash, nil
}

func (r *RepositoryImpl) GetUserByID(ctx context.Context, id int64) (*types.User, error) {
	var u types.User
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, username, email, role, created_at
        FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (r *RepositoryImpl) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*Session, error) {
	s := Session{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: uuid.New(),
		ExpiresAt:    time.Now().Add(ttl),
	}
	_, err := r.pgpool.Exec(ctx, `
        INSERT INTO sessions (id, user_id, refresh_token, expires_at)
        VALUES ($1, $2, $3, $4)`,
		s.ID, s.UserID, s.RefreshToken, s.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &s, nil
}

func (r *RepositoryImpl) GetSessionByRefreshToken(ctx context.Context, refreshToken uuid.UUID) (*Session, error) {
	var s Session
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, user_id, refresh_token, expires_at
        FROM sessions WHERE refresh_token = $1`, refreshToken,
	).Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// RotateSession issues a fresh refresh token for an existing session,
// invalidating the one just presented.
func (r *RepositoryImpl) RotateSession(ctx context.Context, sessionID uuid.UUID, ttl time.Duration) (*Session, error) {
	var s Session
	err := r.pgpool.QueryRow(ctx, `
        UPDATE sessions SET refresh_token = $2, expires_at = $3
        WHERE id = $1
        RETURNING id, user_id, refresh_token, expires_at`,
		sessionID, uuid.New(), time.Now().Add(ttl),
	).Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}
	return &s, nil
}

func (r *RepositoryImpl) DeleteSessionsForUser(ctx context.Context, userID int64) error {
	if _, err := r.pgpool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete sessions for user %d: %w", userID, err)
	}
	return nil
}
