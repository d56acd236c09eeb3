package sqlite

import (
	"context"
	"time"

	"github.com/rpggio/retroboard/internal/domain/user"
)

// UserRepository implements user.Repository and user.TokenRepository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, toMillis(u.CreatedAt),
	)
	if err != nil {
		return writeError("create user", err)
	}
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	var (
		u         user.User
		createdAt int64
	)
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &createdAt)
	if err != nil {
		return nil, readError("get user", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

// CreateToken stores a hashed API token for a user
func (r *UserRepository) CreateToken(ctx context.Context, userID, tokenHash string) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO api_tokens (token_hash, user_id, created_at) VALUES (?, ?, ?)`,
		tokenHash, userID, toMillis(time.Now()),
	)
	if err != nil {
		return writeError("create token", err)
	}
	return nil
}

// ResolveToken returns the user a hashed token belongs to
func (r *UserRepository) ResolveToken(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT user_id FROM api_tokens WHERE token_hash = ?`, tokenHash,
	).Scan(&userID)
	if err != nil {
		return "", readError("resolve token", err)
	}
	return userID, nil
}
