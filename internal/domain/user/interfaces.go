package user

import "context"

// Repository provides persistence for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
}

// TokenRepository stores hashed API tokens.
type TokenRepository interface {
	CreateToken(ctx context.Context, userID, tokenHash string) error
	ResolveToken(ctx context.Context, tokenHash string) (string, error)
}
