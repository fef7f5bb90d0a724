package service

import (
	"context"
	"errors"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
)

// ErrInvalidToken is returned when an access token does not resolve to a caller
var ErrInvalidToken = errors.New("invalid access token")

// IdentityProvider resolves the caller behind a request's credentials
type IdentityProvider interface {
	// ResolveToken returns the caller owning a bearer token
	ResolveToken(ctx context.Context, token string) (*entity.Caller, error)
}
