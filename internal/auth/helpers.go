package auth

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes at the handler boundary.
var (
	ErrUnauthenticated  = errors.New("user not authenticated")
	ErrPermissionDenied = errors.New("cannot access another user's resources")
)

// RequireAuth extracts user claims from context or returns ErrUnauthenticated.
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// RequireUserAccess verifies the authenticated user matches the requested
// user ID. An empty requested ID falls back to the caller's own UID.
func RequireUserAccess(ctx context.Context, requestedUserID string) (*UserClaims, error) {
	claims, err := RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if requestedUserID != "" && requestedUserID != claims.UID {
		return nil, fmt.Errorf("%w: requested %s", ErrPermissionDenied, requestedUserID)
	}
	return claims, nil
}
