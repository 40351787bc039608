// Package utils provides general-purpose helper utilities used across
// different parts of the application: context keys, password hashing,
// JWT token generation and validation, and HTTP response writing.
package utils

import (
	"context"

	"github.com/vlebedev/go-task-manager/models"
)

// contextKey is a private type for context keys. Using a dedicated type
// instead of a plain string prevents key collisions with other packages.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// UserCtxKey is the key under which the authenticated *models.User is stored
// in the request context by the auth middleware.
var UserCtxKey = contextKey("user")

// TokenCtxKey is the key under which the raw bearer token of the current
// request is stored. Logout needs it to revoke exactly this session.
var TokenCtxKey = contextKey("token")

// GetUserFromContext retrieves the authenticated user from the context.
//
//	user, ok := utils.GetUserFromContext(ctx)
//	if !ok {
//	    // request was not authenticated
//	}
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*models.User)
	return user, ok
}

// GetTokenFromContext retrieves the raw bearer token of the current request
// from the context.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenCtxKey).(string)
	return token, ok
}
