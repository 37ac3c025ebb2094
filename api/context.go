package api

import (
	"context"
	"errors"

	"github.com/makerhub/project-editor-backend/models"
)

type keyType string

const (
	userKey  keyType = "user"
	tokenKey keyType = "token"
)

// ctxWithIdentity attaches the authenticated user and their raw bearer token
// to the context. The token is forwarded unchanged on platform API calls.
func ctxWithIdentity(ctx context.Context, user models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// ctxGetUser retrieves the authenticated user from the context.
func ctxGetUser(ctx context.Context) (models.User, error) {
	value := ctx.Value(userKey)
	if value == nil {
		return models.User{}, errors.New("user not found in context")
	}
	user, ok := value.(models.User)
	if !ok {
		return models.User{}, errors.New("context user has unexpected type")
	}
	return user, nil
}

// ctxGetToken retrieves the raw bearer token from the context.
func ctxGetToken(ctx context.Context) string {
	if value, ok := ctx.Value(tokenKey).(string); ok {
		return value
	}
	return ""
}
