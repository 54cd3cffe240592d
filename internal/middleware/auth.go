package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/httpx"
	"github.com/inkwell-dev/inkwell/internal/store"
	"github.com/inkwell-dev/inkwell/internal/types"
)

// AuthenticatedUser is what guarded handlers see on the request context.
type AuthenticatedUser struct {
	ID           uint
	Name         string
	Email        string
	AuthProvider string
	IsVerified   bool
	CreatedAt    time.Time
}

// AuthGuard resolves the bearer token to a verified user before any
// protected handler runs.
type AuthGuard struct {
	tokens *auth.TokenService
	users  *store.UserStore
}

func NewAuthGuard(tokens *auth.TokenService, users *store.UserStore) *AuthGuard {
	return &AuthGuard{
		tokens: tokens,
		users:  users,
	}
}

func (g *AuthGuard) RequireUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			httpx.Abort(ctx, httpx.KindUnauthorized.HTTPStatus(), "Access token required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.Abort(ctx, httpx.KindUnauthorized.HTTPStatus(), "Authorization header format must be Bearer {token}")
			return
		}

		userID, err := g.tokens.Verify(parts[1])

		if err != nil {
			httpx.Abort(ctx, httpx.KindUnauthorized.HTTPStatus(), "Invalid or expired token")
			return
		}

		user, err := g.users.ByID(ctx.Request.Context(), userID)

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.Abort(ctx, httpx.KindNotFound.HTTPStatus(), "User not found")
			} else {
				httpx.Abort(ctx, httpx.KindInternal.HTTPStatus(), "Authentication error")
			}
			return
		}

		if !user.IsVerified {
			httpx.Abort(ctx, httpx.KindForbidden.HTTPStatus(), "Please verify your email address first")
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			AuthProvider: user.AuthProvider,
			IsVerified:   user.IsVerified,
			CreatedAt:    user.CreatedAt,
		})
		ctx.Next()
	}
}
