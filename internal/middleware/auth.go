package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/router"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// AuthVerifier resolves the caller from the Authorization bearer token, or
// from one of the given cookies when the header is missing.
type AuthVerifier struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
}

func NewAuthVerifier(userRepo repository.UserRepository, adminRepo repository.AdminRepository) *AuthVerifier {
	return &AuthVerifier{userRepo: userRepo, adminRepo: adminRepo}
}

// Middleware binds the request user id and role to the context. Anonymous
// requests pass through, use Authenticate to reject them.
func (a *AuthVerifier) Middleware(cookieNames ...string) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := readToken(ctx, cookieNames)
		if token == "" {
			return nil, nil
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, errorx.New(errorx.TokenExpired, "Token expired")
			}

			return nil, errorx.New(errorx.Unauthenticated, "Invalid token")
		}

		switch entity.Role(accessToken.Role) {
		case entity.UserRole:
			user, err := a.userRepo.GetByID(ctx, accessToken.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, errorx.New(errorx.Unauthenticated, "User not found")
				}

				xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
				return nil, errorx.Unknown
			}

			if !user.IsActive {
				return nil, errorx.New(errorx.AccountBlocked, "Your account has been blocked")
			}

		case entity.AdminRole:
			if _, err := a.adminRepo.GetByID(ctx, accessToken.ID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, errorx.New(errorx.Unauthenticated, "Admin not found")
				}

				xcontext.Logger(ctx).Errorf("Cannot get admin: %v", err)
				return nil, errorx.Unknown
			}

		default:
			return nil, errorx.New(errorx.Unauthenticated, "Invalid token")
		}

		ctx = xcontext.WithRequestUserID(ctx, accessToken.ID)
		ctx = xcontext.WithRequestRole(ctx, accessToken.Role)
		return ctx, nil
	}
}

func readToken(ctx context.Context, cookieNames []string) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if auth := req.Header.Get("Authorization"); auth != "" {
		token, found := strings.CutPrefix(auth, "Bearer ")
		if found {
			return strings.TrimSpace(token)
		}
	}

	for _, name := range cookieNames {
		if cookie, err := req.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	// Browsers cannot set headers on websocket handshakes.
	return req.URL.Query().Get("token")
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}
