package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/testutil"
	"github.com/wealthfund/backend/pkg/xcontext"
)

func withToken(t *testing.T, ctx context.Context, id string, role entity.Role, expiration time.Duration) context.Context {
	token, err := xcontext.TokenEngine(ctx).Generate(expiration, model.AccessToken{ID: id, Role: string(role)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/getMe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return xcontext.WithHTTPRequest(ctx, req)
}

func TestAuthVerifier_Middleware(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	verifier := NewAuthVerifier(repository.NewUserRepository(), repository.NewAdminRepository())

	tests := []struct {
		name     string
		ctx      context.Context
		wantID   string
		wantRole string
		wantErr  error
	}{
		{
			name:     "user token",
			ctx:      withToken(t, ctx, testutil.User1.ID, entity.UserRole, time.Minute),
			wantID:   testutil.User1.ID,
			wantRole: string(entity.UserRole),
		},
		{
			name:     "admin token",
			ctx:      withToken(t, ctx, testutil.Admin1.ID, entity.AdminRole, time.Minute),
			wantID:   testutil.Admin1.ID,
			wantRole: string(entity.AdminRole),
		},
		{
			name:    "blocked user",
			ctx:     withToken(t, ctx, testutil.BlockedUser.ID, entity.UserRole, time.Minute),
			wantErr: errorx.New(errorx.AccountBlocked, "Your account has been blocked"),
		},
		{
			name:    "expired token",
			ctx:     withToken(t, ctx, testutil.User1.ID, entity.UserRole, -time.Minute),
			wantErr: errorx.New(errorx.TokenExpired, "Token expired"),
		},
		{
			name:    "user id with admin role",
			ctx:     withToken(t, ctx, testutil.User1.ID, entity.AdminRole, time.Minute),
			wantErr: errorx.New(errorx.Unauthenticated, "Admin not found"),
		},
		{
			name:    "unknown role",
			ctx:     withToken(t, ctx, testutil.User1.ID, entity.Role("root"), time.Minute),
			wantErr: errorx.New(errorx.Unauthenticated, "Invalid token"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Middleware()(tt.ctx)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantID, xcontext.RequestUserID(got))
			require.Equal(t, tt.wantRole, xcontext.RequestRole(got))
		})
	}
}

func TestAuthVerifier_ReadToken(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	verifier := NewAuthVerifier(repository.NewUserRepository(), repository.NewAdminRepository())

	// Anonymous requests pass through.
	got, err := verifier.Middleware()(xcontext.WithHTTPRequest(ctx, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = Authenticate()(ctx)
	require.Equal(t, errorx.New(errorx.Unauthenticated, "You need to authenticate before"), err)

	token, err := xcontext.TokenEngine(ctx).Generate(time.Minute,
		model.AccessToken{ID: testutil.User1.ID, Role: string(entity.UserRole)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	got, err = verifier.Middleware("access_token")(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, xcontext.RequestUserID(got))

	req = httptest.NewRequest(http.MethodGet, "/chat?token="+token, nil)
	got, err = verifier.Middleware()(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, xcontext.RequestUserID(got))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	_, err = verifier.Middleware()(xcontext.WithHTTPRequest(ctx, req))
	require.Equal(t, errorx.New(errorx.Unauthenticated, "Invalid token"), err)
}

func TestOnlyAdmin(t *testing.T) {
	ctx := testutil.MockContext()

	_, err := NewOnlyAdmin().Middleware()(testutil.MockContextWithUserID(ctx, testutil.User1.ID))
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	_, err = NewOnlyAdmin().Middleware()(testutil.MockContextWithAdmin(ctx))
	require.NoError(t, err)
}
