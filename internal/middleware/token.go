package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/wealthfund/backend/config"
	"github.com/wealthfund/backend/pkg/router"
	"github.com/wealthfund/backend/pkg/xcontext"
)

// AccessTokenResponse is implemented by responses carrying a new token, the
// token is also stored as a cookie for browser clients.
type AccessTokenResponse interface {
	AccessTokenInfo() string
}

// HandleSetAccessToken returns an after-middleware writing the token of the
// response into the cookie described by selectToken.
func HandleSetAccessToken(selectToken func(config.AuthConfigs) config.TokenConfigs) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		tokenResp, ok := xcontext.Response(ctx).(AccessTokenResponse)
		if !ok {
			return nil, nil
		}

		tokenCfg := selectToken(xcontext.Configs(ctx).Auth)
		http.SetCookie(xcontext.ResponseWriter(ctx), &http.Cookie{
			Name:     tokenCfg.Name,
			Value:    tokenResp.AccessTokenInfo(),
			Path:     "/",
			Expires:  time.Now().Add(tokenCfg.Expiration),
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		return nil, nil
	}
}
