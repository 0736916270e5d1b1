package authenticator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/pkg/authenticator"
)

type accessToken struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, accessToken{ID: "user1", Role: "user"})
	require.NoError(t, err)

	var info accessToken
	err = engine.Verify(token, &info)
	require.NoError(t, err)
	require.Equal(t, "user1", info.ID)
	require.Equal(t, "user", info.Role)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Nanosecond, accessToken{ID: "user1"})
	require.NoError(t, err)

	time.Sleep(time.Second)
	var info accessToken
	err = engine.Verify(token, &info)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := authenticator.NewTokenEngine("secret").Generate(time.Minute, accessToken{ID: "user1"})
	require.NoError(t, err)

	var info accessToken
	err = authenticator.NewTokenEngine("another").Verify(token, &info)
	require.Error(t, err)
}
