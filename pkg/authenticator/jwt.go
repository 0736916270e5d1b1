package authenticator

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}

type standardClaims struct {
	jwt.RegisteredClaims
	Object any `json:"obj,omitempty"`
}

type jwtTokenEngine struct {
	secret  string
	counter atomic.Int64
}

func NewTokenEngine(secret string) *jwtTokenEngine {
	return &jwtTokenEngine{secret: secret}
}

func (e *jwtTokenEngine) Generate(expiration time.Duration, obj any) (string, error) {
	now := time.Now()
	claims := standardClaims{
		Object: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			ID:        strconv.FormatInt(e.counter.Add(1), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.secret))
}

// Verify checks the signature and expiration of token, then decodes its object
// into obj, which must be a pointer.
func (e *jwtTokenEngine) Verify(token string, obj any) error {
	claims := standardClaims{Object: obj}
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)

	return err
}
