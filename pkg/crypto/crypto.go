package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = bcrypt.DefaultCost

func SHA256(b []byte) string {
	hashed := sha256.Sum256(b)
	return base64.StdEncoding.EncodeToString(hashed[:])
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// RandRange returns a uniform random value in [a, b). It panics if got a
// non-positive parameter or a>=b.
func RandRange(a, b int) int {
	return RandIntn(b-a) + a
}

// GenerateNumericCode returns a random code of n decimal digits. The first
// digit is never zero.
func GenerateNumericCode(n int) string {
	var b strings.Builder
	b.WriteByte(byte('0' + RandRange(1, 10)))
	for i := 1; i < n; i++ {
		b.WriteByte(byte('0' + RandIntn(10)))
	}

	return b.String()
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	if hashed == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
