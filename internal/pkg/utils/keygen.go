package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const base62Chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// OAuthStateLength gives ~190 bits of entropy.
const OAuthStateLength = 32

// RandomString returns n characters drawn from crypto/rand over base62.
func RandomString(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)

	max := big.NewInt(int64(len(base62Chars)))
	for range n {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(base62Chars[num.Int64()])
	}
	return sb.String(), nil
}

func GenerateOAuthState() (string, error) {
	return RandomString(OAuthStateLength)
}
