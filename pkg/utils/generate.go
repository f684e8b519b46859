package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// GenerateConfirmationCode returns a numeric code read from crypto/rand
func GenerateConfirmationCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	code := make([]byte, length)
	ten := big.NewInt(10)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate confirmation code: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}

	return string(code), nil
}

// HashCode stores one-time codes the same way passwords are stored
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}
	return string(hash), nil
}

func CheckCodeHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
