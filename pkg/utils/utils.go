package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AccountNumberLength is the number of digits in a generated account number.
const AccountNumberLength = 10

// DigitSource yields uniformly distributed integers in [0, n).
// *math/rand/v2.Rand satisfies it, which keeps generation deterministic in tests.
type DigitSource interface {
	IntN(n int) int
}

// CryptoDigits draws from crypto/rand.
type CryptoDigits struct{}

func (CryptoDigits) IntN(n int) int {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return int(num.Int64())
}

// GenerateAccountNumber draws a 10-digit account number. Leading zeros are kept.
func GenerateAccountNumber(src DigitSource) string {
	var sb strings.Builder
	sb.Grow(AccountNumberLength)
	for i := 0; i < AccountNumberLength; i++ {
		sb.WriteByte(byte('0' + src.IntN(10)))
	}
	return sb.String()
}

// ValidateAccountNumber reports whether s has the generated format.
func ValidateAccountNumber(s string) bool {
	if len(s) != AccountNumberLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// HashPassword hashes a password using bcrypt. A cost of 0 selects bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
