package utils

import (
	"math/rand/v2"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateAccountNumber(t *testing.T) {
	src := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		n := GenerateAccountNumber(src)
		if !ValidateAccountNumber(n) {
			t.Fatalf("generated invalid number %q", n)
		}
	}
}

func TestGenerateAccountNumberDeterministic(t *testing.T) {
	a := GenerateAccountNumber(rand.New(rand.NewPCG(42, 42)))
	b := GenerateAccountNumber(rand.New(rand.NewPCG(42, 42)))
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
}

type zeros struct{}

func (zeros) IntN(int) int { return 0 }

func TestGenerateAccountNumberKeepsLeadingZeros(t *testing.T) {
	if got := GenerateAccountNumber(zeros{}); got != "0000000000" {
		t.Errorf("expected ten zeros, got %q", got)
	}
}

func TestCryptoDigits(t *testing.T) {
	n := GenerateAccountNumber(CryptoDigits{})
	if !ValidateAccountNumber(n) {
		t.Errorf("invalid %q", n)
	}
}

func TestValidateAccountNumber(t *testing.T) {
	cases := map[string]bool{
		"0123456789":  true,
		"012345678":   false,
		"01234567890": false,
		"01234a6789":  false,
		"":            false,
	}
	for in, want := range cases {
		if got := ValidateAccountNumber(in); got != want {
			t.Errorf("ValidateAccountNumber(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword("s3cret!", hash) {
		t.Error("hash does not verify")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password verified")
	}
}
