package validation

import (
	"crypto/rand"
	"math/big"
	"unicode"

	"github.com/GregMSThompson/coop-backend/internal/errs"
)

const (
	upperChars    = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars    = "abcdefghijkmnopqrstuvwxyz"
	digitChars    = "23456789"
	GeneratedSize = 6
	MinPassword   = 6
)

// GeneratePassword returns a 6 character password with at least one
// uppercase letter, one lowercase letter and one digit.
func GeneratePassword() (string, error) {
	all := upperChars + lowerChars + digitChars
	out := make([]byte, 0, GeneratedSize)
	for _, set := range []string{upperChars, lowerChars, digitChars} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < GeneratedSize {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	// Fisher-Yates so the guaranteed classes are not always up front
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

// ValidatePassword enforces the same policy used for generated passwords.
func ValidatePassword(pw string) error {
	if len(pw) < MinPassword {
		return errs.NewValidationError("password must be at least 6 characters")
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return errs.NewValidationError("password must contain an uppercase letter, a lowercase letter and a digit")
	}
	return nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
