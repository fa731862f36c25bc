package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"unicode"
)

// Only institutional addresses of the firstname.lastname form may register.
var institutionalEmailPattern = regexp.MustCompile(`^[a-zA-Z]+\.[a-zA-Z]+@lspu\.edu\.ph$`)

// ValidInstitutionalEmail reports whether the address belongs to the campus
// domain in the expected shape.
func ValidInstitutionalEmail(email string) bool {
	return institutionalEmailPattern.MatchString(email)
}

// CheckPasswordPolicy enforces the account password rules: at least 8
// characters with an uppercase letter, a lowercase letter, and a digit.
func CheckPasswordPolicy(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit")
	}
	return nil
}

// GenerateOTP returns a random 6-digit code, zero-padded.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
