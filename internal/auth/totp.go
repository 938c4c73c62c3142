// Package auth produces the one-time codes asked for by the sign-in page
// when a user has an authenticator app registered.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateTOTP returns the current code for a base32 authenticator secret.
// Spaces and lower-case letters, as shown by the enrolment page, are accepted.
func GenerateTOTP(secret string) (string, error) {
	return generateAt(secret, time.Now().UTC())
}

func generateAt(secret string, t time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", fmt.Errorf("totp secret cannot be empty")
	}

	cleanSecret := strings.ToUpper(strings.ReplaceAll(secret, " ", ""))

	passcode, err := totp.GenerateCodeCustom(cleanSecret, t, totpOpts)
	if err != nil {
		return "", fmt.Errorf("failed to generate totp code: %w", err)
	}
	return passcode, nil
}
