package utils

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Indian mobile numbers: 10 digits starting with 6-9.
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func IsValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}
