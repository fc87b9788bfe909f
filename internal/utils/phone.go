package utils

import (
	"regexp"
	"strings"
)

var (
	phonePattern   = regexp.MustCompile(`^[6-9]\d{9}$`)
	ncoCodePattern = regexp.MustCompile(`^\d{8}$`)
	phoneNoise     = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// NormalizePhone strips spaces, dashes and parentheses and validates the
// result as a 10-digit Indian mobile number starting with 6-9.
func NormalizePhone(raw string) (string, bool) {
	clean := phoneNoise.Replace(strings.TrimSpace(raw))
	if !phonePattern.MatchString(clean) {
		return "", false
	}
	return clean, true
}

// ToE164 formats a normalized Indian mobile number for SMS providers
func ToE164(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+91" + phone
}

// MaskPhone hides all but the last four digits for logs
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// IsValidNCOCode reports whether code looks like an 8-digit NCO occupation code
func IsValidNCOCode(code string) bool {
	return ncoCodePattern.MatchString(code)
}
