package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D+`)

// NormEmail приводит email к нижнему регистру без пробелов.
// Пустая строка означает отсутствие значения.
func NormEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormPhone оставляет в телефоне только цифры.
func NormPhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}
