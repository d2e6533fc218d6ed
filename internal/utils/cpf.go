package utils

import "strings"

// NormalizeCPF strips everything but digits, so "123.456.789-01" and
// "12345678901" name the same person.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	b.Grow(len(cpf))
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
