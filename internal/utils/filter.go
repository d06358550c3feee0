package utils

import (
	"unicode"
)

// IsLatinOrDigit checks if a rune is a latin letter or digit, half or full width
func IsLatinOrDigit(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		(r >= '０' && r <= '９') || (r >= 'Ａ' && r <= 'Ｚ') || (r >= 'ａ' && r <= 'ｚ')
}

// IsPunct checks if a rune is punctuation or a symbol
func IsPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// IsOnlyNumbers checks if a string consists entirely of digits, full width or
// Chinese numerals
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r) || isHanNumeral(r):
			digits++
		case r == '.' || r == '．':
		default:
			return false
		}
	}
	return digits > 0
}

// IsOnlyPunct checks if a string consists entirely of punctuation
func IsOnlyPunct(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !IsPunct(r) {
			return false
		}
	}
	return true
}

// ContainsLatin checks if a string contains any latin letter
func ContainsLatin(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func isHanNumeral(r rune) bool {
	switch r {
	case '零', '〇', '一', '二', '三', '四', '五', '六', '七', '八', '九', '十', '百', '千', '万', '亿', '两':
		return true
	}
	return false
}
