package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameRunes = 120

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName removes path separators and control characters, rejects
// traversal patterns and truncates long names while keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "", errInvalidFileName
	}

	runes := []rune(s)
	if len(runes) > maxFileNameRunes {
		ext := []rune("")
		if i := strings.LastIndexByte(s, '.'); i > 0 && len(s)-i <= 10 {
			ext = []rune(s[i:])
		}
		runes = append(runes[:maxFileNameRunes-len(ext)], ext...)
	}
	return string(runes), nil
}
