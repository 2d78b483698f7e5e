// Package naming maps Go type names onto SQL table names.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// TableName turns a Go type name into a snake_case plural table name:
// "Author" → "authors", "PressRelease" → "press_releases".
func TableName(typeName string) string {
	if typeName == "" {
		return ""
	}
	return inflection.Plural(CamelToSnake(typeName))
}

// CamelToSnake converts a CamelCase string to snake_case.
// Acronyms stay together: "MagazineID" → "magazine_id".
func CamelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// wordStart reports whether the upper-case rune at i begins a new word.
func wordStart(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
