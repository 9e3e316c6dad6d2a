package models

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Text cleanup for crawled dataset fields.
//
// The crawler normally emits UTF-8, but older dumps were Latin-1 encoded and
// wiki scrapes occasionally carry control characters. Everything that ends up
// in templates or JSON goes through ConvertToUTF8 once, at load time.

// ConvertToUTF8 converts text from Latin-1 to UTF-8 if needed and strips
// control characters that have no business in names or profile values.
func ConvertToUTF8(text string) string {
	if !utf8.ValidString(text) {
		decoder := charmap.ISO8859_1.NewDecoder()
		result, _, err := transform.String(decoder, text)
		if err != nil {
			text = strings.ToValidUTF8(text, "�")
		} else {
			text = result
		}
	}
	return stripControls(text)
}

func stripControls(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)
}

// CleanProfile returns a copy of the profile map with keys and values
// trimmed and converted to UTF-8; blank pairs are dropped.
func CleanProfile(profile map[string]string) map[string]string {
	out := make(map[string]string, len(profile))
	for k, v := range profile {
		key := strings.TrimSpace(ConvertToUTF8(k))
		val := strings.TrimSpace(ConvertToUTF8(v))
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	return out
}
