// Package tagblock extracts <NAME>...</NAME> sections from free-form
// provider replies.
package tagblock

import "strings"

// Extract returns the trimmed text between the first <tag> and the first
// </tag> after it. Markers match ASCII case-insensitively and the content
// may span lines. ok is false when no such pair exists.
func Extract(text, tag string) (content string, ok bool) {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"

	start := indexFold(text, open, 0)
	if start < 0 {
		return "", false
	}
	bodyStart := start + len(open)
	end := indexFold(text, closing, bodyStart)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(text[bodyStart:end]), true
}

// ExtractOr is Extract falling back to the whole trimmed text.
func ExtractOr(text, tag string) string {
	if content, ok := Extract(text, tag); ok {
		return content
	}
	return strings.TrimSpace(text)
}

func indexFold(s, sub string, from int) int {
	n := len(sub)
	for i := from; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], sub) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
