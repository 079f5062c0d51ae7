// Package rediskey builds and checks the colon-delimited Redis keys that
// documents are stored under.
package rediskey

import (
	"fmt"
	"regexp"
	"strings"
)

type GlobWildcard string

const (
	WildcardAnyChar   GlobWildcard = "?" // Matches exactly one character.
	WildcardAnyString GlobWildcard = "*" // Matches zero or more characters.
	Delimiter                      = ":"
	keyMaxLength                   = 1024
)

var (
	keyRegex      = regexp.MustCompile(`^[a-zA-Z0-9:_\-\*\?\[\](),]+$`)
	fragmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-(),]+$`)
)

// InvalidKeyError reports a key or key fragment that cannot be stored.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	if e.Key == "" {
		return "invalid redis key: " + e.Reason
	}
	return fmt.Sprintf("invalid redis key %q: %s", e.Key, e.Reason)
}

// New joins fragments into a key. Empty fragments are skipped. A fragment must
// be a plain word: no delimiter and no glob characters.
//
// Example:
//
//	key, err := New("orders", "o-17")
//	fmt.Println(key) // "orders:o-17"
func New(fragments ...string) (string, error) {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f == "" {
			continue
		}
		if err := ValidateFragment(f); err != nil {
			return "", err
		}
		parts = append(parts, f)
	}
	key := Join(parts...)
	if err := Validate(key); err != nil {
		return "", err
	}
	return key, nil
}

// ValidateFragment checks a single key segment.
func ValidateFragment(f string) error {
	if f == "" {
		return &InvalidKeyError{Reason: "fragment must not be empty"}
	}
	if !fragmentRegex.MatchString(f) {
		return &InvalidKeyError{Key: f, Reason: "fragment contains invalid characters"}
	}
	return nil
}

// Validate checks a complete key or key pattern.
func Validate(key string) error {
	switch {
	case key == "":
		return &InvalidKeyError{Reason: "key must not be empty"}
	case len(key) > keyMaxLength:
		return &InvalidKeyError{Key: key[:32] + "...", Reason: fmt.Sprintf("exceeds %d characters", keyMaxLength)}
	case !keyRegex.MatchString(key):
		return &InvalidKeyError{Key: key, Reason: "contains invalid characters"}
	case strings.HasPrefix(key, Delimiter), strings.HasSuffix(key, Delimiter):
		return &InvalidKeyError{Key: key, Reason: "must not start or end with " + Delimiter}
	case strings.Contains(key, Delimiter+Delimiter):
		return &InvalidKeyError{Key: key, Reason: "contains an empty segment"}
	}
	return nil
}

// Join concatenates keys with the delimiter, skipping empty ones.
func Join(keys ...string) string {
	var b strings.Builder
	for _, k := range keys {
		if k == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(Delimiter)
		}
		b.WriteString(k)
	}
	return b.String()
}

// Split returns the segments of key.
func Split(key string) []string {
	return strings.Split(key, Delimiter)
}

// Last returns the final segment of key.
func Last(key string) string {
	if i := strings.LastIndex(key, Delimiter); i >= 0 {
		return key[i+1:]
	}
	return key
}

// MatchPattern returns a glob pattern matching the children of baseKey.
//
// Example:
//
//	fmt.Println(MatchPattern("orders", WildcardAnyString)) // "orders:*"
func MatchPattern(baseKey string, wildcard GlobWildcard) string {
	return Join(baseKey, string(wildcard))
}
