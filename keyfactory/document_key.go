package keyfactory

import (
	"fmt"
	"strings"

	"github.com/holmberd/go-zson/keyfactory/internal/rediskey"
)

// NewDocumentKey returns the logical key of a document. Collection names are
// case-insensitive; ids keep their case.
//
// Key structure:
//
//	<parentKey>:<collection>:<id>
func NewDocumentKey(collection, id, parentKey string) (string, error) {
	if collection == "" {
		return "", fmt.Errorf("keyfactory: collection must not be empty")
	}
	if id == "" {
		return "", fmt.Errorf("keyfactory: document id must not be empty")
	}
	if err := checkReserved(collection); err != nil {
		return "", fmt.Errorf("keyfactory: %w", err)
	}
	if err := checkReserved(id); err != nil {
		return "", fmt.Errorf("keyfactory: %w", err)
	}
	key, err := rediskey.New(strings.ToLower(collection), id)
	if err != nil {
		return "", fmt.Errorf("keyfactory: %w", err)
	}
	if parentKey == "" {
		return key, nil
	}
	if err := validateOptionalKeys(parentKey); err != nil {
		return "", fmt.Errorf("keyfactory: %w", err)
	}
	return rediskey.Join(parentKey, key), nil
}

// DocumentID returns the id segment of a document key.
func DocumentID(key string) string {
	return rediskey.Last(key)
}

// ParseDocumentKey returns the id of key when key is a document key of
// collection under parentKey. Keys nested deeper, such as documents of a
// collection whose parent key starts with collection, are rejected.
func ParseDocumentKey(key, collection, parentKey string) (string, bool) {
	prefix := rediskey.Join(parentKey, strings.ToLower(collection)) + rediskey.Delimiter
	id, ok := strings.CutPrefix(key, prefix)
	if !ok || id == "" || strings.Contains(id, rediskey.Delimiter) {
		return "", false
	}
	return id, true
}
