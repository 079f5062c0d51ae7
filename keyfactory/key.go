// Package keyfactory builds the namespaced Redis keys documents are stored
// under.
//
// Key structure:
//
//	__<namespace>__:<parentKey>:<collection>:<id>
package keyfactory

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/holmberd/go-zson/keyfactory/internal/rediskey"
)

const (
	WildcardAnyChar            = rediskey.WildcardAnyChar   // Matches exactly one character.
	WildcardAnyString          = rediskey.WildcardAnyString // Matches zero or more characters.
	ReservedNamespaceDelimiter = "__"                       // Wraps the namespace segment.
)

func namespacePrefix(ns string) string {
	if ns == "" {
		return ""
	}
	return ReservedNamespaceDelimiter + strings.ToLower(ns) + ReservedNamespaceDelimiter
}

// GenerateRandomKey returns a random 10-character key fragment.
func GenerateRandomKey() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	key := make([]byte, 10)
	for i := range key {
		key[i] = letters[rand.IntN(len(letters))]
	}
	return string(key)
}

// ValidateKeyFragment reports whether f can be used as a single key segment.
func ValidateKeyFragment(f string) error {
	if err := checkReserved(f); err != nil {
		return fmt.Errorf("keyfactory: %w", err)
	}
	if err := rediskey.ValidateFragment(f); err != nil {
		return fmt.Errorf("keyfactory: %w", err)
	}
	return nil
}

// Key is a fully qualified datastore key.
type Key struct {
	key       string // Logical key, without namespace.
	namespace string // Wrapped namespace, e.g. "__app__".
}

// NewKey returns a key under namespace. The namespace may be given bare or
// already wrapped in the reserved delimiter.
func NewKey(key string, namespace string) *Key {
	if !strings.HasPrefix(namespace, ReservedNamespaceDelimiter) {
		namespace = namespacePrefix(namespace)
	}
	return &Key{key: key, namespace: namespace}
}

func (k *Key) Key() string {
	return k.key
}

func (k *Key) Namespace() string {
	return k.namespace
}

// RedisKey returns the key as stored in Redis.
func (k *Key) RedisKey() string {
	return rediskey.Join(k.namespace, k.key)
}

// String returns the logical key. It does not include the namespace.
func (k *Key) String() string {
	if k == nil {
		return ""
	}
	return k.key
}

// Equal reports whether k and o address the same Redis key.
func (k *Key) Equal(o *Key) bool {
	if k == nil || o == nil {
		return k == o
	}
	return k.key == o.key && k.namespace == o.namespace
}

// KeyBuilder builds a fully qualified key. Either a key or a wildcard must be
// set.
type KeyBuilder struct {
	key       string
	parentKey string
	wildcard  rediskey.GlobWildcard
	namespace string
}

func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

func (b *KeyBuilder) Clone() *KeyBuilder {
	c := *b
	return &c
}

func (b *KeyBuilder) WithKey(key string) *KeyBuilder {
	b.key = key
	return b
}

func (b *KeyBuilder) WithParentKey(key string) *KeyBuilder {
	b.parentKey = key
	return b
}

func (b *KeyBuilder) WithWildcard(wc rediskey.GlobWildcard) *KeyBuilder {
	b.wildcard = wc
	return b
}

func (b *KeyBuilder) WithNamespace(ns string) *KeyBuilder {
	b.namespace = ns
	return b
}

func (b *KeyBuilder) Reset() {
	*b = KeyBuilder{}
}

func (b *KeyBuilder) Build() (*Key, error) {
	return b.build()
}

// BuildAndReset builds the key and clears the builder.
func (b *KeyBuilder) BuildAndReset() (*Key, error) {
	defer b.Reset()
	return b.build()
}

func (b *KeyBuilder) build() (*Key, error) {
	if err := validateOptionalKeys(b.key, b.parentKey); err != nil {
		return nil, fmt.Errorf("keyfactory: %w", err)
	}
	if b.namespace != "" {
		if err := ValidateKeyFragment(b.namespace); err != nil {
			return nil, err
		}
	}
	key := rediskey.Join(b.parentKey, b.key)
	if b.wildcard != "" {
		key = rediskey.MatchPattern(key, b.wildcard)
	}
	if key == "" {
		return nil, fmt.Errorf("keyfactory: key must not be empty")
	}
	return NewKey(key, b.namespace), nil
}

// KeyBuilderWithNamespace is a KeyBuilder whose namespace survives Reset.
type KeyBuilderWithNamespace struct {
	*KeyBuilder
}

func NewKeyBuilderWithNamespace(namespace string) *KeyBuilderWithNamespace {
	return &KeyBuilderWithNamespace{KeyBuilder: &KeyBuilder{namespace: namespace}}
}

func (b *KeyBuilderWithNamespace) Clone() *KeyBuilderWithNamespace {
	return &KeyBuilderWithNamespace{KeyBuilder: b.KeyBuilder.Clone()}
}

func (b *KeyBuilderWithNamespace) Reset() {
	ns := b.namespace
	b.KeyBuilder.Reset()
	b.namespace = ns
}

func (b *KeyBuilderWithNamespace) BuildAndReset() (*Key, error) {
	defer b.Reset()
	return b.build()
}

// validateOptionalKeys validates keys, ignoring empty ones.
func validateOptionalKeys(keys ...string) error {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := checkReserved(key); err != nil {
			return err
		}
		if err := rediskey.Validate(key); err != nil {
			return err
		}
	}
	return nil
}

func checkReserved(s string) error {
	if strings.HasPrefix(s, ReservedNamespaceDelimiter) {
		return fmt.Errorf("%q must not start with reserved namespace delimiter %q", s, ReservedNamespaceDelimiter)
	}
	return nil
}
