package keyfactory

import (
	"fmt"
	"regexp"

	"github.com/holmberd/go-zson/keyfactory/internal/rediskey"
)

var namespacePattern = regexp.MustCompile(`^__(\w+?)__(?::|$)`)

// ParseRedisKey splits a stored Redis key into its namespace and logical key.
//
// Example:
//
//	key, _ := ParseRedisKey("__app__:orders:o-1")
//	// key.Namespace() == "__app__", key.Key() == "orders:o-1"
func ParseRedisKey(key string) (*Key, error) {
	if err := rediskey.Validate(key); err != nil {
		return nil, fmt.Errorf("keyfactory: parse %q: %w", key, err)
	}
	var namespace string
	if m := namespacePattern.FindStringSubmatch(key); m != nil {
		namespace = m[1]
		key = key[len(m[0]):]
	}
	return NewKey(key, namespace), nil
}
