package rediskey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		fragments   []string
		expectKey   string
		expectError bool
	}{
		{name: "Single fragment", fragments: []string{"orders"}, expectKey: "orders"},
		{name: "Empty fragments are skipped", fragments: []string{"", "orders", "o-1", ""}, expectKey: "orders:o-1"},
		{name: "Case is preserved", fragments: []string{"Orders", "AbC"}, expectKey: "Orders:AbC"},
		{name: "No fragments", fragments: []string{}, expectError: true},
		{name: "Fragment contains delimiter", fragments: []string{"orders", "o:1"}, expectError: true},
		{name: "Fragment contains glob", fragments: []string{"orders", "o*"}, expectError: true},
		{name: "Fragment contains space", fragments: []string{" orders"}, expectError: true},
		{name: "Fragment contains symbols", fragments: []string{"ord@rs!"}, expectError: true},
		{name: "Key too long", fragments: []string{strings.Repeat("a", keyMaxLength+1)}, expectError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := New(tt.fragments...)
			if tt.expectError {
				var keyErr *InvalidKeyError
				assert.ErrorAs(t, err, &keyErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectKey, key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"orders:o-1", true},
		{"orders:*", true},
		{"orders:o-?", true},
		{"", false},
		{":orders", false},
		{"orders:", false},
		{"orders::o-1", false},
		{"orders o-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := Validate(tt.key)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMatchPattern(t *testing.T) {
	assert.Equal(t, "orders:*", MatchPattern("orders", WildcardAnyString))
	assert.Equal(t, "tenant:t1:orders:?", MatchPattern("tenant:t1:orders", WildcardAnyChar))
	assert.Equal(t, "*", MatchPattern("", WildcardAnyString))
}

func TestJoinSplitLast(t *testing.T) {
	assert.Equal(t, "a:b:c", Join("a", "", "b", "c"))
	assert.Equal(t, "", Join())
	assert.Equal(t, []string{"a", "b", "c"}, Split("a:b:c"))
	assert.Equal(t, "c", Last("a:b:c"))
	assert.Equal(t, "single", Last("single"))
}
