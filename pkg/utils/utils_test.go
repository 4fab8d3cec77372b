package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCryptAndVerify(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	hashed, err := Crypt("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)

	_, ok := VerifyPassword("secret1", hashed)
	assert.True(t, ok)
	err, ok = VerifyPassword("secret2", hashed)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[int64]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		require.Greater(t, id, int64(0))
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = struct{}{}
	}
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int64
	}{
		{"int64", int64(42), 42},
		{"float64", float64(7), 7},
		{"string", "1790000000000000001", 1790000000000000001},
		{"bad string", "abc", -1},
		{"unsupported", []byte("1"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transfer(tt.in))
		})
	}
}
