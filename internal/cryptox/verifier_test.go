package cryptox

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeVerifier_Format(t *testing.T) {
	key := DeriveKey([]byte("master"), []byte("salt"))

	v := MakeVerifier(key)

	require.True(t, strings.HasPrefix(v, VerifierPrefix))

	rest := strings.TrimPrefix(v, VerifierPrefix)
	raw, err := hex.DecodeString(rest)
	require.NoError(t, err, "verifier payload must be valid hex")
	assert.Len(t, raw, 32, "verifier payload must be a SHA-256 digest")
}

func TestMakeVerifier_Deterministic(t *testing.T) {
	key := DeriveKey([]byte("master"), []byte("salt"))

	assert.Equal(t, MakeVerifier(key), MakeVerifier(key))
}

func TestCheckVerifier_Match(t *testing.T) {
	key := DeriveKey([]byte("master"), []byte("salt"))
	v := MakeVerifier(key)

	assert.True(t, CheckVerifier(key, v))
}

func TestCheckVerifier_WrongKey(t *testing.T) {
	key := DeriveKey([]byte("master"), []byte("salt"))
	other := DeriveKey([]byte("not-the-master"), []byte("salt"))
	v := MakeVerifier(key)

	assert.False(t, CheckVerifier(other, v))
}

func TestCheckVerifier_Malformed(t *testing.T) {
	key := DeriveKey([]byte("master"), []byte("salt"))

	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"missing prefix", strings.TrimPrefix(MakeVerifier(key), VerifierPrefix)},
		{"wrong prefix", "vault2:" + strings.TrimPrefix(MakeVerifier(key), VerifierPrefix)},
		{"invalid hex", VerifierPrefix + "zzzz"},
		{"truncated digest", VerifierPrefix + "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, CheckVerifier(key, tt.stored))
		})
	}
}
