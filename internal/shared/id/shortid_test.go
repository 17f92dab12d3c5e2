package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(12)
	require.NoError(t, err)
	assert.Len(t, got, 12)
	for _, r := range got {
		assert.Contains(t, alphabet, string(r))
	}
}

func TestGenerate_DefaultsLength(t *testing.T) {
	got, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultLength)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		got, err := Generate(12)
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate short ID %q", got)
		seen[got] = true
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	got, err := GenerateWithPrefix(PrefixTracker, 12)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "trk_"))
	assert.Len(t, got, len("trk_")+12)
}
