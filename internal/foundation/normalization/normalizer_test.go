package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type policy string

const (
	policyIgnore policy = "ignore"
	policyError  policy = "error"
)

func newPolicyNormalizer() *Normalizer[policy] {
	return NewNormalizer("policy", map[string]policy{
		"ignore": policyIgnore,
		"error":  policyError,
	}, policyIgnore)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newPolicyNormalizer()

	tests := []struct {
		name     string
		input    string
		expected policy
	}{
		{"exact match", "error", policyError},
		{"case insensitive", "ERROR", policyError},
		{"with spaces", "  ignore  ", policyIgnore},
		{"invalid falls back", "explode", policyIgnore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_NormalizeStrict(t *testing.T) {
	n := newPolicyNormalizer()

	got, err := n.NormalizeStrict("")
	require.NoError(t, err)
	assert.Equal(t, policyIgnore, got)

	got, err = n.NormalizeStrict("Error")
	require.NoError(t, err)
	assert.Equal(t, policyError, got)

	_, err = n.NormalizeStrict("explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid policy")
	assert.Equal(t, []string{"error", "ignore"}, n.ValidKeys())
}
