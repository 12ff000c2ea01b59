package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateShortCode(t *testing.T) {
	code := GenerateShortCode(GeneratedCodeLength)

	assert.Equal(t, GeneratedCodeLength, len(code))

	// Ensure only charset characters are used
	for _, char := range code {
		assert.True(t, strings.Contains(charset, string(char)))
	}
}

func TestGenerateShortCode_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[GenerateShortCode(10)] = true
	}
	// Collisions at this length are astronomically unlikely
	assert.Equal(t, 100, len(seen))
}

func TestGenerateAPIKey(t *testing.T) {
	key := GenerateAPIKey()

	assert.NotEmpty(t, key)
	_, err := uuid.Parse(key)
	assert.NoError(t, err)
}
