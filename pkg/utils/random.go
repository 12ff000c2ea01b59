package utils

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// URL-safe alphabet, same shape as nanoid's default
const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// GeneratedCodeLength is the length of system-generated short codes.
const GeneratedCodeLength = 10

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateShortCode generates a random URL-safe string of fixed length
func GenerateShortCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}

// GenerateAPIKey generates a UUID string to be used as an API key
func GenerateAPIKey() string {
	return uuid.NewString()
}
