package services

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestQRService(t *testing.T) {
	service := NewQRService()

	t.Run("PNG output", func(t *testing.T) {
		png, err := service.GeneratePNG("https://short.example.com/abc123defg", 256)
		assert.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngHeader))
	})

	t.Run("Default size", func(t *testing.T) {
		png, err := service.GeneratePNG("https://short.example.com/abc123defg", 0)
		assert.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("Base64 output", func(t *testing.T) {
		encoded, err := service.GenerateBase64("https://short.example.com/abc123defg", 128)
		assert.NoError(t, err)

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		assert.NoError(t, err)
		assert.True(t, bytes.HasPrefix(decoded, pngHeader))
	})

	t.Run("Empty content fails", func(t *testing.T) {
		_, err := service.GeneratePNG("", 128)
		assert.Error(t, err)
	})
}
