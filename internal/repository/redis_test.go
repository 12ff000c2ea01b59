package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitRedis_Fail(t *testing.T) {
	t.Run("Unreachable Address", func(t *testing.T) {
		client, err := InitRedis("localhost:1", "", 0)
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("Invalid URL", func(t *testing.T) {
		client, err := InitRedis("redis://:bad@%zz", "", 0)
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}
