package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckURL(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid URL fails before any remote call", func(t *testing.T) {
		service := NewSafetyService("key", testLogger())
		called := false
		service.generate = func(context.Context, string) (string, error) {
			called = true
			return "", nil
		}

		_, err := service.CheckURL(ctx, "://not-a-url")

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.False(t, called)
	})

	t.Run("Missing credential skips check", func(t *testing.T) {
		service := NewSafetyService("", testLogger())
		called := false
		service.generate = func(context.Context, string) (string, error) {
			called = true
			return "", nil
		}

		verdict, err := service.CheckURL(ctx, "https://example.com")

		assert.NoError(t, err)
		assert.False(t, called)
		assert.True(t, verdict.IsSafe)
		assert.False(t, verdict.Flagged)
		assert.Equal(t, CategoryUnknown, verdict.Category)
		assert.Equal(t, 0.0, verdict.Confidence)
	})

	t.Run("Structured verdict parsed", func(t *testing.T) {
		service := NewSafetyService("key", testLogger())
		service.generate = func(context.Context, string) (string, error) {
			return `Here is my analysis:
{"isSafe": false, "flagged": true, "reason": "known phishing domain", "category": "malicious", "confidence": 0.92}`, nil
		}

		verdict, err := service.CheckURL(ctx, "https://phish.example.com")

		assert.NoError(t, err)
		assert.False(t, verdict.IsSafe)
		assert.True(t, verdict.Flagged)
		assert.Equal(t, CategoryMalicious, verdict.Category)
		assert.Equal(t, 0.92, verdict.Confidence)
		assert.Equal(t, "known phishing domain", *verdict.Reason)
	})

	t.Run("Unparseable payload yields caution fallback", func(t *testing.T) {
		service := NewSafetyService("key", testLogger())
		service.generate = func(context.Context, string) (string, error) {
			return "I cannot help with that.", nil
		}

		verdict, err := service.CheckURL(ctx, "https://example.com")

		assert.NoError(t, err)
		assert.True(t, verdict.Flagged)
		assert.Equal(t, CategoryUnknown, verdict.Category)
		assert.Equal(t, 0.5, verdict.Confidence)
		assert.NotNil(t, verdict.Reason)
	})

	t.Run("Unknown category yields caution fallback", func(t *testing.T) {
		service := NewSafetyService("key", testLogger())
		service.generate = func(context.Context, string) (string, error) {
			return `{"isSafe": true, "flagged": false, "reason": null, "category": "fine", "confidence": 1}`, nil
		}

		verdict, err := service.CheckURL(ctx, "https://example.com")

		assert.NoError(t, err)
		assert.True(t, verdict.Flagged)
		assert.Equal(t, 0.5, verdict.Confidence)
	})

	t.Run("Transport failure yields permissive fallback", func(t *testing.T) {
		service := NewSafetyService("key", testLogger())
		service.generate = func(context.Context, string) (string, error) {
			return "", errors.New("connection refused")
		}

		verdict, err := service.CheckURL(ctx, "https://example.com")

		assert.NoError(t, err)
		assert.True(t, verdict.IsSafe)
		assert.False(t, verdict.Flagged)
		assert.Nil(t, verdict.Reason)
	})

	t.Run("Timeout yields permissive fallback", func(t *testing.T) {
		service := NewSafetyService("key", testLogger())
		service.generate = func(ctx context.Context, _ string) (string, error) {
			return "", context.DeadlineExceeded
		}

		verdict, err := service.CheckURL(ctx, "https://example.com")

		assert.NoError(t, err)
		assert.False(t, verdict.Flagged)
	})

	t.Run("Remote call sees a deadline", func(t *testing.T) {
		service := NewSafetyService("key", testLogger())
		var hadDeadline bool
		service.generate = func(ctx context.Context, _ string) (string, error) {
			_, hadDeadline = ctx.Deadline()
			return `{"isSafe": true, "flagged": false, "reason": null, "category": "safe", "confidence": 0.99}`, nil
		}

		_, err := service.CheckURL(ctx, "https://example.com")

		assert.NoError(t, err)
		assert.True(t, hadDeadline)
	})
}

func TestParseVerdict(t *testing.T) {
	t.Run("Plain JSON", func(t *testing.T) {
		verdict, err := parseVerdict(`{"isSafe": true, "flagged": false, "reason": null, "category": "safe", "confidence": 0.99}`)
		assert.NoError(t, err)
		assert.Equal(t, CategorySafe, verdict.Category)
	})

	t.Run("JSON inside markdown fences", func(t *testing.T) {
		verdict, err := parseVerdict("```json\n{\"isSafe\": false, \"flagged\": true, \"reason\": \"scam\", \"category\": \"suspicious\", \"confidence\": 0.6}\n```")
		assert.NoError(t, err)
		assert.Equal(t, CategorySuspicious, verdict.Category)
	})

	t.Run("No JSON object", func(t *testing.T) {
		_, err := parseVerdict("nothing useful here")
		assert.Error(t, err)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, err := parseVerdict(`{"isSafe": "maybe"}`)
		assert.Error(t, err)
	})
}
