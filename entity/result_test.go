package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabledResult(t *testing.T) {
	result := NewDisabledResult()
	assert.False(t, result.IsEnabled())
	assert.NotNil(t, result.Parameters())
	assert.Empty(t, result.Parameters())
	_, ok := result.ValidUntil()
	assert.False(t, ok)
}

func TestResult_ParametersAreCopies(t *testing.T) {
	params := map[string]string{"data": "example"}
	result := NewEnabledResult(params, nil)

	params["data"] = "mutated"
	got := result.Parameters()
	assert.Equal(t, "example", got["data"])

	got["data"] = "mutated again"
	assert.Equal(t, "example", result.Parameters()["data"])
}

func TestResultFromRule(t *testing.T) {
	rule := &Rule{
		EndDate:      str("2016-01-31 23:59:59"),
		ReturnParams: str(`{"data":"example"}`),
	}

	result := ResultFromRule(rule)
	assert.True(t, result.IsEnabled())
	assert.Equal(t, map[string]string{"data": "example"}, result.Parameters())

	until, ok := result.ValidUntil()
	require.True(t, ok)
	assert.Equal(t, time.Date(2016, time.January, 31, 23, 59, 59, 0, time.UTC), until)
}

func TestResult_TTL(t *testing.T) {
	now := time.Date(2016, time.January, 21, 1, 2, 3, 0, time.UTC)

	t.Run("end date an hour away", func(t *testing.T) {
		end := now.Add(3600 * time.Second)
		ttl, ok := NewEnabledResult(nil, &end).TTL(now)
		assert.True(t, ok)
		assert.Equal(t, 3600*time.Second, ttl)
	})

	t.Run("fractional seconds round down", func(t *testing.T) {
		end := now.Add(90*time.Second + 900*time.Millisecond)
		ttl, ok := NewEnabledResult(nil, &end).TTL(now)
		assert.True(t, ok)
		assert.Equal(t, 90*time.Second, ttl)
	})

	t.Run("no end date never expires", func(t *testing.T) {
		ttl, ok := NewEnabledResult(nil, nil).TTL(now)
		assert.True(t, ok)
		assert.Zero(t, ttl)

		ttl, ok = NewDisabledResult().TTL(now)
		assert.True(t, ok)
		assert.Zero(t, ttl)
	})

	t.Run("elapsed end date is not cacheable", func(t *testing.T) {
		end := now.Add(-time.Minute)
		_, ok := NewEnabledResult(nil, &end).TTL(now)
		assert.False(t, ok)

		_, ok = NewEnabledResult(nil, &now).TTL(now)
		assert.False(t, ok)
	})
}

func TestDecodeResult(t *testing.T) {
	end := time.Date(2016, time.January, 31, 23, 59, 59, 0, time.UTC)

	t.Run("enabled round trip", func(t *testing.T) {
		data, err := NewEnabledResult(map[string]string{"wii": "123"}, &end).MarshalBinary()
		require.NoError(t, err)

		decoded, err := DecodeResult(data)
		require.NoError(t, err)
		assert.True(t, decoded.IsEnabled())
		assert.Equal(t, map[string]string{"wii": "123"}, decoded.Parameters())
		until, ok := decoded.ValidUntil()
		require.True(t, ok)
		assert.True(t, end.Equal(until))
	})

	t.Run("disabled round trip", func(t *testing.T) {
		data, err := NewDisabledResult().MarshalBinary()
		require.NoError(t, err)

		decoded, err := DecodeResult(data)
		require.NoError(t, err)
		assert.False(t, decoded.IsEnabled())
		assert.Empty(t, decoded.Parameters())
	})

	invalid := map[string]string{
		"not json":                "garbage",
		"missing enabled":         `{"parameters":{}}`,
		"missing parameters":      `{"enabled":true}`,
		"wrong types":             `{"enabled":"yes","parameters":{}}`,
		"disabled with a payload": `{"enabled":false,"parameters":{"a":"b"}}`,
		"empty object":            `{}`,
	}
	for name, payload := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeResult([]byte(payload))
			assert.ErrorIs(t, err, ErrInvalidResultPayload)
		})
	}
}
