package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	client, err := New("http://webhook.local/alerts")
	require.NoError(t, err)
	assert.Equal(t, "http://webhook.local/alerts", client.BaseURL)
}

func TestWithRetryPolicy(t *testing.T) {
	client, err := New("http://webhook.local",
		WithRetryPolicy(RetryPolicy{
			Count:   3,
			Wait:    500 * time.Millisecond,
			MaxWait: 5 * time.Second,
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, client.RetryCount)
	assert.Equal(t, 500*time.Millisecond, client.RetryWaitTime)
	assert.Equal(t, 5*time.Second, client.RetryMaxWaitTime)
}

func TestWithRetryPolicy_SkipsZeroPolicies(t *testing.T) {
	client, err := New("http://webhook.local",
		WithRetryPolicy(RetryPolicy{}, RetryPolicy{Count: 2}),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, client.RetryCount)
}

func TestWithTimeout(t *testing.T) {
	client, err := New("http://webhook.local",
		WithTimeout(0, 10*time.Second),
	)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, client.GetClient().Timeout)
}
