package http

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// Opt configures a *resty.Client and may return an error.
type Opt func(*resty.Client) error

// New creates a resty client with the given base URL and options. The
// webhook facade sends its notifications through a client built here.
func New(baseURL string, opts ...Opt) (*resty.Client, error) {
	client := resty.New().SetBaseURL(baseURL)

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// RetryPolicy describes HTTP request retry behavior.
type RetryPolicy struct {
	Count   int           // number of retry attempts
	Wait    time.Duration // wait time between retries
	MaxWait time.Duration // cap on the backoff wait
}

// WithRetryPolicy returns an Opt applying the first non-zero retry
// policy from the list. A policy is non-zero when any field is positive.
func WithRetryPolicy(policies ...RetryPolicy) Opt {
	return func(c *resty.Client) error {
		for _, policy := range policies {
			if policy.Count > 0 || policy.Wait > 0 || policy.MaxWait > 0 {
				if policy.Count > 0 {
					c.SetRetryCount(policy.Count)
				}
				if policy.Wait > 0 {
					c.SetRetryWaitTime(policy.Wait)
				}
				if policy.MaxWait > 0 {
					c.SetRetryMaxWaitTime(policy.MaxWait)
				}
				break
			}
		}
		return nil
	}
}

// WithTimeout returns an Opt that sets the first positive per-request
// timeout from the list.
func WithTimeout(timeouts ...time.Duration) Opt {
	return func(c *resty.Client) error {
		for _, timeout := range timeouts {
			if timeout > 0 {
				c.SetTimeout(timeout)
				break
			}
		}
		return nil
	}
}
