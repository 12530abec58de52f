// Copyright (c) 2017 Tideflow Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryOptions_BackoffInterval(t *testing.T) {
	options := RetryOptions{
		InitialInterval:    10 * time.Millisecond,
		BackoffCoefficient: 2,
		MaximumInterval:    time.Second,
	}

	require.Equal(t, 10*time.Millisecond, options.retryBackoffInterval(1))
	require.Equal(t, 20*time.Millisecond, options.retryBackoffInterval(2))
	require.Equal(t, 160*time.Millisecond, options.retryBackoffInterval(5))
	require.Equal(t, time.Second, options.retryBackoffInterval(20))
}

func TestRetryOptions_BackoffInterval_Defaults(t *testing.T) {
	options := RetryOptions{InitialInterval: 10 * time.Millisecond}

	// default coefficient is 2
	require.Equal(t, 20*time.Millisecond, options.retryBackoffInterval(2))
	// without a maximum, the cap is initial * 100
	require.Equal(t, time.Second, options.retryBackoffInterval(30))
}

func TestRetryOptions_ShouldRetry(t *testing.T) {
	genericErr := errors.New("transient failure")

	testCases := []struct {
		name     string
		options  RetryOptions
		err      error
		attempt  int32
		elapsed  time.Duration
		sleep    time.Duration
		expected bool
	}{
		{
			name:     "retry by default",
			options:  RetryOptions{InitialInterval: time.Millisecond},
			err:      genericErr,
			attempt:  1,
			expected: true,
		},
		{
			name: "do not retry listed kind",
			options: RetryOptions{
				InitialInterval: time.Millisecond,
				DoNotRetry:      []string{"fatal-config-error"},
			},
			err:      NewCustomError("fatal-config-error"),
			attempt:  1,
			expected: false,
		},
		{
			name: "other custom reasons still retry",
			options: RetryOptions{
				InitialInterval: time.Millisecond,
				DoNotRetry:      []string{"fatal-config-error"},
			},
			err:      NewCustomError("flaky-downstream"),
			attempt:  1,
			expected: true,
		},
		{
			name: "maximum attempts reached",
			options: RetryOptions{
				InitialInterval: time.Millisecond,
				MaximumAttempts: 3,
			},
			err:      genericErr,
			attempt:  3,
			expected: false,
		},
		{
			name: "below maximum attempts",
			options: RetryOptions{
				InitialInterval: time.Millisecond,
				MaximumAttempts: 3,
			},
			err:      genericErr,
			attempt:  2,
			expected: true,
		},
		{
			name: "expiration reached past minimum attempts",
			options: RetryOptions{
				InitialInterval: time.Millisecond,
				Expiration:      100 * time.Millisecond,
				MinimumAttempts: 2,
			},
			err:      genericErr,
			attempt:  3,
			elapsed:  90 * time.Millisecond,
			sleep:    20 * time.Millisecond,
			expected: false,
		},
		{
			name: "expiration reached but minimum attempts not done",
			options: RetryOptions{
				InitialInterval: time.Millisecond,
				Expiration:      100 * time.Millisecond,
				MinimumAttempts: 5,
			},
			err:      genericErr,
			attempt:  3,
			elapsed:  90 * time.Millisecond,
			sleep:    20 * time.Millisecond,
			expected: true,
		},
		{
			name: "expiration not reached",
			options: RetryOptions{
				InitialInterval: time.Millisecond,
				Expiration:      100 * time.Millisecond,
			},
			err:      genericErr,
			attempt:  3,
			elapsed:  50 * time.Millisecond,
			sleep:    20 * time.Millisecond,
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.options.shouldRetry(tc.err, tc.attempt, tc.elapsed, tc.sleep)
			require.Equal(t, tc.expected, got)
		})
	}
}

// The evaluator consults the cause of activity and child workflow failures,
// not the wrapper.
func TestRetryOptions_ShouldRetry_UnwrapsCause(t *testing.T) {
	options := RetryOptions{
		InitialInterval: time.Millisecond,
		DoNotRetry:      []string{"fatal-config-error"},
	}

	wrapped := newActivityTaskError(5, 6, nil, "a1", NewCustomError("fatal-config-error"))
	require.False(t, options.shouldRetry(wrapped, 1, 0, 0))

	childWrapped := newChildWorkflowExecutionError(
		"domain", "wid", "rid", "wtype", 5, 6, NewCustomError("fatal-config-error"))
	require.False(t, options.shouldRetry(childWrapped, 1, 0, 0))

	retryableWrapped := newActivityTaskError(5, 6, nil, "a1", NewCustomError("flaky-downstream"))
	require.True(t, options.shouldRetry(retryableWrapped, 1, 0, 0))
}

func TestWithRetry(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), RetryOptions{InitialInterval: time.Millisecond}, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestWithRetry_NonRetryable(t *testing.T) {
	attempts := 0
	options := RetryOptions{
		InitialInterval: time.Millisecond,
		DoNotRetry:      []string{"fatal-config-error"},
	}
	err := WithRetry(context.Background(), options, func() error {
		attempts++
		return NewCustomError("fatal-config-error")
	})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestWithRetry_MaximumAttempts(t *testing.T) {
	attempts := 0
	options := RetryOptions{
		InitialInterval: time.Millisecond,
		MaximumAttempts: 4,
	}
	err := WithRetry(context.Background(), options, func() error {
		attempts++
		return errors.New("always failing")
	})
	require.Error(t, err)
	require.Equal(t, 4, attempts)
}
