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

package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetrySuccess(t *testing.T) {
	i := 0
	op := func() error {
		i++

		if i == 5 {
			return nil
		}

		return &someError{}
	}

	policy := NewExponentialRetryPolicy(1 * time.Millisecond)
	policy.SetMaximumInterval(5 * time.Millisecond)
	policy.SetExpirationInterval(NoInterval)

	err := Retry(context.Background(), op, policy, nil)
	require.NoError(t, err)
	require.Equal(t, 5, i)
}

func TestRetryFailed(t *testing.T) {
	i := 0
	op := func() error {
		i++

		if i == 7 {
			return nil
		}

		return &someError{}
	}

	policy := NewExponentialRetryPolicy(5 * time.Millisecond)
	policy.SetMaximumInterval(10 * time.Millisecond)
	policy.SetExpirationInterval(20 * time.Millisecond)

	err := Retry(context.Background(), op, policy, nil)
	require.Error(t, err)
}

func TestIsRetryableSuccess(t *testing.T) {
	i := 0
	op := func() error {
		i++

		if i == 5 {
			return nil
		}

		return &someError{}
	}

	isRetryable := func(err error) bool {
		if _, ok := err.(*someError); ok {
			return true
		}

		return false
	}

	policy := NewExponentialRetryPolicy(1 * time.Millisecond)
	policy.SetMaximumInterval(5 * time.Millisecond)
	policy.SetExpirationInterval(NoInterval)

	err := Retry(context.Background(), op, policy, isRetryable)
	require.NoError(t, err, "Retry count: %v", i)
	require.Equal(t, 5, i)
}

func TestIsRetryableFailure(t *testing.T) {
	i := 0
	op := func() error {
		i++
		return &someError{}
	}

	isRetryable := func(err error) bool {
		return false
	}

	policy := NewExponentialRetryPolicy(1 * time.Millisecond)
	policy.SetMaximumInterval(5 * time.Millisecond)
	policy.SetExpirationInterval(NoInterval)

	err := Retry(context.Background(), op, policy, isRetryable)
	require.Error(t, err)
	require.Equal(t, 1, i)
}

func TestRetryCancelContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := func() error {
		return &someError{}
	}

	policy := NewExponentialRetryPolicy(10 * time.Millisecond)
	policy.SetExpirationInterval(NoInterval)

	err := Retry(ctx, op, policy, nil)
	require.Error(t, err)
}

// After consecutive failures the throttle delay follows
// initial · coefficient^(failures−1), capped at the maximum; one success
// resets it to zero.
func TestConcurrentRetrier(t *testing.T) {
	policy := NewExponentialRetryPolicy(10 * time.Millisecond)
	policy.SetBackoffCoefficient(2)
	policy.SetMaximumInterval(time.Second)
	policy.SetExpirationInterval(NoInterval)

	retrier := NewConcurrentRetrier(policy)

	// no failures yet: no delay
	require.Equal(t, done, retrier.throttleInternal())

	expected := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		80 * time.Millisecond,
		160 * time.Millisecond,
	}
	for _, want := range expected {
		retrier.Failed()
		require.Equal(t, want, retrier.throttleInternal())
	}

	retrier.Succeeded()
	require.Equal(t, int64(0), retrier.FailureCount())
	require.Equal(t, done, retrier.throttleInternal())
}

func TestConcurrentRetrier_CapsAtMaximum(t *testing.T) {
	policy := NewExponentialRetryPolicy(10 * time.Millisecond)
	policy.SetBackoffCoefficient(2)
	policy.SetMaximumInterval(40 * time.Millisecond)
	policy.SetExpirationInterval(NoInterval)

	retrier := NewConcurrentRetrier(policy)

	var last time.Duration
	for i := 0; i < 5; i++ {
		retrier.Failed()
		got := retrier.throttleInternal()
		require.True(t, got >= last, "delay is monotone non-decreasing until capped")
		require.True(t, got <= 40*time.Millisecond)
		last = got
	}
	require.Equal(t, 40*time.Millisecond, last)
}

type someError struct{}

func (e *someError) Error() string {
	return "Some Error"
}
