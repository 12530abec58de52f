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
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/require"
)

func TestExponentialRetryPolicy_NextDelay(t *testing.T) {
	policy := NewExponentialRetryPolicy(10 * time.Millisecond)
	policy.SetBackoffCoefficient(2)
	policy.SetMaximumInterval(time.Second)

	expected := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		80 * time.Millisecond,
		160 * time.Millisecond,
		320 * time.Millisecond,
		640 * time.Millisecond,
		time.Second,
		time.Second,
	}
	for attempt, want := range expected {
		require.Equal(t, want, policy.ComputeNextDelay(0, attempt), "attempt %v", attempt)
	}
}

func TestExponentialRetryPolicy_MaximumAttempts(t *testing.T) {
	policy := NewExponentialRetryPolicy(10 * time.Millisecond)
	policy.SetMaximumAttempts(3)

	require.NotEqual(t, done, policy.ComputeNextDelay(0, 2))
	require.Equal(t, done, policy.ComputeNextDelay(0, 3))
}

func TestExponentialRetryPolicy_Expiration(t *testing.T) {
	policy := NewExponentialRetryPolicy(10 * time.Millisecond)
	policy.SetExpirationInterval(100 * time.Millisecond)

	require.Equal(t, done, policy.ComputeNextDelay(101*time.Millisecond, 0))
	// the delay never reaches past the expiration
	require.Equal(t, 20*time.Millisecond, policy.ComputeNextDelay(80*time.Millisecond, 5))
}

func TestRetrier_TracksElapsedTimeWithClock(t *testing.T) {
	mockClock := clock.NewMock()

	policy := NewExponentialRetryPolicy(10 * time.Millisecond)
	policy.SetBackoffCoefficient(2)
	policy.SetExpirationInterval(50 * time.Millisecond)

	r := NewRetrier(policy, mockClock)
	require.Equal(t, 10*time.Millisecond, r.NextBackOff())

	mockClock.Add(60 * time.Millisecond)
	require.Equal(t, done, r.NextBackOff())

	r.Reset()
	require.Equal(t, 10*time.Millisecond, r.NextBackOff())
}
