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

// Package backoff implements exponential backoff policies and retry helpers.
package backoff

import (
	"math"
	"time"

	"github.com/facebookgo/clock"
)

const (
	// NoInterval represents an unset interval on a retry policy.
	NoInterval = 0

	// NoMaximumAttempts represents an unbounded number of attempts.
	NoMaximumAttempts = 0

	defaultBackoffCoefficient = 2.0

	done time.Duration = -1
)

type (
	// RetryPolicy computes the delay before the next attempt.
	RetryPolicy interface {
		// ComputeNextDelay returns the delay before attempt numAttempts+1,
		// or a negative duration when retries are exhausted. numAttempts is
		// the count of attempts already made.
		ComputeNextDelay(elapsedTime time.Duration, numAttempts int) time.Duration
	}

	// Retrier manages the state of one retry sequence over a RetryPolicy.
	Retrier interface {
		NextBackOff() time.Duration
		Reset()
	}

	// ExponentialRetryPolicy is a RetryPolicy with exponentially growing
	// intervals: initial · coefficient^(attempt−1), capped at the maximum
	// interval and bounded by the expiration interval when those are set.
	ExponentialRetryPolicy struct {
		initialInterval    time.Duration
		backoffCoefficient float64
		maximumInterval    time.Duration
		expirationInterval time.Duration
		maximumAttempts    int
	}

	retrierImpl struct {
		policy         RetryPolicy
		clock          clock.Clock
		currentAttempt int
		startTime      time.Time
	}
)

// SystemClock is the wall clock used by retriers outside tests.
var SystemClock = clock.New()

// NewExponentialRetryPolicy returns a policy with the given initial interval,
// the default coefficient and no caps.
func NewExponentialRetryPolicy(initialInterval time.Duration) *ExponentialRetryPolicy {
	return &ExponentialRetryPolicy{
		initialInterval:    initialInterval,
		backoffCoefficient: defaultBackoffCoefficient,
		maximumInterval:    NoInterval,
		expirationInterval: NoInterval,
		maximumAttempts:    NoMaximumAttempts,
	}
}

// SetInitialInterval sets the delay before the first retry.
func (p *ExponentialRetryPolicy) SetInitialInterval(initialInterval time.Duration) {
	p.initialInterval = initialInterval
}

// SetBackoffCoefficient sets the growth rate between attempts.
func (p *ExponentialRetryPolicy) SetBackoffCoefficient(backoffCoefficient float64) {
	p.backoffCoefficient = backoffCoefficient
}

// SetMaximumInterval caps the delay between attempts.
func (p *ExponentialRetryPolicy) SetMaximumInterval(maximumInterval time.Duration) {
	p.maximumInterval = maximumInterval
}

// SetExpirationInterval bounds the total elapsed time across attempts.
func (p *ExponentialRetryPolicy) SetExpirationInterval(expirationInterval time.Duration) {
	p.expirationInterval = expirationInterval
}

// SetMaximumAttempts bounds the number of attempts.
func (p *ExponentialRetryPolicy) SetMaximumAttempts(maximumAttempts int) {
	p.maximumAttempts = maximumAttempts
}

// ComputeNextDelay implements RetryPolicy.
func (p *ExponentialRetryPolicy) ComputeNextDelay(elapsedTime time.Duration, numAttempts int) time.Duration {
	if p.maximumAttempts != NoMaximumAttempts && numAttempts >= p.maximumAttempts {
		return done
	}

	if p.expirationInterval != NoInterval && elapsedTime > p.expirationInterval {
		return done
	}

	nextInterval := float64(p.initialInterval) * math.Pow(p.backoffCoefficient, float64(numAttempts))
	if nextInterval <= 0 {
		// initialInterval was negative or the interval overflowed
		return done
	}

	if p.maximumInterval != NoInterval {
		nextInterval = math.Min(nextInterval, float64(p.maximumInterval))
	}

	if p.expirationInterval != NoInterval {
		remainingTime := math.Max(0, float64(p.expirationInterval-elapsedTime))
		nextInterval = math.Min(remainingTime, nextInterval)
		if nextInterval <= 0 {
			return done
		}
	}

	return time.Duration(nextInterval)
}

// NewRetrier returns a Retrier bound to the given policy and clock.
func NewRetrier(policy RetryPolicy, clock clock.Clock) Retrier {
	return &retrierImpl{
		policy:         policy,
		clock:          clock,
		startTime:      clock.Now(),
		currentAttempt: 0,
	}
}

// Reset rewinds the retrier for a fresh retry sequence.
func (r *retrierImpl) Reset() {
	r.startTime = r.clock.Now()
	r.currentAttempt = 0
}

// NextBackOff returns the delay to wait before the next attempt, advancing
// the attempt count.
func (r *retrierImpl) NextBackOff() time.Duration {
	nextInterval := r.policy.ComputeNextDelay(r.getElapsedTime(), r.currentAttempt)
	r.currentAttempt++
	return nextInterval
}

func (r *retrierImpl) getElapsedTime() time.Duration {
	return r.clock.Now().Sub(r.startTime)
}
