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
	"math"
	"time"
)

const (
	defaultRetryBackoffCoefficient = 2.0

	// when no maximum interval is configured, the delay is capped at this
	// multiple of the initial interval
	defaultMaximumIntervalMultiplier = 100
)

// RetryOptions configure the user visible retry helper. The same evaluation
// rules back workflow and activity level retries.
type RetryOptions struct {
	// InitialInterval is the delay before the first retry. Required.
	InitialInterval time.Duration

	// BackoffCoefficient is the growth rate between attempts. Defaults to 2.
	BackoffCoefficient float64

	// MaximumInterval caps the delay between attempts. When unset, the cap is
	// InitialInterval * 100.
	MaximumInterval time.Duration

	// Expiration bounds the total elapsed time across attempts. Zero means
	// unbounded.
	Expiration time.Duration

	// MaximumAttempts bounds the number of attempts. Zero means unbounded.
	MaximumAttempts int32

	// MinimumAttempts are performed even past the expiration.
	MinimumAttempts int32

	// DoNotRetry lists error kinds that are rethrown without retrying. Kinds
	// are the reasons of CustomError plus the framework kinds for canceled,
	// timeout, panic and generic errors.
	DoNotRetry []string
}

// errorKind maps an error to the kind DoNotRetry matches against.
func errorKind(err error) string {
	switch typed := err.(type) {
	case *CustomError:
		return typed.Reason()
	case *CanceledError:
		return errReasonCanceled
	case *TimeoutError:
		return errReasonTimeout
	case *PanicError:
		return errReasonPanic
	}
	return errReasonGeneric
}

// retryBackoffInterval computes the sleep before attempt+1. attempt counts
// from 1.
func (o RetryOptions) retryBackoffInterval(attempt int32) time.Duration {
	coefficient := o.BackoffCoefficient
	if coefficient == 0 {
		coefficient = defaultRetryBackoffCoefficient
	}
	maximum := o.MaximumInterval
	if maximum == 0 {
		maximum = time.Duration(defaultMaximumIntervalMultiplier) * o.InitialInterval
	}

	interval := float64(o.InitialInterval) * math.Pow(coefficient, float64(attempt-1))
	if interval > float64(maximum) {
		return maximum
	}
	return time.Duration(interval)
}

// shouldRetry decides whether the operation is retried after the given error
// on the given attempt. Errors from failed activities and child workflows are
// consulted through their cause.
func (o RetryOptions) shouldRetry(err error, attempt int32, elapsed, nextSleep time.Duration) bool {
	cause := errorCause(err)

	kind := errorKind(cause)
	for _, doNotRetry := range o.DoNotRetry {
		if doNotRetry == kind {
			return false
		}
	}

	if o.MaximumAttempts > 0 && attempt >= o.MaximumAttempts {
		return false
	}

	if o.Expiration > 0 && elapsed+nextSleep >= o.Expiration && attempt > o.MinimumAttempts {
		return false
	}

	return true
}

// WithRetry runs op until it succeeds or the options rethrow its error.
// Between attempts it sleeps the exponential backoff interval; the context
// cancels the sleep.
func WithRetry(ctx context.Context, options RetryOptions, op func() error) error {
	var attempt int32
	start := time.Now()
	for {
		attempt++
		err := op()
		if err == nil {
			return nil
		}

		nextSleep := options.retryBackoffInterval(attempt)
		if !options.shouldRetry(err, attempt, time.Since(start), nextSleep) {
			return err
		}

		timer := time.NewTimer(nextSleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
