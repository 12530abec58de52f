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

// Package tideflow contains the error types and retry options user code works
// with across the workflow, activity and client surfaces.
package tideflow

import (
	"github.com/tideflow-io/tideflow-go-client/internal"
)

type (
	// CustomError is returned from workflow and activity implementations with
	// a reason and optional details.
	CustomError = internal.CustomError

	// GenericError wraps an error message with no richer representation.
	GenericError = internal.GenericError

	// CanceledError is returned when an operation was canceled.
	CanceledError = internal.CanceledError

	// TimeoutError is returned when an activity or child workflow timed out.
	TimeoutError = internal.TimeoutError

	// TerminatedError is returned when a workflow was terminated.
	TerminatedError = internal.TerminatedError

	// PanicError contains information about a panicked workflow or activity.
	PanicError = internal.PanicError

	// ActivityTaskError is delivered to workflow code when an activity failed.
	ActivityTaskError = internal.ActivityTaskError

	// ChildWorkflowExecutionError is delivered to workflow code when a child
	// workflow failed.
	ChildWorkflowExecutionError = internal.ChildWorkflowExecutionError

	// RetryOptions configure the retry helper.
	RetryOptions = internal.RetryOptions
)

// ErrActivityResultPending is returned from an activity to indicate the
// activity is completed asynchronously through Client.CompleteActivity().
var ErrActivityResultPending = internal.ErrActivityResultPending

// NewCustomError creates a CustomError with a reason and optional details.
func NewCustomError(reason string, details ...interface{}) *CustomError {
	return internal.NewCustomError(reason, details...)
}

// NewCanceledError creates a CanceledError.
func NewCanceledError(details ...interface{}) *CanceledError {
	return internal.NewCanceledError(details...)
}

// NewHeartbeatTimeoutError creates a heartbeat TimeoutError.
func NewHeartbeatTimeoutError(details ...interface{}) *TimeoutError {
	return internal.NewHeartbeatTimeoutError(details...)
}
