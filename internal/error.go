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
	"errors"
	"fmt"

	"github.com/tideflow-io/tideflow-go-client/shared"
)

/*
If an activity fails, the workflow code gets the error back with enough
information to decide what to do next. Activity failures surface as one of:

1) *CustomError: the activity returned NewCustomError() with a reason string
   and optional details. The workflow can switch on Reason() and decode the
   details into strongly typed values.
2) *GenericError: the activity returned an arbitrary error; only its message
   survives the trip through the service.
3) *CanceledError: the activity was canceled, either through the cancel
   request or by returning NewCanceledError().
4) *TimeoutError: one of the activity timeouts fired; TimeoutType() says which.
5) *PanicError: the activity code panicked. The error carries the panic value
   and the stack trace.

Errors from child workflows are wrapped the same way. Use errors.As to match.
*/

type (
	// CustomError returned from workflow and activity implementations with
	// a reason and optional details.
	CustomError struct {
		reason  string
		details Values
	}

	// GenericError wraps an error message that has no richer representation.
	GenericError struct {
		err string
	}

	// TimeoutError returned when an activity or child workflow timed out.
	TimeoutError struct {
		timeoutType shared.TimeoutType
		details     Values
	}

	// CanceledError returned when an operation was canceled.
	CanceledError struct {
		details Values
	}

	// TerminatedError returned when a workflow was terminated.
	TerminatedError struct {
	}

	// PanicError contains information about a panicked workflow or activity.
	PanicError struct {
		value      interface{}
		stackTrace string
	}

	// workflowPanicError distinguishes a go panic inside workflow code from a
	// PanicError value returned by a workflow function.
	workflowPanicError struct {
		value      interface{}
		stackTrace string
	}

	// ContinueAsNewError is returned from a workflow to end the current run
	// and atomically start a new one with fresh history.
	ContinueAsNewError struct {
		params *executeWorkflowParams
	}

	// ActivityTaskError is delivered to workflow code when an activity failed.
	// Unwrap to get the actual cause.
	ActivityTaskError struct {
		scheduledEventID int64
		startedEventID   int64
		activityType     *shared.ActivityType
		activityID       string
		identity         string
		cause            error
	}

	// ChildWorkflowExecutionError is delivered to workflow code when a child
	// workflow failed. Unwrap to get the actual cause.
	ChildWorkflowExecutionError struct {
		domain           string
		workflowID       string
		runID            string
		workflowType     string
		initiatedEventID int64
		startedEventID   int64
		cause            error
	}

	// UnknownExternalWorkflowExecutionError is returned when a signaled or
	// canceled external workflow does not exist.
	UnknownExternalWorkflowExecutionError struct{}
)

// Wire error reasons used to round-trip typed errors through the service.
const (
	errReasonPanic    = "tideflowInternal:Panic"
	errReasonGeneric  = "tideflowInternal:Generic"
	errReasonCanceled = "tideflowInternal:Canceled"
	errReasonTimeout  = "tideflowInternal:Timeout"
)

// ErrNoData is returned when trying to extract strongly typed data while
// there is no data available.
var ErrNoData = errors.New("no data available")

// ErrTooManyArg is returned when trying to extract more values than encoded.
var ErrTooManyArg = errors.New("too many arguments")

// ErrActivityResultPending is returned from an activity implementation to
// indicate the activity will be completed asynchronously through
// Client.CompleteActivity().
var ErrActivityResultPending = errors.New("not error: do not autocomplete, using Client.CompleteActivity() to complete")

// errShutdown is returned from pollers when the worker is stopping.
var errShutdown = errors.New("worker is now shutdown")

// NewCustomError creates a CustomError with a reason and optional details.
func NewCustomError(reason string, details ...interface{}) *CustomError {
	if len(details) == 1 {
		if d, ok := details[0].(*EncodedValues); ok {
			return &CustomError{reason: reason, details: d}
		}
	}
	return &CustomError{reason: reason, details: ErrorDetailsValues(details)}
}

// NewTimeoutError creates a TimeoutError.
func NewTimeoutError(timeoutType shared.TimeoutType, details ...interface{}) *TimeoutError {
	if len(details) == 1 {
		if d, ok := details[0].(*EncodedValues); ok {
			return &TimeoutError{timeoutType: timeoutType, details: d}
		}
	}
	return &TimeoutError{timeoutType: timeoutType, details: ErrorDetailsValues(details)}
}

// NewHeartbeatTimeoutError creates a heartbeat TimeoutError.
func NewHeartbeatTimeoutError(details ...interface{}) *TimeoutError {
	return NewTimeoutError(shared.TimeoutTypeHeartbeat, details...)
}

// NewCanceledError creates a CanceledError.
func NewCanceledError(details ...interface{}) *CanceledError {
	if len(details) == 1 {
		if d, ok := details[0].(*EncodedValues); ok {
			return &CanceledError{details: d}
		}
	}
	return &CanceledError{details: ErrorDetailsValues(details)}
}

func newActivityTaskError(
	scheduledEventID int64,
	startedEventID int64,
	activityType *shared.ActivityType,
	activityID string,
	cause error,
) *ActivityTaskError {
	return &ActivityTaskError{
		scheduledEventID: scheduledEventID,
		startedEventID:   startedEventID,
		activityType:     activityType,
		activityID:       activityID,
		cause:            cause,
	}
}

func newChildWorkflowExecutionError(
	domain, workflowID, runID, workflowType string,
	initiatedEventID, startedEventID int64,
	cause error,
) *ChildWorkflowExecutionError {
	return &ChildWorkflowExecutionError{
		domain:           domain,
		workflowID:       workflowID,
		runID:            runID,
		workflowType:     workflowType,
		initiatedEventID: initiatedEventID,
		startedEventID:   startedEventID,
		cause:            cause,
	}
}

func newPanicError(value interface{}, stackTrace string) *PanicError {
	return &PanicError{value: value, stackTrace: stackTrace}
}

func newWorkflowPanicError(value interface{}, stackTrace string) error {
	return &workflowPanicError{value: value, stackTrace: stackTrace}
}

// Error implements error.
func (e *CustomError) Error() string {
	return e.reason
}

// Reason gets the reason of this custom error.
func (e *CustomError) Reason() string {
	return e.reason
}

// HasDetails returns whether this error carries strongly typed details.
func (e *CustomError) HasDetails() bool {
	return e.details != nil && e.details.HasValues()
}

// Details extracts strongly typed detail data of this custom error.
func (e *CustomError) Details(d ...interface{}) error {
	if !e.HasDetails() {
		return ErrNoData
	}
	return e.details.Get(d...)
}

// Error implements error.
func (e *GenericError) Error() string {
	return e.err
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("TimeoutType: %v", e.timeoutType)
}

// TimeoutType returns which timeout fired.
func (e *TimeoutError) TimeoutType() shared.TimeoutType {
	return e.timeoutType
}

// HasDetails returns whether this error carries last heartbeat details.
func (e *TimeoutError) HasDetails() bool {
	return e.details != nil && e.details.HasValues()
}

// Details extracts last heartbeat details.
func (e *TimeoutError) Details(d ...interface{}) error {
	if !e.HasDetails() {
		return ErrNoData
	}
	return e.details.Get(d...)
}

// Error implements error.
func (e *CanceledError) Error() string {
	return "CanceledError"
}

// HasDetails returns whether this error carries cancellation details.
func (e *CanceledError) HasDetails() bool {
	return e.details != nil && e.details.HasValues()
}

// Details extracts cancellation details.
func (e *CanceledError) Details(d ...interface{}) error {
	if !e.HasDetails() {
		return ErrNoData
	}
	return e.details.Get(d...)
}

// Error implements error.
func (e *TerminatedError) Error() string {
	return "TerminatedError"
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%v", e.value)
}

// StackTrace returns the stack trace captured at panic time.
func (e *PanicError) StackTrace() string {
	return e.stackTrace
}

func (e *workflowPanicError) Error() string {
	return fmt.Sprintf("%v", e.value)
}

func (e *workflowPanicError) StackTrace() string {
	return e.stackTrace
}

// Error implements error.
func (e *ContinueAsNewError) Error() string {
	return "ContinueAsNew"
}

// Error implements error.
func (e *ActivityTaskError) Error() string {
	return fmt.Sprintf("activity task error (scheduledEventID: %d, startedEventID: %d, activityType: %v, activityID: %v): %v",
		e.scheduledEventID, e.startedEventID, e.activityType.GetName(), e.activityID, e.cause)
}

// Unwrap returns the cause of the activity failure.
func (e *ActivityTaskError) Unwrap() error {
	return e.cause
}

// ActivityID returns the user supplied id of the failed activity.
func (e *ActivityTaskError) ActivityID() string {
	return e.activityID
}

// Error implements error.
func (e *ChildWorkflowExecutionError) Error() string {
	return fmt.Sprintf("child workflow execution error (workflowID: %v, runID: %v, workflowType: %v): %v",
		e.workflowID, e.runID, e.workflowType, e.cause)
}

// Unwrap returns the cause of the child workflow failure.
func (e *ChildWorkflowExecutionError) Unwrap() error {
	return e.cause
}

// Error implements error.
func (e *UnknownExternalWorkflowExecutionError) Error() string {
	return "UnknownExternalWorkflowExecutionError"
}

// errorCause unwraps activity and child workflow wrappers one level; the
// retry evaluator consults the cause, not the wrapper.
func errorCause(err error) error {
	switch typed := err.(type) {
	case *ActivityTaskError:
		return typed.cause
	case *ChildWorkflowExecutionError:
		return typed.cause
	}
	return err
}

// getErrorDetails flattens a typed error into the (reason, details) pair sent
// over the wire.
func getErrorDetails(err error, dataConverter DataConverter) (string, []byte) {
	switch err := err.(type) {
	case *CustomError:
		data, err2 := encodeDetails(err.details, dataConverter)
		if err2 != nil {
			panic(err2)
		}
		return err.Reason(), data
	case *CanceledError:
		data, err2 := encodeDetails(err.details, dataConverter)
		if err2 != nil {
			panic(err2)
		}
		return errReasonCanceled, data
	case *TimeoutError:
		data, err2 := encodeDetails(err.details, dataConverter)
		if err2 != nil {
			panic(err2)
		}
		details, err3 := encodeArgs(dataConverter, []interface{}{err.timeoutType, data})
		if err3 != nil {
			panic(err3)
		}
		return errReasonTimeout, details
	case *PanicError:
		data, err2 := encodeArgs(dataConverter, []interface{}{err.Error(), err.StackTrace()})
		if err2 != nil {
			panic(err2)
		}
		return errReasonPanic, data
	case *workflowPanicError:
		data, err2 := encodeArgs(dataConverter, []interface{}{err.Error(), err.StackTrace()})
		if err2 != nil {
			panic(err2)
		}
		return errReasonPanic, data
	}

	data, err2 := encodeArgs(dataConverter, []interface{}{err.Error()})
	if err2 != nil {
		panic(err2)
	}
	return errReasonGeneric, data
}

// constructError rebuilds a typed error from a wire (reason, details) pair.
func constructError(reason string, details []byte, dataConverter DataConverter) error {
	switch reason {
	case errReasonPanic:
		var msg, st string
		_ = newEncodedValues(details, dataConverter).Get(&msg, &st)
		return newPanicError(msg, st)
	case errReasonGeneric:
		var msg string
		details := newEncodedValues(details, dataConverter)
		if err := details.Get(&msg); err != nil {
			return &GenericError{err: string(err.Error())}
		}
		return &GenericError{err: msg}
	case errReasonCanceled:
		details := newEncodedValues(details, dataConverter)
		return NewCanceledError(details)
	case errReasonTimeout:
		var timeoutType shared.TimeoutType
		var data []byte
		values := newEncodedValues(details, dataConverter)
		if err := values.Get(&timeoutType, &data); err != nil {
			return &GenericError{err: reason}
		}
		return NewTimeoutError(timeoutType, newEncodedValues(data, dataConverter))
	}

	// unrecognized reason, keep it as a custom error with encoded details
	return NewCustomError(reason, newEncodedValues(details, dataConverter))
}

func encodeDetails(details Values, dataConverter DataConverter) ([]byte, error) {
	switch d := details.(type) {
	case ErrorDetailsValues:
		if !d.HasValues() {
			return nil, nil
		}
		return encodeArgs(dataConverter, d)
	case *EncodedValues:
		return d.values, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown error details type %T", details)
}
