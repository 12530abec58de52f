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

// Package common contains small helpers shared across the client internals.
package common

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tideflow-io/tideflow-go-client/shared"
)

// Int32Ptr makes a copy and returns the pointer to an int32.
func Int32Ptr(v int32) *int32 {
	return &v
}

// Int64Ptr makes a copy and returns the pointer to an int64.
func Int64Ptr(v int64) *int64 {
	return &v
}

// Float64Ptr makes a copy and returns the pointer to a float64.
func Float64Ptr(v float64) *float64 {
	return &v
}

// BoolPtr makes a copy and returns the pointer to a bool.
func BoolPtr(v bool) *bool {
	return &v
}

// StringPtr makes a copy and returns the pointer to a string.
func StringPtr(v string) *string {
	return &v
}

// EventTypePtr makes a copy and returns the pointer to an EventType.
func EventTypePtr(t shared.EventType) *shared.EventType {
	return &t
}

// DecisionTypePtr makes a copy and returns the pointer to a DecisionType.
func DecisionTypePtr(t shared.DecisionType) *shared.DecisionType {
	return &t
}

// TimeoutTypePtr makes a copy and returns the pointer to a TimeoutType.
func TimeoutTypePtr(t shared.TimeoutType) *shared.TimeoutType {
	return &t
}

// DecisionTaskFailedCausePtr makes a copy and returns the pointer to a DecisionTaskFailedCause.
func DecisionTaskFailedCausePtr(t shared.DecisionTaskFailedCause) *shared.DecisionTaskFailedCause {
	return &t
}

// QueryTaskCompletedTypePtr makes a copy and returns the pointer to a QueryTaskCompletedType.
func QueryTaskCompletedTypePtr(t shared.QueryTaskCompletedType) *shared.QueryTaskCompletedType {
	return &t
}

// TaskListPtr makes a copy and returns the pointer to a TaskList.
func TaskListPtr(v shared.TaskList) *shared.TaskList {
	return &v
}

// WorkflowTypePtr makes a copy and returns the pointer to a WorkflowType.
func WorkflowTypePtr(v shared.WorkflowType) *shared.WorkflowType {
	return &v
}

// ActivityTypePtr makes a copy and returns the pointer to an ActivityType.
func ActivityTypePtr(v shared.ActivityType) *shared.ActivityType {
	return &v
}

// WorkflowIdReusePolicyPtr makes a copy and returns the pointer to a WorkflowIdReusePolicy.
func WorkflowIdReusePolicyPtr(v shared.WorkflowIdReusePolicy) *shared.WorkflowIdReusePolicy {
	return &v
}

// Int32Ceil rounds a duration expressed in seconds up to the next int32.
func Int32Ceil(v float64) int32 {
	return int32(math.Ceil(v))
}

// AwaitWaitGroup calls Wait on the given wait group with a timeout. Returns
// true if the wait completed, false on timeout.
func AwaitWaitGroup(wg *sync.WaitGroup, timeout time.Duration) bool {
	doneC := make(chan struct{})

	go func() {
		wg.Wait()
		close(doneC)
	}()

	timer := time.NewTimer(timeout)
	defer func() { timer.Stop() }()

	select {
	case <-doneC:
		return true
	case <-timer.C:
		return false
	}
}

// HistoryEventToString returns a short human readable form of a history event
// for diagnostics.
func HistoryEventToString(e *shared.HistoryEvent) string {
	return fmt.Sprintf("HistoryEvent{EventId: %v, EventType: %v}", e.GetEventId(), e.GetEventType())
}
