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

package shared

import "fmt"

// DecisionType is the type tag of a Decision.
type DecisionType int32

const (
	DecisionTypeScheduleActivityTask DecisionType = iota
	DecisionTypeRequestCancelActivityTask
	DecisionTypeStartTimer
	DecisionTypeCancelTimer
	DecisionTypeCompleteWorkflowExecution
	DecisionTypeFailWorkflowExecution
	DecisionTypeCancelWorkflowExecution
	DecisionTypeContinueAsNewWorkflowExecution
	DecisionTypeStartChildWorkflowExecution
	DecisionTypeSignalExternalWorkflowExecution
	DecisionTypeRequestCancelExternalWorkflowExecution
)

func (t DecisionType) String() string {
	switch t {
	case DecisionTypeScheduleActivityTask:
		return "ScheduleActivityTask"
	case DecisionTypeRequestCancelActivityTask:
		return "RequestCancelActivityTask"
	case DecisionTypeStartTimer:
		return "StartTimer"
	case DecisionTypeCancelTimer:
		return "CancelTimer"
	case DecisionTypeCompleteWorkflowExecution:
		return "CompleteWorkflowExecution"
	case DecisionTypeFailWorkflowExecution:
		return "FailWorkflowExecution"
	case DecisionTypeCancelWorkflowExecution:
		return "CancelWorkflowExecution"
	case DecisionTypeContinueAsNewWorkflowExecution:
		return "ContinueAsNewWorkflowExecution"
	case DecisionTypeStartChildWorkflowExecution:
		return "StartChildWorkflowExecution"
	case DecisionTypeSignalExternalWorkflowExecution:
		return "SignalExternalWorkflowExecution"
	case DecisionTypeRequestCancelExternalWorkflowExecution:
		return "RequestCancelExternalWorkflowExecution"
	}
	return fmt.Sprintf("DecisionType(%d)", int32(t))
}

type (
	// Decision is one command in a RespondDecisionTaskCompleted batch. Exactly
	// one attributes field matching DecisionType is set.
	Decision struct {
		DecisionType *DecisionType

		ScheduleActivityTaskDecisionAttributes                   *ScheduleActivityTaskDecisionAttributes
		RequestCancelActivityTaskDecisionAttributes              *RequestCancelActivityTaskDecisionAttributes
		StartTimerDecisionAttributes                             *StartTimerDecisionAttributes
		CancelTimerDecisionAttributes                            *CancelTimerDecisionAttributes
		CompleteWorkflowExecutionDecisionAttributes              *CompleteWorkflowExecutionDecisionAttributes
		FailWorkflowExecutionDecisionAttributes                  *FailWorkflowExecutionDecisionAttributes
		CancelWorkflowExecutionDecisionAttributes                *CancelWorkflowExecutionDecisionAttributes
		ContinueAsNewWorkflowExecutionDecisionAttributes         *ContinueAsNewWorkflowExecutionDecisionAttributes
		StartChildWorkflowExecutionDecisionAttributes            *StartChildWorkflowExecutionDecisionAttributes
		SignalExternalWorkflowExecutionDecisionAttributes        *SignalExternalWorkflowExecutionDecisionAttributes
		RequestCancelExternalWorkflowExecutionDecisionAttributes *RequestCancelExternalWorkflowExecutionDecisionAttributes
	}

	ScheduleActivityTaskDecisionAttributes struct {
		ActivityId                    *string
		ActivityType                  *ActivityType
		TaskList                      *TaskList
		Input                         []byte
		ScheduleToCloseTimeoutSeconds *int32
		ScheduleToStartTimeoutSeconds *int32
		StartToCloseTimeoutSeconds    *int32
		HeartbeatTimeoutSeconds       *int32
		RetryPolicy                   *RetryPolicy
	}

	RequestCancelActivityTaskDecisionAttributes struct {
		ActivityId *string
	}

	StartTimerDecisionAttributes struct {
		TimerId                   *string
		StartToFireTimeoutSeconds *int64
	}

	CancelTimerDecisionAttributes struct {
		TimerId *string
	}

	CompleteWorkflowExecutionDecisionAttributes struct {
		Result []byte
	}

	FailWorkflowExecutionDecisionAttributes struct {
		Reason  *string
		Details []byte
	}

	CancelWorkflowExecutionDecisionAttributes struct {
		Details []byte
	}

	ContinueAsNewWorkflowExecutionDecisionAttributes struct {
		WorkflowType                        *WorkflowType
		TaskList                            *TaskList
		Input                               []byte
		ExecutionStartToCloseTimeoutSeconds *int32
		TaskStartToCloseTimeoutSeconds      *int32
		RetryPolicy                         *RetryPolicy
		CronSchedule                        *string
	}

	StartChildWorkflowExecutionDecisionAttributes struct {
		Domain                              *string
		WorkflowId                          *string
		WorkflowType                        *WorkflowType
		TaskList                            *TaskList
		Input                               []byte
		ExecutionStartToCloseTimeoutSeconds *int32
		TaskStartToCloseTimeoutSeconds      *int32
		WorkflowIdReusePolicy               *WorkflowIdReusePolicy
		RetryPolicy                         *RetryPolicy
		CronSchedule                        *string
	}

	SignalExternalWorkflowExecutionDecisionAttributes struct {
		Domain            *string
		Execution         *WorkflowExecution
		SignalName        *string
		Input             []byte
		Control           []byte
		ChildWorkflowOnly *bool
	}

	RequestCancelExternalWorkflowExecutionDecisionAttributes struct {
		Domain            *string
		WorkflowId        *string
		RunId             *string
		Control           []byte
		ChildWorkflowOnly *bool
	}
)

func (d *Decision) GetDecisionType() DecisionType {
	if d != nil && d.DecisionType != nil {
		return *d.DecisionType
	}
	return DecisionType(-1)
}

func (a *ScheduleActivityTaskDecisionAttributes) GetActivityId() string {
	if a != nil && a.ActivityId != nil {
		return *a.ActivityId
	}
	return ""
}

func (a *RequestCancelActivityTaskDecisionAttributes) GetActivityId() string {
	if a != nil && a.ActivityId != nil {
		return *a.ActivityId
	}
	return ""
}

func (a *StartTimerDecisionAttributes) GetTimerId() string {
	if a != nil && a.TimerId != nil {
		return *a.TimerId
	}
	return ""
}

func (a *StartTimerDecisionAttributes) GetStartToFireTimeoutSeconds() int64 {
	if a != nil && a.StartToFireTimeoutSeconds != nil {
		return *a.StartToFireTimeoutSeconds
	}
	return 0
}

func (a *CancelTimerDecisionAttributes) GetTimerId() string {
	if a != nil && a.TimerId != nil {
		return *a.TimerId
	}
	return ""
}

func (a *StartChildWorkflowExecutionDecisionAttributes) GetWorkflowId() string {
	if a != nil && a.WorkflowId != nil {
		return *a.WorkflowId
	}
	return ""
}

func (a *FailWorkflowExecutionDecisionAttributes) GetReason() string {
	if a != nil && a.Reason != nil {
		return *a.Reason
	}
	return ""
}

// IsWorkflowCompletion reports whether the decision closes the current
// workflow execution.
func (d *Decision) IsWorkflowCompletion() bool {
	switch d.GetDecisionType() {
	case DecisionTypeCompleteWorkflowExecution,
		DecisionTypeFailWorkflowExecution,
		DecisionTypeCancelWorkflowExecution,
		DecisionTypeContinueAsNewWorkflowExecution:
		return true
	}
	return false
}
