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

// Package shared contains the wire types exchanged with the Tideflow service.
// Optional fields are pointers with nil-safe accessors, matching the IDL the
// service speaks.
package shared

import "fmt"

type (
	// EventType is the type tag of a HistoryEvent.
	EventType int32

	// TimeoutType identifies which timeout fired.
	TimeoutType int32

	// DecisionTaskFailedCause is reported on RespondDecisionTaskFailed.
	DecisionTaskFailedCause int32

	// ChildWorkflowExecutionFailedCause explains a failed child workflow start.
	ChildWorkflowExecutionFailedCause int32

	// SignalExternalWorkflowExecutionFailedCause explains a failed external signal.
	SignalExternalWorkflowExecutionFailedCause int32

	// CancelExternalWorkflowExecutionFailedCause explains a failed external cancel.
	CancelExternalWorkflowExecutionFailedCause int32

	// HistoryEventFilterType selects which events GetWorkflowExecutionHistory returns.
	HistoryEventFilterType int32

	// QueryTaskCompletedType is the disposition of a query task response.
	QueryTaskCompletedType int32

	// WorkflowIdReusePolicy controls reuse of a closed workflow's ID.
	WorkflowIdReusePolicy int32
)

const (
	EventTypeWorkflowExecutionStarted EventType = iota
	EventTypeWorkflowExecutionCompleted
	EventTypeWorkflowExecutionFailed
	EventTypeWorkflowExecutionTimedOut
	EventTypeWorkflowExecutionCancelRequested
	EventTypeWorkflowExecutionCanceled
	EventTypeWorkflowExecutionTerminated
	EventTypeWorkflowExecutionContinuedAsNew
	EventTypeWorkflowExecutionSignaled
	EventTypeDecisionTaskScheduled
	EventTypeDecisionTaskStarted
	EventTypeDecisionTaskCompleted
	EventTypeDecisionTaskTimedOut
	EventTypeDecisionTaskFailed
	EventTypeActivityTaskScheduled
	EventTypeActivityTaskStarted
	EventTypeActivityTaskCompleted
	EventTypeActivityTaskFailed
	EventTypeActivityTaskTimedOut
	EventTypeActivityTaskCancelRequested
	EventTypeRequestCancelActivityTaskFailed
	EventTypeActivityTaskCanceled
	EventTypeTimerStarted
	EventTypeTimerFired
	EventTypeTimerCanceled
	EventTypeCancelTimerFailed
	EventTypeStartChildWorkflowExecutionInitiated
	EventTypeStartChildWorkflowExecutionFailed
	EventTypeChildWorkflowExecutionStarted
	EventTypeChildWorkflowExecutionCompleted
	EventTypeChildWorkflowExecutionFailed
	EventTypeChildWorkflowExecutionCanceled
	EventTypeChildWorkflowExecutionTimedOut
	EventTypeChildWorkflowExecutionTerminated
	EventTypeSignalExternalWorkflowExecutionInitiated
	EventTypeSignalExternalWorkflowExecutionFailed
	EventTypeExternalWorkflowExecutionSignaled
	EventTypeRequestCancelExternalWorkflowExecutionInitiated
	EventTypeRequestCancelExternalWorkflowExecutionFailed
	EventTypeExternalWorkflowExecutionCancelRequested
)

func (t EventType) String() string {
	switch t {
	case EventTypeWorkflowExecutionStarted:
		return "WorkflowExecutionStarted"
	case EventTypeWorkflowExecutionCompleted:
		return "WorkflowExecutionCompleted"
	case EventTypeWorkflowExecutionFailed:
		return "WorkflowExecutionFailed"
	case EventTypeWorkflowExecutionTimedOut:
		return "WorkflowExecutionTimedOut"
	case EventTypeWorkflowExecutionCancelRequested:
		return "WorkflowExecutionCancelRequested"
	case EventTypeWorkflowExecutionCanceled:
		return "WorkflowExecutionCanceled"
	case EventTypeWorkflowExecutionTerminated:
		return "WorkflowExecutionTerminated"
	case EventTypeWorkflowExecutionContinuedAsNew:
		return "WorkflowExecutionContinuedAsNew"
	case EventTypeWorkflowExecutionSignaled:
		return "WorkflowExecutionSignaled"
	case EventTypeDecisionTaskScheduled:
		return "DecisionTaskScheduled"
	case EventTypeDecisionTaskStarted:
		return "DecisionTaskStarted"
	case EventTypeDecisionTaskCompleted:
		return "DecisionTaskCompleted"
	case EventTypeDecisionTaskTimedOut:
		return "DecisionTaskTimedOut"
	case EventTypeDecisionTaskFailed:
		return "DecisionTaskFailed"
	case EventTypeActivityTaskScheduled:
		return "ActivityTaskScheduled"
	case EventTypeActivityTaskStarted:
		return "ActivityTaskStarted"
	case EventTypeActivityTaskCompleted:
		return "ActivityTaskCompleted"
	case EventTypeActivityTaskFailed:
		return "ActivityTaskFailed"
	case EventTypeActivityTaskTimedOut:
		return "ActivityTaskTimedOut"
	case EventTypeActivityTaskCancelRequested:
		return "ActivityTaskCancelRequested"
	case EventTypeRequestCancelActivityTaskFailed:
		return "RequestCancelActivityTaskFailed"
	case EventTypeActivityTaskCanceled:
		return "ActivityTaskCanceled"
	case EventTypeTimerStarted:
		return "TimerStarted"
	case EventTypeTimerFired:
		return "TimerFired"
	case EventTypeTimerCanceled:
		return "TimerCanceled"
	case EventTypeCancelTimerFailed:
		return "CancelTimerFailed"
	case EventTypeStartChildWorkflowExecutionInitiated:
		return "StartChildWorkflowExecutionInitiated"
	case EventTypeStartChildWorkflowExecutionFailed:
		return "StartChildWorkflowExecutionFailed"
	case EventTypeChildWorkflowExecutionStarted:
		return "ChildWorkflowExecutionStarted"
	case EventTypeChildWorkflowExecutionCompleted:
		return "ChildWorkflowExecutionCompleted"
	case EventTypeChildWorkflowExecutionFailed:
		return "ChildWorkflowExecutionFailed"
	case EventTypeChildWorkflowExecutionCanceled:
		return "ChildWorkflowExecutionCanceled"
	case EventTypeChildWorkflowExecutionTimedOut:
		return "ChildWorkflowExecutionTimedOut"
	case EventTypeChildWorkflowExecutionTerminated:
		return "ChildWorkflowExecutionTerminated"
	case EventTypeSignalExternalWorkflowExecutionInitiated:
		return "SignalExternalWorkflowExecutionInitiated"
	case EventTypeSignalExternalWorkflowExecutionFailed:
		return "SignalExternalWorkflowExecutionFailed"
	case EventTypeExternalWorkflowExecutionSignaled:
		return "ExternalWorkflowExecutionSignaled"
	case EventTypeRequestCancelExternalWorkflowExecutionInitiated:
		return "RequestCancelExternalWorkflowExecutionInitiated"
	case EventTypeRequestCancelExternalWorkflowExecutionFailed:
		return "RequestCancelExternalWorkflowExecutionFailed"
	case EventTypeExternalWorkflowExecutionCancelRequested:
		return "ExternalWorkflowExecutionCancelRequested"
	}
	return fmt.Sprintf("EventType(%d)", int32(t))
}

const (
	TimeoutTypeStartToClose TimeoutType = iota
	TimeoutTypeScheduleToStart
	TimeoutTypeScheduleToClose
	TimeoutTypeHeartbeat
)

func (t TimeoutType) String() string {
	switch t {
	case TimeoutTypeStartToClose:
		return "StartToClose"
	case TimeoutTypeScheduleToStart:
		return "ScheduleToStart"
	case TimeoutTypeScheduleToClose:
		return "ScheduleToClose"
	case TimeoutTypeHeartbeat:
		return "Heartbeat"
	}
	return fmt.Sprintf("TimeoutType(%d)", int32(t))
}

const (
	DecisionTaskFailedCauseUnhandledDecision DecisionTaskFailedCause = iota
	DecisionTaskFailedCauseBadRequest
	DecisionTaskFailedCauseWorkflowWorkerUnhandledFailure
)

const (
	ChildWorkflowExecutionFailedCauseWorkflowAlreadyRunning ChildWorkflowExecutionFailedCause = iota
)

const (
	SignalExternalWorkflowExecutionFailedCauseUnknownExternalWorkflowExecution SignalExternalWorkflowExecutionFailedCause = iota
)

const (
	CancelExternalWorkflowExecutionFailedCauseUnknownExternalWorkflowExecution CancelExternalWorkflowExecutionFailedCause = iota
)

const (
	HistoryEventFilterTypeAllEvent HistoryEventFilterType = iota
	HistoryEventFilterTypeCloseEvent
)

const (
	QueryTaskCompletedTypeCompleted QueryTaskCompletedType = iota
	QueryTaskCompletedTypeFailed
)

const (
	WorkflowIdReusePolicyAllowDuplicateFailedOnly WorkflowIdReusePolicy = iota
	WorkflowIdReusePolicyAllowDuplicate
	WorkflowIdReusePolicyRejectDuplicate
)

type (
	// WorkflowExecution identifies a single run of a workflow.
	WorkflowExecution struct {
		WorkflowId *string
		RunId      *string
	}

	// WorkflowType names a workflow implementation.
	WorkflowType struct {
		Name *string
	}

	// ActivityType names an activity implementation.
	ActivityType struct {
		Name *string
	}

	// TaskList names a service-side task queue.
	TaskList struct {
		Name *string
	}

	// TaskListMetadata carries per-poll task list hints.
	TaskListMetadata struct {
		MaxTasksPerSecond *float64
	}

	// WorkflowQuery is an inline query attached to a decision task.
	WorkflowQuery struct {
		QueryType *string
		QueryArgs []byte
	}

	// RetryPolicy is the server-evaluated retry configuration for workflows
	// and activities.
	RetryPolicy struct {
		InitialIntervalInSeconds    *int32
		BackoffCoefficient          *float64
		MaximumIntervalInSeconds    *int32
		MaximumAttempts             *int32
		NonRetriableErrorReasons    []string
		ExpirationIntervalInSeconds *int32
	}

	// History is an ordered page of history events.
	History struct {
		Events []*HistoryEvent
	}

	// HistoryEvent is one record of the execution's append-only event log.
	// Exactly one attributes field matching EventType is set.
	HistoryEvent struct {
		EventId   *int64
		Timestamp *int64
		EventType *EventType

		WorkflowExecutionStartedEventAttributes                        *WorkflowExecutionStartedEventAttributes
		WorkflowExecutionCompletedEventAttributes                      *WorkflowExecutionCompletedEventAttributes
		WorkflowExecutionFailedEventAttributes                         *WorkflowExecutionFailedEventAttributes
		WorkflowExecutionTimedOutEventAttributes                       *WorkflowExecutionTimedOutEventAttributes
		WorkflowExecutionCancelRequestedEventAttributes                *WorkflowExecutionCancelRequestedEventAttributes
		WorkflowExecutionCanceledEventAttributes                       *WorkflowExecutionCanceledEventAttributes
		WorkflowExecutionTerminatedEventAttributes                     *WorkflowExecutionTerminatedEventAttributes
		WorkflowExecutionContinuedAsNewEventAttributes                 *WorkflowExecutionContinuedAsNewEventAttributes
		WorkflowExecutionSignaledEventAttributes                       *WorkflowExecutionSignaledEventAttributes
		DecisionTaskScheduledEventAttributes                           *DecisionTaskScheduledEventAttributes
		DecisionTaskStartedEventAttributes                             *DecisionTaskStartedEventAttributes
		DecisionTaskCompletedEventAttributes                           *DecisionTaskCompletedEventAttributes
		DecisionTaskTimedOutEventAttributes                            *DecisionTaskTimedOutEventAttributes
		DecisionTaskFailedEventAttributes                              *DecisionTaskFailedEventAttributes
		ActivityTaskScheduledEventAttributes                           *ActivityTaskScheduledEventAttributes
		ActivityTaskStartedEventAttributes                             *ActivityTaskStartedEventAttributes
		ActivityTaskCompletedEventAttributes                           *ActivityTaskCompletedEventAttributes
		ActivityTaskFailedEventAttributes                              *ActivityTaskFailedEventAttributes
		ActivityTaskTimedOutEventAttributes                            *ActivityTaskTimedOutEventAttributes
		ActivityTaskCancelRequestedEventAttributes                     *ActivityTaskCancelRequestedEventAttributes
		RequestCancelActivityTaskFailedEventAttributes                 *RequestCancelActivityTaskFailedEventAttributes
		ActivityTaskCanceledEventAttributes                            *ActivityTaskCanceledEventAttributes
		TimerStartedEventAttributes                                    *TimerStartedEventAttributes
		TimerFiredEventAttributes                                      *TimerFiredEventAttributes
		TimerCanceledEventAttributes                                   *TimerCanceledEventAttributes
		CancelTimerFailedEventAttributes                               *CancelTimerFailedEventAttributes
		StartChildWorkflowExecutionInitiatedEventAttributes            *StartChildWorkflowExecutionInitiatedEventAttributes
		StartChildWorkflowExecutionFailedEventAttributes               *StartChildWorkflowExecutionFailedEventAttributes
		ChildWorkflowExecutionStartedEventAttributes                   *ChildWorkflowExecutionStartedEventAttributes
		ChildWorkflowExecutionCompletedEventAttributes                 *ChildWorkflowExecutionCompletedEventAttributes
		ChildWorkflowExecutionFailedEventAttributes                    *ChildWorkflowExecutionFailedEventAttributes
		ChildWorkflowExecutionCanceledEventAttributes                  *ChildWorkflowExecutionCanceledEventAttributes
		ChildWorkflowExecutionTimedOutEventAttributes                  *ChildWorkflowExecutionTimedOutEventAttributes
		ChildWorkflowExecutionTerminatedEventAttributes                *ChildWorkflowExecutionTerminatedEventAttributes
		SignalExternalWorkflowExecutionInitiatedEventAttributes        *SignalExternalWorkflowExecutionInitiatedEventAttributes
		SignalExternalWorkflowExecutionFailedEventAttributes           *SignalExternalWorkflowExecutionFailedEventAttributes
		ExternalWorkflowExecutionSignaledEventAttributes               *ExternalWorkflowExecutionSignaledEventAttributes
		RequestCancelExternalWorkflowExecutionInitiatedEventAttributes *RequestCancelExternalWorkflowExecutionInitiatedEventAttributes
		RequestCancelExternalWorkflowExecutionFailedEventAttributes    *RequestCancelExternalWorkflowExecutionFailedEventAttributes
		ExternalWorkflowExecutionCancelRequestedEventAttributes        *ExternalWorkflowExecutionCancelRequestedEventAttributes
	}

	WorkflowExecutionStartedEventAttributes struct {
		WorkflowType                        *WorkflowType
		TaskList                            *TaskList
		Input                               []byte
		ExecutionStartToCloseTimeoutSeconds *int32
		TaskStartToCloseTimeoutSeconds      *int32
		Identity                            *string
		ContinuedExecutionRunId             *string
		CronSchedule                        *string
		Attempt                             *int32
		LastCompletionResult                []byte
		RetryPolicy                         *RetryPolicy
	}

	WorkflowExecutionCompletedEventAttributes struct {
		Result                       []byte
		DecisionTaskCompletedEventId *int64
	}

	WorkflowExecutionFailedEventAttributes struct {
		Reason                       *string
		Details                      []byte
		DecisionTaskCompletedEventId *int64
	}

	WorkflowExecutionTimedOutEventAttributes struct {
		TimeoutType *TimeoutType
	}

	WorkflowExecutionCancelRequestedEventAttributes struct {
		Cause                     *string
		ExternalInitiatedEventId  *int64
		ExternalWorkflowExecution *WorkflowExecution
		Identity                  *string
	}

	WorkflowExecutionCanceledEventAttributes struct {
		DecisionTaskCompletedEventId *int64
		Details                      []byte
	}

	WorkflowExecutionTerminatedEventAttributes struct {
		Reason   *string
		Details  []byte
		Identity *string
	}

	WorkflowExecutionContinuedAsNewEventAttributes struct {
		NewExecutionRunId                   *string
		WorkflowType                        *WorkflowType
		TaskList                            *TaskList
		Input                               []byte
		ExecutionStartToCloseTimeoutSeconds *int32
		TaskStartToCloseTimeoutSeconds      *int32
		DecisionTaskCompletedEventId        *int64
	}

	WorkflowExecutionSignaledEventAttributes struct {
		SignalName *string
		Input      []byte
		Identity   *string
	}

	DecisionTaskScheduledEventAttributes struct {
		TaskList                   *TaskList
		StartToCloseTimeoutSeconds *int32
		Attempt                    *int64
	}

	DecisionTaskStartedEventAttributes struct {
		ScheduledEventId *int64
		Identity         *string
		RequestId        *string
	}

	DecisionTaskCompletedEventAttributes struct {
		ExecutionContext []byte
		ScheduledEventId *int64
		StartedEventId   *int64
		Identity         *string
		BinaryChecksum   *string
	}

	DecisionTaskTimedOutEventAttributes struct {
		ScheduledEventId *int64
		StartedEventId   *int64
		TimeoutType      *TimeoutType
	}

	DecisionTaskFailedEventAttributes struct {
		ScheduledEventId *int64
		StartedEventId   *int64
		Cause            *DecisionTaskFailedCause
		Details          []byte
		Identity         *string
	}

	ActivityTaskScheduledEventAttributes struct {
		ActivityId                    *string
		ActivityType                  *ActivityType
		TaskList                      *TaskList
		Input                         []byte
		ScheduleToCloseTimeoutSeconds *int32
		ScheduleToStartTimeoutSeconds *int32
		StartToCloseTimeoutSeconds    *int32
		HeartbeatTimeoutSeconds       *int32
		DecisionTaskCompletedEventId  *int64
		RetryPolicy                   *RetryPolicy
	}

	ActivityTaskStartedEventAttributes struct {
		ScheduledEventId *int64
		Identity         *string
		RequestId        *string
		Attempt          *int32
	}

	ActivityTaskCompletedEventAttributes struct {
		Result           []byte
		ScheduledEventId *int64
		StartedEventId   *int64
		Identity         *string
	}

	ActivityTaskFailedEventAttributes struct {
		Reason           *string
		Details          []byte
		ScheduledEventId *int64
		StartedEventId   *int64
		Identity         *string
	}

	ActivityTaskTimedOutEventAttributes struct {
		Details          []byte
		ScheduledEventId *int64
		StartedEventId   *int64
		TimeoutType      *TimeoutType
	}

	ActivityTaskCancelRequestedEventAttributes struct {
		ActivityId                   *string
		DecisionTaskCompletedEventId *int64
	}

	RequestCancelActivityTaskFailedEventAttributes struct {
		ActivityId                   *string
		Cause                        *string
		DecisionTaskCompletedEventId *int64
	}

	ActivityTaskCanceledEventAttributes struct {
		Details                      []byte
		LatestCancelRequestedEventId *int64
		ScheduledEventId             *int64
		StartedEventId               *int64
		Identity                     *string
	}

	TimerStartedEventAttributes struct {
		TimerId                      *string
		StartToFireTimeoutSeconds    *int64
		DecisionTaskCompletedEventId *int64
	}

	TimerFiredEventAttributes struct {
		TimerId        *string
		StartedEventId *int64
	}

	TimerCanceledEventAttributes struct {
		TimerId                      *string
		StartedEventId               *int64
		DecisionTaskCompletedEventId *int64
		Identity                     *string
	}

	CancelTimerFailedEventAttributes struct {
		TimerId                      *string
		Cause                        *string
		DecisionTaskCompletedEventId *int64
		Identity                     *string
	}

	StartChildWorkflowExecutionInitiatedEventAttributes struct {
		Domain                              *string
		WorkflowId                          *string
		WorkflowType                        *WorkflowType
		TaskList                            *TaskList
		Input                               []byte
		ExecutionStartToCloseTimeoutSeconds *int32
		TaskStartToCloseTimeoutSeconds      *int32
		DecisionTaskCompletedEventId        *int64
		WorkflowIdReusePolicy               *WorkflowIdReusePolicy
		RetryPolicy                         *RetryPolicy
		CronSchedule                        *string
	}

	StartChildWorkflowExecutionFailedEventAttributes struct {
		Domain                       *string
		WorkflowId                   *string
		WorkflowType                 *WorkflowType
		Cause                        *ChildWorkflowExecutionFailedCause
		InitiatedEventId             *int64
		DecisionTaskCompletedEventId *int64
	}

	ChildWorkflowExecutionStartedEventAttributes struct {
		Domain            *string
		InitiatedEventId  *int64
		WorkflowExecution *WorkflowExecution
		WorkflowType      *WorkflowType
	}

	ChildWorkflowExecutionCompletedEventAttributes struct {
		Result            []byte
		Domain            *string
		WorkflowExecution *WorkflowExecution
		WorkflowType      *WorkflowType
		InitiatedEventId  *int64
		StartedEventId    *int64
	}

	ChildWorkflowExecutionFailedEventAttributes struct {
		Reason            *string
		Details           []byte
		Domain            *string
		WorkflowExecution *WorkflowExecution
		WorkflowType      *WorkflowType
		InitiatedEventId  *int64
		StartedEventId    *int64
	}

	ChildWorkflowExecutionCanceledEventAttributes struct {
		Details           []byte
		Domain            *string
		WorkflowExecution *WorkflowExecution
		WorkflowType      *WorkflowType
		InitiatedEventId  *int64
		StartedEventId    *int64
	}

	ChildWorkflowExecutionTimedOutEventAttributes struct {
		TimeoutType       *TimeoutType
		Domain            *string
		WorkflowExecution *WorkflowExecution
		WorkflowType      *WorkflowType
		InitiatedEventId  *int64
		StartedEventId    *int64
	}

	ChildWorkflowExecutionTerminatedEventAttributes struct {
		Domain            *string
		WorkflowExecution *WorkflowExecution
		WorkflowType      *WorkflowType
		InitiatedEventId  *int64
		StartedEventId    *int64
	}

	SignalExternalWorkflowExecutionInitiatedEventAttributes struct {
		DecisionTaskCompletedEventId *int64
		Domain                       *string
		WorkflowExecution            *WorkflowExecution
		SignalName                   *string
		Input                        []byte
		Control                      []byte
		ChildWorkflowOnly            *bool
	}

	SignalExternalWorkflowExecutionFailedEventAttributes struct {
		Cause                        *SignalExternalWorkflowExecutionFailedCause
		DecisionTaskCompletedEventId *int64
		Domain                       *string
		WorkflowExecution            *WorkflowExecution
		InitiatedEventId             *int64
		Control                      []byte
	}

	ExternalWorkflowExecutionSignaledEventAttributes struct {
		InitiatedEventId  *int64
		Domain            *string
		WorkflowExecution *WorkflowExecution
		Control           []byte
	}

	RequestCancelExternalWorkflowExecutionInitiatedEventAttributes struct {
		DecisionTaskCompletedEventId *int64
		Domain                       *string
		WorkflowExecution            *WorkflowExecution
		Control                      []byte
		ChildWorkflowOnly            *bool
	}

	RequestCancelExternalWorkflowExecutionFailedEventAttributes struct {
		Cause                        *CancelExternalWorkflowExecutionFailedCause
		DecisionTaskCompletedEventId *int64
		Domain                       *string
		WorkflowExecution            *WorkflowExecution
		InitiatedEventId             *int64
		Control                      []byte
	}

	ExternalWorkflowExecutionCancelRequestedEventAttributes struct {
		InitiatedEventId  *int64
		Domain            *string
		WorkflowExecution *WorkflowExecution
	}
)

func (w *WorkflowExecution) GetWorkflowId() string {
	if w != nil && w.WorkflowId != nil {
		return *w.WorkflowId
	}
	return ""
}

func (w *WorkflowExecution) GetRunId() string {
	if w != nil && w.RunId != nil {
		return *w.RunId
	}
	return ""
}

func (w *WorkflowType) GetName() string {
	if w != nil && w.Name != nil {
		return *w.Name
	}
	return ""
}

func (a *ActivityType) GetName() string {
	if a != nil && a.Name != nil {
		return *a.Name
	}
	return ""
}

func (t *TaskList) GetName() string {
	if t != nil && t.Name != nil {
		return *t.Name
	}
	return ""
}

func (q *WorkflowQuery) GetQueryType() string {
	if q != nil && q.QueryType != nil {
		return *q.QueryType
	}
	return ""
}

func (h *History) GetEvents() []*HistoryEvent {
	if h != nil {
		return h.Events
	}
	return nil
}

func (e *HistoryEvent) GetEventId() int64 {
	if e != nil && e.EventId != nil {
		return *e.EventId
	}
	return 0
}

func (e *HistoryEvent) GetTimestamp() int64 {
	if e != nil && e.Timestamp != nil {
		return *e.Timestamp
	}
	return 0
}

func (e *HistoryEvent) GetEventType() EventType {
	if e != nil && e.EventType != nil {
		return *e.EventType
	}
	return EventType(-1)
}

func (a *WorkflowExecutionStartedEventAttributes) GetTaskStartToCloseTimeoutSeconds() int32 {
	if a != nil && a.TaskStartToCloseTimeoutSeconds != nil {
		return *a.TaskStartToCloseTimeoutSeconds
	}
	return 0
}

func (a *WorkflowExecutionStartedEventAttributes) GetExecutionStartToCloseTimeoutSeconds() int32 {
	if a != nil && a.ExecutionStartToCloseTimeoutSeconds != nil {
		return *a.ExecutionStartToCloseTimeoutSeconds
	}
	return 0
}

func (a *WorkflowExecutionStartedEventAttributes) GetAttempt() int32 {
	if a != nil && a.Attempt != nil {
		return *a.Attempt
	}
	return 0
}

func (a *DecisionTaskCompletedEventAttributes) GetStartedEventId() int64 {
	if a != nil && a.StartedEventId != nil {
		return *a.StartedEventId
	}
	return 0
}

func (a *ActivityTaskScheduledEventAttributes) GetActivityId() string {
	if a != nil && a.ActivityId != nil {
		return *a.ActivityId
	}
	return ""
}

func (a *ActivityTaskStartedEventAttributes) GetScheduledEventId() int64 {
	if a != nil && a.ScheduledEventId != nil {
		return *a.ScheduledEventId
	}
	return 0
}

func (a *ActivityTaskStartedEventAttributes) GetAttempt() int32 {
	if a != nil && a.Attempt != nil {
		return *a.Attempt
	}
	return 0
}

func (a *ActivityTaskCompletedEventAttributes) GetScheduledEventId() int64 {
	if a != nil && a.ScheduledEventId != nil {
		return *a.ScheduledEventId
	}
	return 0
}

func (a *ActivityTaskFailedEventAttributes) GetScheduledEventId() int64 {
	if a != nil && a.ScheduledEventId != nil {
		return *a.ScheduledEventId
	}
	return 0
}

func (a *ActivityTaskFailedEventAttributes) GetReason() string {
	if a != nil && a.Reason != nil {
		return *a.Reason
	}
	return ""
}

func (a *ActivityTaskTimedOutEventAttributes) GetScheduledEventId() int64 {
	if a != nil && a.ScheduledEventId != nil {
		return *a.ScheduledEventId
	}
	return 0
}

func (a *ActivityTaskTimedOutEventAttributes) GetTimeoutType() TimeoutType {
	if a != nil && a.TimeoutType != nil {
		return *a.TimeoutType
	}
	return TimeoutTypeStartToClose
}

func (a *ActivityTaskCancelRequestedEventAttributes) GetActivityId() string {
	if a != nil && a.ActivityId != nil {
		return *a.ActivityId
	}
	return ""
}

func (a *RequestCancelActivityTaskFailedEventAttributes) GetActivityId() string {
	if a != nil && a.ActivityId != nil {
		return *a.ActivityId
	}
	return ""
}

func (a *ActivityTaskCanceledEventAttributes) GetScheduledEventId() int64 {
	if a != nil && a.ScheduledEventId != nil {
		return *a.ScheduledEventId
	}
	return 0
}

func (a *TimerStartedEventAttributes) GetTimerId() string {
	if a != nil && a.TimerId != nil {
		return *a.TimerId
	}
	return ""
}

func (a *TimerFiredEventAttributes) GetTimerId() string {
	if a != nil && a.TimerId != nil {
		return *a.TimerId
	}
	return ""
}

func (a *TimerCanceledEventAttributes) GetTimerId() string {
	if a != nil && a.TimerId != nil {
		return *a.TimerId
	}
	return ""
}

func (a *CancelTimerFailedEventAttributes) GetTimerId() string {
	if a != nil && a.TimerId != nil {
		return *a.TimerId
	}
	return ""
}

func (a *StartChildWorkflowExecutionInitiatedEventAttributes) GetWorkflowId() string {
	if a != nil && a.WorkflowId != nil {
		return *a.WorkflowId
	}
	return ""
}

func (a *StartChildWorkflowExecutionFailedEventAttributes) GetWorkflowId() string {
	if a != nil && a.WorkflowId != nil {
		return *a.WorkflowId
	}
	return ""
}

func (a *ChildWorkflowExecutionStartedEventAttributes) GetWorkflowExecution() *WorkflowExecution {
	if a != nil {
		return a.WorkflowExecution
	}
	return nil
}

func (a *ChildWorkflowExecutionCompletedEventAttributes) GetWorkflowExecution() *WorkflowExecution {
	if a != nil {
		return a.WorkflowExecution
	}
	return nil
}

func (a *ChildWorkflowExecutionFailedEventAttributes) GetWorkflowExecution() *WorkflowExecution {
	if a != nil {
		return a.WorkflowExecution
	}
	return nil
}

func (a *ChildWorkflowExecutionFailedEventAttributes) GetReason() string {
	if a != nil && a.Reason != nil {
		return *a.Reason
	}
	return ""
}

func (a *SignalExternalWorkflowExecutionFailedEventAttributes) GetInitiatedEventId() int64 {
	if a != nil && a.InitiatedEventId != nil {
		return *a.InitiatedEventId
	}
	return 0
}

func (a *ExternalWorkflowExecutionSignaledEventAttributes) GetInitiatedEventId() int64 {
	if a != nil && a.InitiatedEventId != nil {
		return *a.InitiatedEventId
	}
	return 0
}

func (a *RequestCancelExternalWorkflowExecutionInitiatedEventAttributes) GetChildWorkflowOnly() bool {
	if a != nil && a.ChildWorkflowOnly != nil {
		return *a.ChildWorkflowOnly
	}
	return false
}

func (a *RequestCancelExternalWorkflowExecutionFailedEventAttributes) GetInitiatedEventId() int64 {
	if a != nil && a.InitiatedEventId != nil {
		return *a.InitiatedEventId
	}
	return 0
}

func (a *ExternalWorkflowExecutionCancelRequestedEventAttributes) GetInitiatedEventId() int64 {
	if a != nil && a.InitiatedEventId != nil {
		return *a.InitiatedEventId
	}
	return 0
}

func (a *WorkflowExecutionSignaledEventAttributes) GetSignalName() string {
	if a != nil && a.SignalName != nil {
		return *a.SignalName
	}
	return ""
}
