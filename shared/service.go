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

import "context"

type (
	PollForDecisionTaskRequest struct {
		Domain         *string
		TaskList       *TaskList
		Identity       *string
		BinaryChecksum *string
	}

	PollForDecisionTaskResponse struct {
		TaskToken              []byte
		WorkflowExecution      *WorkflowExecution
		WorkflowType           *WorkflowType
		PreviousStartedEventId *int64
		StartedEventId         *int64
		Attempt                *int64
		BacklogCountHint       *int64
		History                *History
		NextPageToken          []byte
		Query                  *WorkflowQuery
		ScheduledTimestamp     *int64
		StartedTimestamp       *int64
	}

	RespondDecisionTaskCompletedRequest struct {
		TaskToken                  []byte
		Decisions                  []*Decision
		ExecutionContext           []byte
		Identity                   *string
		ReturnNewDecisionTask      *bool
		ForceCreateNewDecisionTask *bool
		BinaryChecksum             *string
	}

	RespondDecisionTaskCompletedResponse struct {
		DecisionTask *PollForDecisionTaskResponse
	}

	RespondDecisionTaskFailedRequest struct {
		TaskToken      []byte
		Cause          *DecisionTaskFailedCause
		Details        []byte
		Identity       *string
		BinaryChecksum *string
	}

	RespondQueryTaskCompletedRequest struct {
		TaskToken     []byte
		CompletedType *QueryTaskCompletedType
		QueryResult   []byte
		ErrorMessage  *string
	}

	PollForActivityTaskRequest struct {
		Domain           *string
		TaskList         *TaskList
		Identity         *string
		TaskListMetadata *TaskListMetadata
	}

	PollForActivityTaskResponse struct {
		TaskToken                     []byte
		WorkflowExecution             *WorkflowExecution
		WorkflowType                  *WorkflowType
		WorkflowDomain                *string
		ActivityId                    *string
		ActivityType                  *ActivityType
		Input                         []byte
		ScheduledTimestamp            *int64
		StartedTimestamp              *int64
		ScheduleToCloseTimeoutSeconds *int32
		StartToCloseTimeoutSeconds    *int32
		HeartbeatTimeoutSeconds       *int32
		Attempt                       *int32
		HeartbeatDetails              []byte
	}

	RespondActivityTaskCompletedRequest struct {
		TaskToken []byte
		Result    []byte
		Identity  *string
	}

	RespondActivityTaskFailedRequest struct {
		TaskToken []byte
		Reason    *string
		Details   []byte
		Identity  *string
	}

	RespondActivityTaskCanceledRequest struct {
		TaskToken []byte
		Details   []byte
		Identity  *string
	}

	RecordActivityTaskHeartbeatRequest struct {
		TaskToken []byte
		Details   []byte
		Identity  *string
	}

	RecordActivityTaskHeartbeatResponse struct {
		CancelRequested *bool
	}

	GetWorkflowExecutionHistoryRequest struct {
		Domain                 *string
		Execution              *WorkflowExecution
		MaximumPageSize        *int32
		NextPageToken          []byte
		WaitForNewEvent        *bool
		HistoryEventFilterType *HistoryEventFilterType
	}

	GetWorkflowExecutionHistoryResponse struct {
		History       *History
		NextPageToken []byte
	}

	StartWorkflowExecutionRequest struct {
		Domain                              *string
		WorkflowId                          *string
		WorkflowType                        *WorkflowType
		TaskList                            *TaskList
		Input                               []byte
		ExecutionStartToCloseTimeoutSeconds *int32
		TaskStartToCloseTimeoutSeconds      *int32
		Identity                            *string
		RequestId                           *string
		WorkflowIdReusePolicy               *WorkflowIdReusePolicy
		RetryPolicy                         *RetryPolicy
		CronSchedule                        *string
	}

	StartWorkflowExecutionResponse struct {
		RunId *string
	}

	SignalWorkflowExecutionRequest struct {
		Domain            *string
		WorkflowExecution *WorkflowExecution
		SignalName        *string
		Input             []byte
		Identity          *string
		RequestId         *string
	}

	SignalWithStartWorkflowExecutionRequest struct {
		Domain                              *string
		WorkflowId                          *string
		WorkflowType                        *WorkflowType
		TaskList                            *TaskList
		Input                               []byte
		ExecutionStartToCloseTimeoutSeconds *int32
		TaskStartToCloseTimeoutSeconds      *int32
		Identity                            *string
		RequestId                           *string
		WorkflowIdReusePolicy               *WorkflowIdReusePolicy
		SignalName                          *string
		SignalInput                         []byte
		RetryPolicy                         *RetryPolicy
		CronSchedule                        *string
	}

	RequestCancelWorkflowExecutionRequest struct {
		Domain            *string
		WorkflowExecution *WorkflowExecution
		Identity          *string
		RequestId         *string
	}

	TerminateWorkflowExecutionRequest struct {
		Domain            *string
		WorkflowExecution *WorkflowExecution
		Reason            *string
		Details           []byte
		Identity          *string
	}

	QueryWorkflowRequest struct {
		Domain    *string
		Execution *WorkflowExecution
		Query     *WorkflowQuery
	}

	QueryWorkflowResponse struct {
		QueryResult []byte
	}
)

func (r *PollForDecisionTaskResponse) GetStartedEventId() int64 {
	if r != nil && r.StartedEventId != nil {
		return *r.StartedEventId
	}
	return 0
}

func (r *PollForDecisionTaskResponse) GetPreviousStartedEventId() int64 {
	if r != nil && r.PreviousStartedEventId != nil {
		return *r.PreviousStartedEventId
	}
	return 0
}

func (r *PollForDecisionTaskResponse) GetAttempt() int64 {
	if r != nil && r.Attempt != nil {
		return *r.Attempt
	}
	return 0
}

func (r *PollForDecisionTaskResponse) GetScheduledTimestamp() int64 {
	if r != nil && r.ScheduledTimestamp != nil {
		return *r.ScheduledTimestamp
	}
	return 0
}

func (r *PollForDecisionTaskResponse) GetStartedTimestamp() int64 {
	if r != nil && r.StartedTimestamp != nil {
		return *r.StartedTimestamp
	}
	return 0
}

func (r *PollForActivityTaskResponse) GetActivityId() string {
	if r != nil && r.ActivityId != nil {
		return *r.ActivityId
	}
	return ""
}

func (r *PollForActivityTaskResponse) GetWorkflowDomain() string {
	if r != nil && r.WorkflowDomain != nil {
		return *r.WorkflowDomain
	}
	return ""
}

func (r *PollForActivityTaskResponse) GetScheduledTimestamp() int64 {
	if r != nil && r.ScheduledTimestamp != nil {
		return *r.ScheduledTimestamp
	}
	return 0
}

func (r *PollForActivityTaskResponse) GetStartedTimestamp() int64 {
	if r != nil && r.StartedTimestamp != nil {
		return *r.StartedTimestamp
	}
	return 0
}

func (r *PollForActivityTaskResponse) GetScheduleToCloseTimeoutSeconds() int32 {
	if r != nil && r.ScheduleToCloseTimeoutSeconds != nil {
		return *r.ScheduleToCloseTimeoutSeconds
	}
	return 0
}

func (r *PollForActivityTaskResponse) GetStartToCloseTimeoutSeconds() int32 {
	if r != nil && r.StartToCloseTimeoutSeconds != nil {
		return *r.StartToCloseTimeoutSeconds
	}
	return 0
}

func (r *PollForActivityTaskResponse) GetHeartbeatTimeoutSeconds() int32 {
	if r != nil && r.HeartbeatTimeoutSeconds != nil {
		return *r.HeartbeatTimeoutSeconds
	}
	return 0
}

func (r *PollForActivityTaskResponse) GetAttempt() int32 {
	if r != nil && r.Attempt != nil {
		return *r.Attempt
	}
	return 0
}

func (r *RecordActivityTaskHeartbeatResponse) GetCancelRequested() bool {
	if r != nil && r.CancelRequested != nil {
		return *r.CancelRequested
	}
	return false
}

func (r *StartWorkflowExecutionResponse) GetRunId() string {
	if r != nil && r.RunId != nil {
		return *r.RunId
	}
	return ""
}

type (
	// BadRequestError is a permanent error: the request was malformed.
	BadRequestError struct {
		Message string
	}

	// InternalServiceError is a transient server-side error.
	InternalServiceError struct {
		Message string
	}

	// ServiceBusyError is a transient out-of-quota rejection.
	ServiceBusyError struct {
		Message string
	}

	// EntityNotExistsError is returned when the referenced domain, workflow or
	// activity does not exist.
	EntityNotExistsError struct {
		Message string
	}

	// WorkflowExecutionAlreadyStartedError is returned by StartWorkflowExecution
	// when the workflow id is already in use.
	WorkflowExecutionAlreadyStartedError struct {
		Message        *string
		StartRequestId *string
		RunId          *string
	}

	// CancellationAlreadyRequestedError is returned by RequestCancelWorkflowExecution.
	CancellationAlreadyRequestedError struct {
		Message string
	}

	// QueryFailedError is returned by QueryWorkflow.
	QueryFailedError struct {
		Message string
	}
)

func (e *BadRequestError) Error() string                   { return e.Message }
func (e *InternalServiceError) Error() string              { return e.Message }
func (e *ServiceBusyError) Error() string                  { return e.Message }
func (e *EntityNotExistsError) Error() string              { return e.Message }
func (e *CancellationAlreadyRequestedError) Error() string { return e.Message }
func (e *QueryFailedError) Error() string                  { return e.Message }

func (e *WorkflowExecutionAlreadyStartedError) Error() string {
	if e.Message != nil {
		return *e.Message
	}
	return "WorkflowExecutionAlreadyStartedError"
}

// WorkflowService is the capability set the Tideflow service exposes to
// workers and clients. Implementations are safe for concurrent use.
type WorkflowService interface {
	PollForDecisionTask(ctx context.Context, request *PollForDecisionTaskRequest) (*PollForDecisionTaskResponse, error)
	PollForActivityTask(ctx context.Context, request *PollForActivityTaskRequest) (*PollForActivityTaskResponse, error)
	RespondDecisionTaskCompleted(ctx context.Context, request *RespondDecisionTaskCompletedRequest) (*RespondDecisionTaskCompletedResponse, error)
	RespondDecisionTaskFailed(ctx context.Context, request *RespondDecisionTaskFailedRequest) error
	RespondQueryTaskCompleted(ctx context.Context, request *RespondQueryTaskCompletedRequest) error
	RespondActivityTaskCompleted(ctx context.Context, request *RespondActivityTaskCompletedRequest) error
	RespondActivityTaskFailed(ctx context.Context, request *RespondActivityTaskFailedRequest) error
	RespondActivityTaskCanceled(ctx context.Context, request *RespondActivityTaskCanceledRequest) error
	RecordActivityTaskHeartbeat(ctx context.Context, request *RecordActivityTaskHeartbeatRequest) (*RecordActivityTaskHeartbeatResponse, error)
	GetWorkflowExecutionHistory(ctx context.Context, request *GetWorkflowExecutionHistoryRequest) (*GetWorkflowExecutionHistoryResponse, error)
	StartWorkflowExecution(ctx context.Context, request *StartWorkflowExecutionRequest) (*StartWorkflowExecutionResponse, error)
	SignalWorkflowExecution(ctx context.Context, request *SignalWorkflowExecutionRequest) error
	SignalWithStartWorkflowExecution(ctx context.Context, request *SignalWithStartWorkflowExecutionRequest) (*StartWorkflowExecutionResponse, error)
	RequestCancelWorkflowExecution(ctx context.Context, request *RequestCancelWorkflowExecutionRequest) error
	TerminateWorkflowExecution(ctx context.Context, request *TerminateWorkflowExecutionRequest) error
	QueryWorkflow(ctx context.Context, request *QueryWorkflowRequest) (*QueryWorkflowResponse, error)
}
