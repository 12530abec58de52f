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
	"time"

	"github.com/uber-go/tally"

	"github.com/tideflow-io/tideflow-go-client/shared"
)

type (
	// Client is the client for starting and signaling workflow executions and
	// for completing activities asynchronously.
	Client interface {
		// StartWorkflow starts a workflow execution and returns its identity.
		// The errors it can return: shared.WorkflowExecutionAlreadyStartedError,
		// shared.BadRequestError, shared.InternalServiceError,
		// shared.EntityNotExistsError.
		StartWorkflow(ctx context.Context, options StartWorkflowOptions, workflowType string, input []byte) (*WorkflowExecution, error)

		// SignalWorkflow sends a signal to a running workflow execution. An
		// empty runID targets the currently running execution of workflowID.
		SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, input []byte) error

		// SignalWithStartWorkflow sends a signal to a running workflow. When
		// the workflow is not running, it starts the workflow and delivers the
		// signal in the same transaction.
		SignalWithStartWorkflow(ctx context.Context, workflowID string, signalName string, signalInput []byte,
			options StartWorkflowOptions, workflowType string, workflowInput []byte) (*WorkflowExecution, error)

		// CancelWorkflow requests cancellation of a workflow execution. The
		// workflow observes the request and decides how to wind down.
		CancelWorkflow(ctx context.Context, workflowID string, runID string) error

		// TerminateWorkflow force-closes a workflow execution, bypassing its
		// cancellation logic.
		TerminateWorkflow(ctx context.Context, workflowID string, runID string, reason string, details []byte) error

		// GetWorkflowHistory returns an iterator over the execution's history
		// events. With isLongPoll the iterator tracks new events until the
		// workflow closes.
		GetWorkflowHistory(ctx context.Context, workflowID string, runID string, isLongPoll bool, filterType shared.HistoryEventFilterType) HistoryEventIterator

		// QueryWorkflow queries the workflow's current state via its query
		// handler.
		QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, queryArgs []byte) ([]byte, error)

		// CompleteActivity reports an activity previously returning
		// ErrActivityResultPending as completed, canceled or failed, depending
		// on err.
		CompleteActivity(ctx context.Context, taskToken []byte, result []byte, err error) error

		// RecordActivityHeartbeat records heartbeat for an activity by task
		// token.
		RecordActivityHeartbeat(ctx context.Context, taskToken []byte, details []byte) error
	}

	// HistoryEventIterator iterates over paginated history events of one
	// execution.
	HistoryEventIterator interface {
		// HasNext returns whether there is a next event. It blocks when the
		// next page has to be fetched.
		HasNext() bool
		// Next returns the next history event.
		Next() (*shared.HistoryEvent, error)
	}

	// StartWorkflowOptions configures one StartWorkflow call.
	StartWorkflowOptions struct {
		// ID is the business identifier of the workflow execution. Defaults
		// to a generated uuid.
		ID string

		// TaskList the workflow's decision tasks are dispatched on.
		TaskList string

		// ExecutionStartToCloseTimeout bounds the whole execution. Required.
		ExecutionStartToCloseTimeout time.Duration

		// DecisionTaskStartToCloseTimeout bounds the processing of a single
		// decision task. Defaults to 10s.
		DecisionTaskStartToCloseTimeout time.Duration

		// WorkflowIDReusePolicy controls reuse of a closed execution's ID.
		WorkflowIDReusePolicy shared.WorkflowIdReusePolicy

		// RetryPolicy is evaluated by the service to retry the whole workflow.
		RetryPolicy *shared.RetryPolicy

		// CronSchedule makes the workflow a cron workflow. Standard five field
		// cron expression; validated client side.
		CronSchedule string
	}

	// ClientOptions configure the client.
	ClientOptions struct {
		Identity      string
		MetricsScope  tally.Scope
		DataConverter DataConverter
	}
)

// NewClient creates a Client instance for the given domain.
func NewClient(service shared.WorkflowService, domain string, options *ClientOptions) Client {
	var identity string
	if options == nil || options.Identity == "" {
		identity = getWorkerIdentity("")
	} else {
		identity = options.Identity
	}
	var metricsScope tally.Scope = tally.NoopScope
	dataConverter := getDefaultDataConverter()
	if options != nil {
		if options.MetricsScope != nil {
			metricsScope = options.MetricsScope
		}
		if options.DataConverter != nil {
			dataConverter = options.DataConverter
		}
	}
	return &workflowClient{
		workflowService: service,
		domain:          domain,
		identity:        identity,
		metricsScope:    metricsScope,
		dataConverter:   dataConverter,
	}
}
