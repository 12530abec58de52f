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

// Package worker contains functions to manage the lifecycle of a Tideflow
// client side worker.
package worker

import (
	"go.uber.org/zap"

	"github.com/tideflow-io/tideflow-go-client/internal"
	"github.com/tideflow-io/tideflow-go-client/shared"
)

type (
	// Worker hosts workflow and activity implementations for one
	// (domain, task list) pair.
	Worker interface {
		// Start starts the worker in a non-blocking fashion
		Start() error
		// Run is a blocking start and cleans up resources when killed
		// returns error only if it fails to start the worker
		Run() error
		// Stop cleans up any resources opened by worker
		Stop()
		// SuspendPolling pauses all pollers between iterations
		SuspendPolling()
		// ResumePolling releases suspended pollers
		ResumePolling()
		// RegisterWorkflowFactory registers a workflow definition factory
		// under the given workflow type name
		RegisterWorkflowFactory(workflowType string, factory internal.WorkflowDefinitionFactory)
		// RegisterActivity registers an activity implementation
		RegisterActivity(a internal.Activity)
	}

	// Options is used to configure a worker instance.
	Options = internal.WorkerOptions

	// Replayer replays recorded histories offline, without polling.
	Replayer = internal.WorkflowReplayer
)

// New creates an instance of worker for managing workflow and activity
// executions.
//
//	service  - connection to the tideflow service
//	domain   - the name of the tideflow domain
//	taskList - the task list name this worker polls; it also identifies the
//	           group of workflow and activity implementations hosted by a
//	           single worker process
//	options  - worker specific options like logger, metrics, identity
func New(
	service shared.WorkflowService,
	domain string,
	taskList string,
	options Options,
) Worker {
	return internal.NewWorker(service, domain, taskList, options)
}

// NewReplayer creates an offline workflow replayer.
func NewReplayer() *Replayer {
	return internal.NewWorkflowReplayer()
}

// ReplayWorkflowHistory executes a single decision task for the given history
// using the replayer's registered workflow factories. Use for testing the
// backwards compatibility of code changes and troubleshooting workflows in a
// debugger. The logger is an optional parameter. Defaults to the noop logger.
func ReplayWorkflowHistory(logger *zap.Logger, replayer *Replayer, history *shared.History) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	return replayer.ReplayWorkflowHistory(logger, history)
}

// EnableVerboseLogging enables or disables verbose logging of internal
// Tideflow library components. Most users don't need this. There is no
// guarantee this API will not change.
func EnableVerboseLogging(enable bool) {
	internal.EnableVerboseLogging(enable)
}
