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

// Package metrics holds the metric names emitted by the client and helpers
// for tagging scopes. Names are part of the public contract; do not rename.
package metrics

// Counter and timer names. Poll metrics are emitted under a scope tagged with
// the worker type (decision or activity).
const (
	WorkerStartCounter = "worker.start"
	PollerStartCounter = "poller.start"
	WorkerPanicCounter = "worker.panic"

	PollCounter                = "poll.counter"
	PollLatency                = "poll.latency"
	PollNoTaskCounter          = "poll.no-task"
	PollSucceedCounter         = "poll.succeed"
	PollFailedCounter          = "poll.failed"
	PollTransientFailedCounter = "poll.transient-failed"

	DecisionExecutionLatency       = "decision.execution-latency"
	DecisionResponseLatency        = "decision.response-latency"
	DecisionTaskCompletedCounter   = "decision.task-completed"
	DecisionExecutionFailedCounter = "decision.execution-failed"
	DecisionResponseFailedCounter  = "decision.response-failed"

	ActivityExecutionLatency       = "activity.exec-latency"
	ActivityResponseLatency        = "activity.resp-latency"
	ActivityEndToEndLatency        = "activity.e2e-latency"
	ActivityTaskCompletedCounter   = "activity.task.completed"
	ActivityTaskFailedCounter      = "activity.task.failed"
	ActivityTaskCanceledCounter    = "activity.task.canceled"
	ActivityExecutionFailedCounter = "activity.execution-failed"
	ActivityResponseFailedCounter  = "activity.response-failed"

	TaskListQueueLatency = "tasklist.queue-latency"

	WorkflowGetHistoryCounter        = "workflow.get-history.counter"
	WorkflowGetHistoryLatency        = "workflow.get-history.latency"
	WorkflowGetHistorySucceedCounter = "workflow.get-history.succeed"
	WorkflowGetHistoryFailedCounter  = "workflow.get-history.failed"
)

// Tag names.
const (
	WorkerTypeTagName   = "worker-type"
	WorkflowTypeTagName = "workflow-type"
	ActivityTypeTagName = "activity-type"
)
