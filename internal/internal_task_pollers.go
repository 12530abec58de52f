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

// All code in this file is private to the package.

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/internal/common/backoff"
	"github.com/tideflow-io/tideflow-go-client/internal/common/metrics"
	"github.com/tideflow-io/tideflow-go-client/shared"
)

const (
	pollTaskServiceTimeOut = 3 * time.Minute // Server long poll is 1 * Minutes + delta

	retryServiceOperationInitialInterval = 20 * time.Millisecond
	retryServiceOperationMaxInterval     = 4 * time.Second
	retryServiceOperationExpiration      = 60 * time.Second
)

// serviceOperationRetryPolicy retries report and heartbeat calls on transient
// service errors.
var serviceOperationRetryPolicy = createServiceRetryPolicy()

func createServiceRetryPolicy() backoff.RetryPolicy {
	policy := backoff.NewExponentialRetryPolicy(retryServiceOperationInitialInterval)
	policy.SetMaximumInterval(retryServiceOperationMaxInterval)
	policy.SetExpirationInterval(retryServiceOperationExpiration)
	return policy
}

// isServiceTransientError reports whether the RPC error is worth retrying.
func isServiceTransientError(err error) bool {
	switch err.(type) {
	case *shared.InternalServiceError, *shared.ServiceBusyError:
		return true
	}
	return false
}

func isClientSideError(err error) bool {
	// If an activity execution exceeds deadline.
	return err == context.DeadlineExceeded
}

type (
	// taskPoller interface to poll and process for task
	taskPoller interface {
		// PollTask polls for one new task
		PollTask() (interface{}, error)
		// ProcessTask processes a task
		ProcessTask(interface{}) error
	}

	// basePoller is the base class for all poller implementations
	basePoller struct {
		shutdownC <-chan struct{}
	}

	// workflowTaskPoller implements polling/processing a workflow task
	workflowTaskPoller struct {
		basePoller
		domain       string
		taskListName string
		identity     string
		service      shared.WorkflowService
		taskHandler  WorkflowTaskHandler
		metricsScope tally.Scope
		logger       *zap.Logger
	}

	// activityTaskPoller implements polling/processing an activity task
	activityTaskPoller struct {
		basePoller
		domain              string
		taskListName        string
		identity            string
		service             shared.WorkflowService
		taskHandler         ActivityTaskHandler
		metricsScope        *metrics.TaggedScope
		logger              *zap.Logger
		activitiesPerSecond float64
	}
)

// shuttingDown returns true if worker is shutting down right now
func (bp *basePoller) shuttingDown() bool {
	select {
	case <-bp.shutdownC:
		return true
	default:
		return false
	}
}

// doPoll runs the given pollFunc in a separate go routine. Returns when either of the conditions are met:
// - poll succeeds, poll fails or worker is shutting down
func (bp *basePoller) doPoll(pollFunc func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if bp.shuttingDown() {
		return nil, errShutdown
	}

	var err error
	var result interface{}

	doneC := make(chan struct{})
	ctx, cancel := context.WithTimeout(context.Background(), pollTaskServiceTimeOut)

	go func() {
		result, err = pollFunc(ctx)
		cancel()
		close(doneC)
	}()

	select {
	case <-doneC:
		return result, err
	case <-bp.shutdownC:
		cancel()
		return nil, errShutdown
	}
}

// newWorkflowTaskPoller creates a new workflow task poller which must have a one to one relationship to workflow worker
func newWorkflowTaskPoller(
	taskHandler WorkflowTaskHandler,
	service shared.WorkflowService,
	domain string,
	params workerExecutionParameters,
) *workflowTaskPoller {
	return &workflowTaskPoller{
		basePoller:   basePoller{shutdownC: params.WorkerStopChannel},
		service:      service,
		domain:       domain,
		taskListName: params.TaskList,
		identity:     params.Identity,
		taskHandler:  taskHandler,
		metricsScope: params.MetricsScope,
		logger:       params.Logger,
	}
}

// PollTask polls a new task
func (wtp *workflowTaskPoller) PollTask() (interface{}, error) {
	workflowTask, err := wtp.doPoll(wtp.poll)
	if err != nil {
		return nil, err
	}

	return workflowTask, nil
}

// ProcessTask processes a polled workflow task
func (wtp *workflowTaskPoller) ProcessTask(task interface{}) error {
	if wtp.shuttingDown() {
		return errShutdown
	}

	return wtp.processWorkflowTask(task.(*workflowTask))
}

func (wtp *workflowTaskPoller) processWorkflowTask(task *workflowTask) error {
	if task.task == nil {
		// We didn't have task, poll might have timeout.
		traceLog(func() {
			wtp.logger.Debug("Workflow task unavailable")
		})
		return nil
	}

	startTime := time.Now()
	completedRequest, err := wtp.taskHandler.ProcessWorkflowTask(task)
	return wtp.RespondTaskCompletedWithMetrics(completedRequest, err, task.task, startTime)
}

func (wtp *workflowTaskPoller) RespondTaskCompletedWithMetrics(
	completedRequest interface{},
	taskErr error,
	task *shared.PollForDecisionTaskResponse,
	startTime time.Time,
) error {
	if taskErr != nil {
		wtp.metricsScope.Counter(metrics.DecisionExecutionFailedCounter).Inc(1)
		wtp.logger.Warn("Failed to process decision task.",
			zap.String(tagWorkflowType, task.WorkflowType.GetName()),
			zap.String(tagWorkflowID, task.WorkflowExecution.GetWorkflowId()),
			zap.String(tagRunID, task.WorkflowExecution.GetRunId()),
			zap.Error(taskErr))
		// convert err to a DecisionTaskFailed report
		completedRequest = errorToFailDecisionTask(task.TaskToken, taskErr, wtp.identity)
	} else {
		wtp.metricsScope.Counter(metrics.DecisionTaskCompletedCounter).Inc(1)
	}

	wtp.metricsScope.Timer(metrics.DecisionExecutionLatency).Record(time.Since(startTime))

	responseStartTime := time.Now()
	if err := wtp.RespondTaskCompleted(completedRequest, task); err != nil {
		wtp.metricsScope.Counter(metrics.DecisionResponseFailedCounter).Inc(1)
		return err
	}
	wtp.metricsScope.Timer(metrics.DecisionResponseLatency).Record(time.Since(responseStartTime))

	return nil
}

func (wtp *workflowTaskPoller) RespondTaskCompleted(completedRequest interface{}, task *shared.PollForDecisionTaskResponse) error {
	if completedRequest == nil {
		return nil
	}
	ctx := context.Background()
	// Respond task completion.
	return backoff.Retry(ctx,
		func() error {
			var err1 error
			switch request := completedRequest.(type) {
			case *shared.RespondDecisionTaskFailedRequest:
				// Only fail decision on first attempt, subsequent failure on the same decision task will timeout.
				// This is to avoid spin on the failed decision task.
				if task.GetAttempt() == 0 {
					err1 = wtp.service.RespondDecisionTaskFailed(ctx, request)
					if err1 != nil {
						traceLog(func() {
							wtp.logger.Debug("RespondDecisionTaskFailed failed.", zap.Error(err1))
						})
					}
				}
			case *shared.RespondDecisionTaskCompletedRequest:
				_, err1 = wtp.service.RespondDecisionTaskCompleted(ctx, request)
				if err1 != nil {
					traceLog(func() {
						wtp.logger.Debug("RespondDecisionTaskCompleted failed.", zap.Error(err1))
					})
				}
			case *shared.RespondQueryTaskCompletedRequest:
				err1 = wtp.service.RespondQueryTaskCompleted(ctx, request)
				if err1 != nil {
					traceLog(func() {
						wtp.logger.Debug("RespondQueryTaskCompleted failed.", zap.Error(err1))
					})
				}
			default:
				// should not happen
				panic("unknown request type from ProcessWorkflowTask()")
			}

			return err1
		}, serviceOperationRetryPolicy, isServiceTransientError)
}

// Poll for a single workflow task from the service
func (wtp *workflowTaskPoller) poll(ctx context.Context) (interface{}, error) {
	startTime := time.Now()
	wtp.metricsScope.Counter(metrics.PollCounter).Inc(1)

	traceLog(func() {
		wtp.logger.Debug("workflowTaskPoller::Poll")
	})

	request := &shared.PollForDecisionTaskRequest{
		Domain:         common.StringPtr(wtp.domain),
		TaskList:       common.TaskListPtr(shared.TaskList{Name: common.StringPtr(wtp.taskListName)}),
		Identity:       common.StringPtr(wtp.identity),
		BinaryChecksum: common.StringPtr(getBinaryChecksum()),
	}

	response, err := wtp.service.PollForDecisionTask(ctx, request)
	if err != nil {
		if isServiceTransientError(err) {
			wtp.metricsScope.Counter(metrics.PollTransientFailedCounter).Inc(1)
		} else {
			wtp.metricsScope.Counter(metrics.PollFailedCounter).Inc(1)
		}
		return nil, err
	}

	if response == nil || len(response.TaskToken) == 0 {
		// a poll response without a task token means the long poll timed out
		// with no task available
		wtp.metricsScope.Counter(metrics.PollNoTaskCounter).Inc(1)
		return &workflowTask{}, nil
	}

	task := wtp.toWorkflowTask(response, startTime)
	traceLog(func() {
		var firstEventID int64 = -1
		if response.History != nil && len(response.History.Events) > 0 {
			firstEventID = response.History.Events[0].GetEventId()
		}
		wtp.logger.Debug("workflowTaskPoller::Poll Succeed",
			zap.Int64("StartedEventID", response.GetStartedEventId()),
			zap.Int64("Attempt", response.GetAttempt()),
			zap.Int64("FirstEventID", firstEventID),
			zap.Bool("IsQueryTask", response.Query != nil))
	})

	wtp.metricsScope.Counter(metrics.PollSucceedCounter).Inc(1)
	wtp.metricsScope.Timer(metrics.PollLatency).Record(time.Since(startTime))

	return task, nil
}

func (wtp *workflowTaskPoller) toWorkflowTask(response *shared.PollForDecisionTaskResponse, pollStartTime time.Time) *workflowTask {
	var taskTimeout time.Duration
	if response.History != nil && len(response.History.Events) > 0 {
		if attributes := response.History.Events[0].WorkflowExecutionStartedEventAttributes; attributes != nil {
			taskTimeout = time.Duration(attributes.GetTaskStartToCloseTimeoutSeconds()) * time.Second
		}
	}
	historyIterator := newHistoryIterator(wtp.service, wtp.domain, response, taskTimeout, pollStartTime, wtp.metricsScope)
	return &workflowTask{
		task:            response,
		historyIterator: historyIterator,
		pollStartTime:   pollStartTime,
	}
}

func newActivityTaskPoller(
	taskHandler ActivityTaskHandler,
	service shared.WorkflowService,
	domain string,
	params workerExecutionParameters,
) *activityTaskPoller {
	return &activityTaskPoller{
		basePoller:          basePoller{shutdownC: params.WorkerStopChannel},
		taskHandler:         taskHandler,
		service:             service,
		domain:              domain,
		taskListName:        params.TaskList,
		identity:            params.Identity,
		logger:              params.Logger,
		metricsScope:        metrics.NewTaggedScope(params.MetricsScope),
		activitiesPerSecond: params.TaskListActivitiesPerSecond,
	}
}

// Poll for a single activity task from the service
func (atp *activityTaskPoller) poll(ctx context.Context) (interface{}, error) {
	startTime := time.Now()

	atp.metricsScope.Counter(metrics.PollCounter).Inc(1)

	traceLog(func() {
		atp.logger.Debug("activityTaskPoller::Poll")
	})
	request := &shared.PollForActivityTaskRequest{
		Domain:   common.StringPtr(atp.domain),
		TaskList: common.TaskListPtr(shared.TaskList{Name: common.StringPtr(atp.taskListName)}),
		Identity: common.StringPtr(atp.identity),
		TaskListMetadata: &shared.TaskListMetadata{
			MaxTasksPerSecond: common.Float64Ptr(atp.activitiesPerSecond),
		},
	}

	response, err := atp.service.PollForActivityTask(ctx, request)
	if err != nil {
		if isServiceTransientError(err) {
			atp.metricsScope.Counter(metrics.PollTransientFailedCounter).Inc(1)
		} else {
			atp.metricsScope.Counter(metrics.PollFailedCounter).Inc(1)
		}
		return nil, err
	}
	if response == nil || len(response.TaskToken) == 0 {
		atp.metricsScope.Counter(metrics.PollNoTaskCounter).Inc(1)
		return &activityTask{}, nil
	}

	atp.metricsScope.Counter(metrics.PollSucceedCounter).Inc(1)
	atp.metricsScope.Timer(metrics.PollLatency).Record(time.Since(startTime))

	// queue latency from the service's point of view
	queueLatency := time.Duration(response.GetStartedTimestamp() - response.GetScheduledTimestamp())
	atp.metricsScope.Timer(metrics.TaskListQueueLatency).Record(queueLatency)

	return &activityTask{task: response, pollStartTime: startTime}, nil
}

// PollTask polls a new task
func (atp *activityTaskPoller) PollTask() (interface{}, error) {
	activityTask, err := atp.doPoll(atp.poll)
	if err != nil {
		return nil, err
	}
	return activityTask, nil
}

// ProcessTask processes a new task
func (atp *activityTaskPoller) ProcessTask(task interface{}) error {
	if atp.shuttingDown() {
		return errShutdown
	}

	activityTask := task.(*activityTask)
	if activityTask.task == nil {
		// We didn't have task, poll might have timeout.
		traceLog(func() {
			atp.logger.Debug("Activity task unavailable")
		})
		return nil
	}

	workflowType := activityTask.task.WorkflowType.GetName()
	activityType := activityTask.task.ActivityType.GetName()
	metricsScope := getMetricsScopeForActivity(atp.metricsScope, workflowType, activityType)

	executionStartTime := time.Now()
	// Process the activity task.
	request, err := atp.taskHandler.Execute(atp.taskListName, activityTask.task)
	if err != nil {
		metricsScope.Counter(metrics.ActivityExecutionFailedCounter).Inc(1)
		return err
	}
	metricsScope.Timer(metrics.ActivityExecutionLatency).Record(time.Since(executionStartTime))

	if request == ErrActivityResultPending {
		return nil
	}

	// if worker is shutting down, don't bother reporting activity completion
	if atp.shuttingDown() {
		return errShutdown
	}

	responseStartTime := time.Now()
	reportErr := reportActivityComplete(context.Background(), atp.service, request, metricsScope)
	if reportErr != nil {
		metricsScope.Counter(metrics.ActivityResponseFailedCounter).Inc(1)
		traceLog(func() {
			atp.logger.Debug("reportActivityComplete failed", zap.Error(reportErr))
		})
		return reportErr
	}

	metricsScope.Timer(metrics.ActivityResponseLatency).Record(time.Since(responseStartTime))
	metricsScope.Timer(metrics.ActivityEndToEndLatency).Record(time.Since(activityTask.pollStartTime))
	return nil
}

func reportActivityComplete(ctx context.Context, service shared.WorkflowService, request interface{}, metricsScope tally.Scope) error {
	if request == nil {
		// nothing to report
		return nil
	}

	var reportErr error
	switch request := request.(type) {
	case *shared.RespondActivityTaskCanceledRequest:
		reportErr = backoff.Retry(ctx,
			func() error {
				return service.RespondActivityTaskCanceled(ctx, request)
			}, serviceOperationRetryPolicy, isServiceTransientError)
	case *shared.RespondActivityTaskFailedRequest:
		reportErr = backoff.Retry(ctx,
			func() error {
				return service.RespondActivityTaskFailed(ctx, request)
			}, serviceOperationRetryPolicy, isServiceTransientError)
	case *shared.RespondActivityTaskCompletedRequest:
		reportErr = backoff.Retry(ctx,
			func() error {
				return service.RespondActivityTaskCompleted(ctx, request)
			}, serviceOperationRetryPolicy, isServiceTransientError)
	}
	if reportErr == nil {
		switch request.(type) {
		case *shared.RespondActivityTaskCanceledRequest:
			metricsScope.Counter(metrics.ActivityTaskCanceledCounter).Inc(1)
		case *shared.RespondActivityTaskFailedRequest:
			metricsScope.Counter(metrics.ActivityTaskFailedCounter).Inc(1)
		case *shared.RespondActivityTaskCompletedRequest:
			metricsScope.Counter(metrics.ActivityTaskCompletedCounter).Inc(1)
		}
	}

	return reportErr
}

// convertActivityResultToRespondRequest converts an activity outcome into the
// report request. A CanceledError (or a context canceled) reports Canceled
// rather than Failed.
func convertActivityResultToRespondRequest(identity string, taskToken, result []byte, err error,
	dataConverter DataConverter) interface{} {
	if err == ErrActivityResultPending {
		// activity result is pending and will be completed asynchronously.
		// nothing to report at this point
		return ErrActivityResultPending
	}

	if err == nil {
		return &shared.RespondActivityTaskCompletedRequest{
			TaskToken: taskToken,
			Result:    result,
			Identity:  common.StringPtr(identity)}
	}

	reason, details := getErrorDetails(err, dataConverter)
	if _, ok := err.(*CanceledError); ok || err == context.Canceled {
		return &shared.RespondActivityTaskCanceledRequest{
			TaskToken: taskToken,
			Details:   details,
			Identity:  common.StringPtr(identity)}
	}

	return &shared.RespondActivityTaskFailedRequest{
		TaskToken: taskToken,
		Reason:    common.StringPtr(reason),
		Details:   details,
		Identity:  common.StringPtr(identity)}
}

func getMetricsScopeForActivity(ts *metrics.TaggedScope, workflowType, activityType string) tally.Scope {
	scope := ts.GetTaggedScope(metrics.WorkflowTypeTagName, workflowType)
	return scope.Tagged(map[string]string{metrics.ActivityTypeTagName: activityType})
}

// createOpenTracingActivitySpan starts a span covering one activity execution.
func createOpenTracingActivitySpan(
	ctx context.Context,
	tracer opentracing.Tracer,
	startTime time.Time,
	activityType string,
	workflowID string,
	runID string,
) (context.Context, opentracing.Span) {
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	span := tracer.StartSpan(
		"ExecuteActivity",
		opentracing.StartTime(startTime),
		opentracing.Tags{
			"activityType": activityType,
			"workflowID":   workflowID,
			"runID":        runID,
		})
	return opentracing.ContextWithSpan(ctx, span), span
}
