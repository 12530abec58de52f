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
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/internal/common/backoff"
	"github.com/tideflow-io/tideflow-go-client/internal/common/metrics"
	"github.com/tideflow-io/tideflow-go-client/shared"
)

const (
	defaultHistoryPageSize = 10000

	historyPageFetchInitialInterval = 50 * time.Millisecond
	historyPageFetchMaximumInterval = time.Second

	replayTaskToken = "ReplayTaskToken"
)

type (
	// workflowTask wraps a polled decision task together with the paginated
	// history that backs it.
	workflowTask struct {
		task            *shared.PollForDecisionTaskResponse
		historyIterator HistoryIterator
		pollStartTime   time.Time
	}

	// activityTask wraps a polled activity task.
	activityTask struct {
		task          *shared.PollForActivityTaskResponse
		pollStartTime time.Time
	}

	// HistoryIterator iterates over paginated history of one execution.
	HistoryIterator interface {
		// GetNextPage returns the next page of history events.
		GetNextPage() (*shared.History, error)
		// Reset rewinds the iterator to the first fetched page.
		Reset()
		// HasNextPage returns whether there are pages left to fetch.
		HasNextPage() bool
	}

	// WorkflowTaskHandler processes one decision task: replays history against
	// user workflow code and builds the response request. The returned request
	// is one of RespondDecisionTaskCompletedRequest or
	// RespondQueryTaskCompletedRequest; a non-nil error means the task must be
	// reported failed.
	WorkflowTaskHandler interface {
		ProcessWorkflowTask(task *workflowTask) (response interface{}, err error)
	}

	// ActivityTaskHandler executes one activity task and converts its outcome
	// to a respond request.
	ActivityTaskHandler interface {
		Execute(taskList string, task *shared.PollForActivityTaskResponse) (interface{}, error)
	}

	workflowTaskHandlerImpl struct {
		domain                    string
		registry                  *registry
		identity                  string
		enableLoggingInReplay     bool
		maxDecisionsPerCompletion int
		logger                    *zap.Logger
		metricsScope              tally.Scope
		dataConverter             DataConverter
	}

	// historyEventIterator yields history events in eventId order, fetching
	// pages lazily under the decision task's wall-clock budget.
	historyEventIterator struct {
		events       []*shared.HistoryEvent
		nextIndex    int
		hasMorePages bool
		fetcher      HistoryIterator
	}

	historyIteratorImpl struct {
		iteratorFunc  func(nextPageToken []byte) (*shared.History, []byte, error)
		execution     *shared.WorkflowExecution
		nextPageToken []byte
		domain        string
		service       shared.WorkflowService
		metricsScope  tally.Scope
		maxEventID    int64
		startTime     time.Time
		taskTimeout   time.Duration
	}
)

func newWorkflowTaskHandler(domain string, params workerExecutionParameters, registry *registry) WorkflowTaskHandler {
	return &workflowTaskHandlerImpl{
		domain:                    domain,
		registry:                  registry,
		identity:                  params.Identity,
		enableLoggingInReplay:     params.EnableLoggingInReplay,
		maxDecisionsPerCompletion: params.MaxDecisionsPerCompletion,
		logger:                    params.Logger,
		metricsScope:              params.MetricsScope,
		dataConverter:             params.DataConverter,
	}
}

// ProcessWorkflowTask replays the task's history from scratch through user
// workflow code and produces the next batch of decisions, or the query result
// for a query task.
func (wth *workflowTaskHandlerImpl) ProcessWorkflowTask(workflowTask *workflowTask) (interface{}, error) {
	if workflowTask == nil || workflowTask.task == nil {
		return nil, errors.New("nil workflow task provided")
	}
	task := workflowTask.task
	if task.History == nil || len(task.History.Events) == 0 {
		return nil, &shared.BadRequestError{Message: "nil or empty history"}
	}
	if task.Query == nil && len(task.TaskToken) == 0 {
		return nil, &shared.BadRequestError{Message: "nil token on workflow task"}
	}

	firstEvent := task.History.Events[0]
	if firstEvent.GetEventType() != shared.EventTypeWorkflowExecutionStarted ||
		firstEvent.WorkflowExecutionStartedEventAttributes == nil {
		return nil, &shared.BadRequestError{
			Message: fmt.Sprintf("first history event is not WorkflowExecutionStarted but %v", firstEvent.GetEventType()),
		}
	}
	startedAttributes := firstEvent.WorkflowExecutionStartedEventAttributes

	workflowTypeName := task.WorkflowType.GetName()
	traceLog(func() {
		wth.logger.Debug("Processing new workflow task.",
			zap.String(tagWorkflowType, workflowTypeName),
			zap.String(tagWorkflowID, task.WorkflowExecution.GetWorkflowId()),
			zap.String(tagRunID, task.WorkflowExecution.GetRunId()),
			zap.Int64("PreviousStartedEventId", task.GetPreviousStartedEventId()))
	})

	factory, ok := wth.registry.getWorkflowDefinitionFactory(workflowTypeName)
	if !ok {
		return nil, fmt.Errorf("unable to find workflow type: %v. Supported types: %v",
			workflowTypeName, wth.registry.getRegisteredWorkflowTypes())
	}

	workflowInfo := &WorkflowInfo{
		WorkflowExecution: WorkflowExecution{
			ID:    task.WorkflowExecution.GetWorkflowId(),
			RunID: task.WorkflowExecution.GetRunId(),
		},
		WorkflowType:                        WorkflowType{Name: workflowTypeName},
		TaskListName:                        startedAttributes.TaskList.GetName(),
		ExecutionStartToCloseTimeoutSeconds: startedAttributes.GetExecutionStartToCloseTimeoutSeconds(),
		TaskStartToCloseTimeoutSeconds:      startedAttributes.GetTaskStartToCloseTimeoutSeconds(),
		Domain:                              wth.domain,
		Attempt:                             startedAttributes.GetAttempt(),
		ContinuedExecutionRunID:             startedAttributes.ContinuedExecutionRunId,
		CronSchedule:                        startedAttributes.CronSchedule,
		lastCompletionResult:                startedAttributes.LastCompletionResult,
	}

	isCompleted := false
	var completionResult []byte
	var completionErr error
	completeHandler := func(result []byte, err error) {
		completionResult = result
		completionErr = err
		isCompleted = true
	}

	eventHandler := newWorkflowExecutionEventHandler(
		workflowInfo,
		factory,
		completeHandler,
		wth.logger,
		wth.enableLoggingInReplay,
		wth.metricsScope,
		wth.dataConverter,
	)
	defer eventHandler.Close()
	weh := eventHandler.(*workflowExecutionEventHandlerImpl)
	weh.decisionsHelper.setMaxDecisionsPerCompletion(wth.maxDecisionsPerCompletion)

	eventIterator := newHistoryEventIterator(task, workflowTask.historyIterator)
	replayErr := wth.replayHistory(eventHandler, eventIterator, task.GetPreviousStartedEventId())

	if task.Query != nil {
		// A query task produces no decisions; answer the query after replay.
		return wth.completeQueryTask(task, eventHandler, replayErr), nil
	}

	if replayErr != nil {
		wth.logger.Warn("Replay failed.",
			zap.String(tagWorkflowType, workflowTypeName),
			zap.String(tagWorkflowID, task.WorkflowExecution.GetWorkflowId()),
			zap.String(tagRunID, task.WorkflowExecution.GetRunId()),
			zap.Error(replayErr))
		return nil, replayErr
	}

	if isCompleted {
		wth.completeWorkflow(weh.decisionsHelper, completionResult, completionErr)
	}

	decisions := weh.decisionsHelper.getDecisions(true)
	return &shared.RespondDecisionTaskCompletedRequest{
		TaskToken:        task.TaskToken,
		Decisions:        decisions,
		ExecutionContext: weh.decisionsHelper.getWorkflowContextDataToReturn(),
		Identity:         common.StringPtr(wth.identity),
		BinaryChecksum:   common.StringPtr(getBinaryChecksum()),
	}, nil
}

// replayHistory feeds events to the event handler in strict eventId order.
// State machine panics (nondeterministic workflow code, ill history) are
// converted into an error that fails the decision task.
func (wth *workflowTaskHandlerImpl) replayHistory(
	eventHandler workflowExecutionEventHandler,
	eventIterator *historyEventIterator,
	previousStartedEventID int64,
) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if illegal, ok := p.(stateMachineIllegalStatePanic); ok {
				err = errors.New(illegal.message)
				return
			}
			topLine := "workflow replay [panic]:"
			st := getStackTraceRaw(topLine, 7, 0)
			err = newWorkflowPanicError(p, st)
		}
	}()

	for {
		event, err := eventIterator.Next()
		if err != nil {
			return err
		}
		if event == nil {
			return nil
		}
		isReplay := event.GetEventId() <= previousStartedEventID
		isLast := !eventIterator.HasNext()
		if processErr := eventHandler.ProcessEvent(event, isReplay, isLast); processErr != nil {
			return processErr
		}
	}
}

func (wth *workflowTaskHandlerImpl) completeQueryTask(
	task *shared.PollForDecisionTaskResponse,
	eventHandler workflowExecutionEventHandler,
	replayErr error,
) *shared.RespondQueryTaskCompletedRequest {
	queryCompletedRequest := &shared.RespondQueryTaskCompletedRequest{TaskToken: task.TaskToken}
	if replayErr != nil {
		queryCompletedRequest.CompletedType = common.QueryTaskCompletedTypePtr(shared.QueryTaskCompletedTypeFailed)
		queryCompletedRequest.ErrorMessage = common.StringPtr("replay workflow failed with error: " + replayErr.Error())
		return queryCompletedRequest
	}

	result, err := eventHandler.ProcessQuery(task.Query.GetQueryType(), task.Query.QueryArgs)
	if err != nil {
		queryCompletedRequest.CompletedType = common.QueryTaskCompletedTypePtr(shared.QueryTaskCompletedTypeFailed)
		queryCompletedRequest.ErrorMessage = common.StringPtr(err.Error())
	} else {
		queryCompletedRequest.CompletedType = common.QueryTaskCompletedTypePtr(shared.QueryTaskCompletedTypeCompleted)
		queryCompletedRequest.QueryResult = result
	}
	return queryCompletedRequest
}

// completeWorkflow emits the terminal decision matching the workflow outcome.
// It runs after all events are applied, so the completion decision is the
// last one accessed and therefore the last one in the batch.
func (wth *workflowTaskHandlerImpl) completeWorkflow(helper *decisionsHelper, result []byte, err error) {
	switch typedErr := err.(type) {
	case nil:
		helper.completeWorkflowExecution(result)
	case *ContinueAsNewError:
		attributes := &shared.ContinueAsNewWorkflowExecutionDecisionAttributes{
			WorkflowType: common.WorkflowTypePtr(shared.WorkflowType{
				Name: common.StringPtr(typedErr.params.workflowType.Name)}),
			Input:                               typedErr.params.input,
			ExecutionStartToCloseTimeoutSeconds: typedErr.params.executionStartToCloseTimeoutSeconds,
			TaskStartToCloseTimeoutSeconds:      typedErr.params.taskStartToCloseTimeoutSeconds,
			RetryPolicy:                         typedErr.params.retryPolicy,
		}
		if typedErr.params.taskListName != nil {
			attributes.TaskList = common.TaskListPtr(shared.TaskList{Name: typedErr.params.taskListName})
		}
		if typedErr.params.cronSchedule != "" {
			attributes.CronSchedule = common.StringPtr(typedErr.params.cronSchedule)
		}
		helper.continueAsNewWorkflowExecution(attributes)
	case *CanceledError:
		details, encodeErr := encodeDetails(typedErr.details, wth.dataConverter)
		if encodeErr != nil {
			panic(encodeErr)
		}
		helper.cancelWorkflowExecution(details)
	default:
		reason, details := getErrorDetails(err, wth.dataConverter)
		helper.failWorkflowExecution(reason, details)
	}
}

func newHistoryEventIterator(task *shared.PollForDecisionTaskResponse, fetcher HistoryIterator) *historyEventIterator {
	return &historyEventIterator{
		events:       task.History.Events,
		hasMorePages: len(task.NextPageToken) > 0 && fetcher != nil,
		fetcher:      fetcher,
	}
}

// HasNext returns whether there are events left locally or pages left remotely.
func (it *historyEventIterator) HasNext() bool {
	return it.nextIndex < len(it.events) || it.hasMorePages
}

// Next returns the next event, fetching the next page when the local one is
// exhausted. Returns (nil, nil) at the end of history.
func (it *historyEventIterator) Next() (*shared.HistoryEvent, error) {
	for it.nextIndex >= len(it.events) {
		if !it.hasMorePages {
			return nil, nil
		}
		page, err := it.fetcher.GetNextPage()
		if err != nil {
			return nil, err
		}
		it.events = page.GetEvents()
		it.nextIndex = 0
		it.hasMorePages = it.fetcher.HasNextPage()
		if len(it.events) == 0 && !it.hasMorePages {
			return nil, nil
		}
	}

	event := it.events[it.nextIndex]
	it.nextIndex++
	return event, nil
}

func newHistoryIterator(
	service shared.WorkflowService,
	domain string,
	task *shared.PollForDecisionTaskResponse,
	taskTimeout time.Duration,
	startTime time.Time,
	metricsScope tally.Scope,
) HistoryIterator {
	return &historyIteratorImpl{
		nextPageToken: task.NextPageToken,
		execution:     task.WorkflowExecution,
		domain:        domain,
		service:       service,
		metricsScope:  metricsScope,
		maxEventID:    task.GetStartedEventId(),
		startTime:     startTime,
		taskTimeout:   taskTimeout,
	}
}

// GetNextPage fetches the next history page under the remaining decision task
// budget.
func (h *historyIteratorImpl) GetNextPage() (*shared.History, error) {
	if h.iteratorFunc == nil {
		h.iteratorFunc = newGetHistoryPageFunc(
			context.Background(),
			h.service,
			h.domain,
			h.execution,
			h.maxEventID,
			h.startTime,
			h.taskTimeout,
			h.metricsScope)
	}

	history, token, err := h.iteratorFunc(h.nextPageToken)
	if err != nil {
		return nil, err
	}
	h.nextPageToken = token
	return history, nil
}

// Reset rewinds the iterator to the first remote page.
func (h *historyIteratorImpl) Reset() {
	h.nextPageToken = nil
}

// HasNextPage returns whether there are pages left to fetch.
func (h *historyIteratorImpl) HasNextPage() bool {
	return h.nextPageToken != nil
}

func newGetHistoryPageFunc(
	ctx context.Context,
	service shared.WorkflowService,
	domain string,
	execution *shared.WorkflowExecution,
	atDecisionTaskStartedEventID int64,
	startTime time.Time,
	taskTimeout time.Duration,
	metricsScope tally.Scope,
) func(nextPageToken []byte) (*shared.History, []byte, error) {
	if metricsScope == nil {
		metricsScope = tally.NoopScope
	}
	return func(nextPageToken []byte) (*shared.History, []byte, error) {
		if taskTimeout > 0 {
			elapsed := time.Since(startTime)
			if elapsed >= taskTimeout {
				return nil, nil, fmt.Errorf(
					"history pagination exceeded the decision task start to close timeout of %v", taskTimeout)
			}
		}

		metricsScope.Counter(metrics.WorkflowGetHistoryCounter).Inc(1)
		fetchStart := time.Now()

		retryPolicy := backoff.NewExponentialRetryPolicy(historyPageFetchInitialInterval)
		retryPolicy.SetMaximumInterval(historyPageFetchMaximumInterval)
		if taskTimeout > 0 {
			retryPolicy.SetExpirationInterval(taskTimeout - time.Since(startTime))
		}

		var resp *shared.GetWorkflowExecutionHistoryResponse
		err := backoff.Retry(ctx,
			func() error {
				var err1 error
				resp, err1 = service.GetWorkflowExecutionHistory(ctx, &shared.GetWorkflowExecutionHistoryRequest{
					Domain:          common.StringPtr(domain),
					Execution:       execution,
					MaximumPageSize: common.Int32Ptr(defaultHistoryPageSize),
					NextPageToken:   nextPageToken,
				})
				return err1
			}, retryPolicy, isServiceTransientError)
		if err != nil {
			metricsScope.Counter(metrics.WorkflowGetHistoryFailedCounter).Inc(1)
			return nil, nil, err
		}

		metricsScope.Counter(metrics.WorkflowGetHistorySucceedCounter).Inc(1)
		metricsScope.Timer(metrics.WorkflowGetHistoryLatency).Record(time.Since(fetchStart))

		h := resp.History
		size := len(h.GetEvents())
		// Events past the current decision task's started event belong to a
		// later decision; drop them from this replay pass.
		if size > 0 && atDecisionTaskStartedEventID > 0 &&
			h.Events[size-1].GetEventId() > atDecisionTaskStartedEventID {
			first := h.Events[0].GetEventId() // eventIds start from 1
			h.Events = h.Events[:atDecisionTaskStartedEventID-first+1]
			return h, nil, nil
		}
		return h, resp.NextPageToken, nil
	}
}

// errorToFailDecisionTask converts a replay error to the request reporting
// the decision task failed.
func errorToFailDecisionTask(taskToken []byte, err error, identity string) *shared.RespondDecisionTaskFailedRequest {
	cause := shared.DecisionTaskFailedCauseWorkflowWorkerUnhandledFailure
	if _, ok := err.(*shared.BadRequestError); ok {
		cause = shared.DecisionTaskFailedCauseBadRequest
	}
	return &shared.RespondDecisionTaskFailedRequest{
		TaskToken:      taskToken,
		Cause:          common.DecisionTaskFailedCausePtr(cause),
		Details:        []byte(err.Error()),
		Identity:       common.StringPtr(identity),
		BinaryChecksum: common.StringPtr(getBinaryChecksum()),
	}
}

type (
	// WorkflowReplayer replays recorded histories offline, without polling.
	// Use it to validate compatibility of workflow code changes and to answer
	// queries against a captured history.
	WorkflowReplayer struct {
		registry      *registry
		dataConverter DataConverter
	}
)

// NewWorkflowReplayer creates an offline replayer.
func NewWorkflowReplayer() *WorkflowReplayer {
	return &WorkflowReplayer{
		registry:      newRegistry(),
		dataConverter: getDefaultDataConverter(),
	}
}

// RegisterWorkflowFactory registers a workflow definition factory under the
// given workflow type name.
func (r *WorkflowReplayer) RegisterWorkflowFactory(workflowType string, factory WorkflowDefinitionFactory) {
	r.registry.RegisterWorkflowFactory(workflowType, factory)
}

// ReplayWorkflowHistory executes a single decision task for the given
// history. Returns an error when the workflow code diverges from history.
func (r *WorkflowReplayer) ReplayWorkflowHistory(logger *zap.Logger, history *shared.History) error {
	task, err := r.synthesizeDecisionTask(history)
	if err != nil {
		return err
	}
	_, err = r.replay(logger, task)
	return err
}

// QueryWorkflowHistory replays the given history and answers the query
// against the rebuilt workflow state.
func (r *WorkflowReplayer) QueryWorkflowHistory(logger *zap.Logger, history *shared.History, queryType string, queryArgs []byte) ([]byte, error) {
	task, err := r.synthesizeDecisionTask(history)
	if err != nil {
		return nil, err
	}
	task.Query = &shared.WorkflowQuery{
		QueryType: common.StringPtr(queryType),
		QueryArgs: queryArgs,
	}
	response, err := r.replay(logger, task)
	if err != nil {
		return nil, err
	}
	queryResponse, ok := response.(*shared.RespondQueryTaskCompletedRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected replay response type %T", response)
	}
	if queryResponse.CompletedType != nil && *queryResponse.CompletedType == shared.QueryTaskCompletedTypeFailed {
		var message string
		if queryResponse.ErrorMessage != nil {
			message = *queryResponse.ErrorMessage
		}
		return nil, &shared.QueryFailedError{Message: message}
	}
	return queryResponse.QueryResult, nil
}

// ReplayDecisionTaskWithHistoryIterator executes a single decision task for
// a synthesized task backed by the given history iterator. The synthetic
// task has startedEventId and previousStartedEventId set to the maximum so
// the full history replays as already-seen events.
func (r *WorkflowReplayer) ReplayDecisionTaskWithHistoryIterator(
	logger *zap.Logger,
	task *shared.PollForDecisionTaskResponse,
	historyIterator HistoryIterator,
) (interface{}, error) {
	params := workerExecutionParameters{
		Identity:      replayTaskToken,
		Logger:        logger,
		DataConverter: r.dataConverter,
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	taskHandler := newWorkflowTaskHandler("", params, r.registry)
	return taskHandler.ProcessWorkflowTask(&workflowTask{
		task:            task,
		historyIterator: historyIterator,
		pollStartTime:   time.Now(),
	})
}

func (r *WorkflowReplayer) replay(logger *zap.Logger, task *shared.PollForDecisionTaskResponse) (interface{}, error) {
	return r.ReplayDecisionTaskWithHistoryIterator(logger, task, nil)
}

func (r *WorkflowReplayer) synthesizeDecisionTask(history *shared.History) (*shared.PollForDecisionTaskResponse, error) {
	if history == nil || len(history.Events) == 0 {
		return nil, errors.New("empty history provided")
	}
	first := history.Events[0]
	if first.GetEventType() != shared.EventTypeWorkflowExecutionStarted ||
		first.WorkflowExecutionStartedEventAttributes == nil {
		return nil, errors.New("first history event is not WorkflowExecutionStarted")
	}
	attributes := first.WorkflowExecutionStartedEventAttributes

	return &shared.PollForDecisionTaskResponse{
		TaskToken:    []byte(replayTaskToken),
		WorkflowType: attributes.WorkflowType,
		WorkflowExecution: &shared.WorkflowExecution{
			WorkflowId: common.StringPtr("ReplayId"),
			RunId:      common.StringPtr("ReplayRunId"),
		},
		History:                history,
		PreviousStartedEventId: common.Int64Ptr(math.MaxInt64),
		StartedEventId:         common.Int64Ptr(math.MaxInt64),
	}, nil
}
