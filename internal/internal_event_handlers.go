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
	"fmt"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/shared"
)

const (
	queryResultSizeLimit = 2000000 // 2MB

	// QueryTypeStackTrace is the built in query type to get the call stack of
	// the workflow.
	QueryTypeStackTrace string = "__stack_trace"
)

type (
	// resultHandler is invoked when an asynchronous operation the workflow
	// scheduled reaches a terminal state.
	resultHandler func(result []byte, err error)

	// WorkflowExecution identifies a single run of a workflow.
	WorkflowExecution struct {
		ID    string
		RunID string
	}

	// WorkflowType names a workflow implementation.
	WorkflowType struct {
		Name string
	}

	// ActivityType names an activity implementation.
	ActivityType struct {
		Name string
	}

	// WorkflowInfo is the information the environment exposes about the
	// current workflow execution.
	WorkflowInfo struct {
		WorkflowExecution                   WorkflowExecution
		WorkflowType                        WorkflowType
		TaskListName                        string
		ExecutionStartToCloseTimeoutSeconds int32
		TaskStartToCloseTimeoutSeconds      int32
		Domain                              string
		Attempt                             int32
		ContinuedExecutionRunID             *string
		CronSchedule                        *string
		lastCompletionResult                []byte
	}

	activityOptions struct {
		ActivityID                    *string
		TaskListName                  string
		ScheduleToCloseTimeoutSeconds int32
		ScheduleToStartTimeoutSeconds int32
		StartToCloseTimeoutSeconds    int32
		HeartbeatTimeoutSeconds       int32
		WaitForCancellation           bool
		RetryPolicy                   *shared.RetryPolicy
	}

	executeActivityParams struct {
		activityOptions
		ActivityType ActivityType
		Input        []byte
	}

	workflowOptions struct {
		taskListName                        *string
		executionStartToCloseTimeoutSeconds *int32
		taskStartToCloseTimeoutSeconds      *int32
		domain                              *string
		workflowID                          string
		waitForCancellation                 bool
		workflowIDReusePolicy               *shared.WorkflowIdReusePolicy
		retryPolicy                         *shared.RetryPolicy
		cronSchedule                        string
	}

	executeWorkflowParams struct {
		workflowOptions
		workflowType *WorkflowType
		input        []byte
	}

	activityInfo struct {
		activityID string
	}

	timerInfo struct {
		timerID string
	}

	scheduledActivity struct {
		callback             resultHandler
		waitForCancelRequest bool
		handled              bool
		activityType         ActivityType
	}

	scheduledTimer struct {
		callback resultHandler
		handled  bool
	}

	scheduledChildWorkflow struct {
		resultCallback      resultHandler
		startedCallback     func(r WorkflowExecution, e error)
		waitForCancellation bool
		handled             bool
	}

	scheduledCancellation struct {
		callback resultHandler
		handled  bool
	}

	scheduledSignal struct {
		callback resultHandler
		handled  bool
	}

	// workflowEnvironment is the decision-emitting surface the deterministic
	// dispatcher runs against. All calls must happen on the replay goroutine
	// that owns the decision task.
	workflowEnvironment interface {
		ExecuteActivity(parameters executeActivityParams, callback resultHandler) *activityInfo
		RequestCancelActivity(activityID string)
		NewTimer(d time.Duration, callback resultHandler) *timerInfo
		RequestCancelTimer(timerID string)
		ExecuteChildWorkflow(params executeWorkflowParams, callback resultHandler, startedHandler func(r WorkflowExecution, e error)) error
		RequestCancelChildWorkflow(domain, workflowID string)
		RequestCancelExternalWorkflow(domain, workflowID, runID string, callback resultHandler)
		SignalExternalWorkflow(domain, workflowID, runID, signalName string, input []byte, callback resultHandler)
		Complete(result []byte, err error)
		RegisterCancelHandler(handler func())
		RegisterSignalHandler(handler func(name string, input []byte))
		RegisterQueryHandler(handler func(queryType string, queryArgs []byte) ([]byte, error))
		SetWorkflowContext(data []byte)
		GenerateSequenceID() string
		WorkflowInfo() *WorkflowInfo
		GetLogger() *zap.Logger
		GetMetricsScope() tally.Scope
		GetDataConverter() DataConverter
		IsReplaying() bool
	}

	// workflowExecutionEventHandler applies history events to the decision
	// state machines and drives the workflow definition.
	workflowExecutionEventHandler interface {
		// ProcessEvent processes one history event in eventId order.
		// isReplay is true for events up to and including the previous
		// decision task's started event. isLast is true for the last event
		// of the history.
		ProcessEvent(event *shared.HistoryEvent, isReplay bool, isLast bool) error
		// ProcessQuery answers an inline or direct query after replay.
		ProcessQuery(queryType string, queryArgs []byte) ([]byte, error)
		StackTrace() string
		Close()
	}

	workflowExecutionEventHandlerImpl struct {
		*workflowEnvironmentImpl
		workflowDefinition WorkflowDefinition
	}

	workflowEnvironmentImpl struct {
		workflowInfo              *WorkflowInfo
		workflowDefinitionFactory WorkflowDefinitionFactory
		decisionsHelper           *decisionsHelper

		counterID         int32
		currentReplayTime time.Time

		completeHandler completionHandler
		cancelHandler   func()
		signalHandler   func(name string, input []byte)
		queryHandler    func(queryType string, queryArgs []byte) ([]byte, error)

		logger                *zap.Logger
		isReplay              bool
		enableLoggingInReplay bool
		metricsScope          tally.Scope
		dataConverter         DataConverter
	}

	completionHandler func(result []byte, err error)
)

func newWorkflowExecutionEventHandler(
	workflowInfo *WorkflowInfo,
	workflowDefinitionFactory WorkflowDefinitionFactory,
	completeHandler completionHandler,
	logger *zap.Logger,
	enableLoggingInReplay bool,
	scope tally.Scope,
	dataConverter DataConverter,
) workflowExecutionEventHandler {
	context := &workflowEnvironmentImpl{
		workflowInfo:              workflowInfo,
		workflowDefinitionFactory: workflowDefinitionFactory,
		decisionsHelper:           newDecisionsHelper(),
		completeHandler:           completeHandler,
		enableLoggingInReplay:     enableLoggingInReplay,
		dataConverter:             dataConverter,
	}
	context.logger = logger.With(
		zap.String(tagWorkflowType, workflowInfo.WorkflowType.Name),
		zap.String(tagWorkflowID, workflowInfo.WorkflowExecution.ID),
		zap.String(tagRunID, workflowInfo.WorkflowExecution.RunID),
	)
	if scope != nil {
		context.metricsScope = scope
	} else {
		context.metricsScope = tally.NoopScope
	}
	if context.dataConverter == nil {
		context.dataConverter = getDefaultDataConverter()
	}

	return &workflowExecutionEventHandlerImpl{workflowEnvironmentImpl: context}
}

func (sa *scheduledActivity) handle(result []byte, err error) {
	if sa.handled {
		panic(fmt.Sprintf("activity already handled %v", sa))
	}
	sa.handled = true
	sa.callback(result, err)
}

func (st *scheduledTimer) handle(result []byte, err error) {
	if st.handled {
		panic(fmt.Sprintf("timer already handled %v", st))
	}
	st.handled = true
	st.callback(result, err)
}

func (scw *scheduledChildWorkflow) handle(result []byte, err error) {
	if scw.handled {
		panic(fmt.Sprintf("child workflow already handled %v", scw))
	}
	scw.handled = true
	scw.resultCallback(result, err)
}

func (sc *scheduledCancellation) handle(result []byte, err error) {
	if sc.handled {
		panic(fmt.Sprintf("cancellation already handled %v", sc))
	}
	sc.handled = true
	sc.callback(result, err)
}

func (ss *scheduledSignal) handle(result []byte, err error) {
	if ss.handled {
		panic(fmt.Sprintf("signal already handled %v", ss))
	}
	ss.handled = true
	ss.callback(result, err)
}

func (wc *workflowEnvironmentImpl) WorkflowInfo() *WorkflowInfo {
	return wc.workflowInfo
}

func (wc *workflowEnvironmentImpl) Complete(result []byte, err error) {
	wc.completeHandler(result, err)
}

func (wc *workflowEnvironmentImpl) RegisterCancelHandler(handler func()) {
	wc.cancelHandler = handler
}

func (wc *workflowEnvironmentImpl) RegisterSignalHandler(handler func(name string, input []byte)) {
	wc.signalHandler = handler
}

func (wc *workflowEnvironmentImpl) RegisterQueryHandler(handler func(queryType string, queryArgs []byte) ([]byte, error)) {
	wc.queryHandler = handler
}

func (wc *workflowEnvironmentImpl) GetLogger() *zap.Logger {
	return wc.logger
}

func (wc *workflowEnvironmentImpl) GetMetricsScope() tally.Scope {
	return wc.metricsScope
}

func (wc *workflowEnvironmentImpl) GetDataConverter() DataConverter {
	return wc.dataConverter
}

func (wc *workflowEnvironmentImpl) IsReplaying() bool {
	return wc.isReplay
}

func (wc *workflowEnvironmentImpl) GenerateSequence() int32 {
	result := wc.counterID
	wc.counterID++
	return result
}

// GenerateSequenceID produces ids for worker generated decision keys (signal
// and cancellation control tokens, timer ids). The counter replays
// deterministically, so the ids match history across replay passes.
func (wc *workflowEnvironmentImpl) GenerateSequenceID() string {
	return fmt.Sprintf("%d", wc.GenerateSequence())
}

func (wc *workflowEnvironmentImpl) SetWorkflowContext(data []byte) {
	wc.decisionsHelper.setWorkflowContextData(data)
}

func (wc *workflowEnvironmentImpl) ExecuteActivity(parameters executeActivityParams, callback resultHandler) *activityInfo {
	scheduleTaskAttr := &shared.ScheduleActivityTaskDecisionAttributes{}
	if parameters.ActivityID == nil || *parameters.ActivityID == "" {
		scheduleTaskAttr.ActivityId = common.StringPtr(wc.GenerateSequenceID())
	} else {
		scheduleTaskAttr.ActivityId = parameters.ActivityID
	}
	activityID := scheduleTaskAttr.GetActivityId()
	scheduleTaskAttr.ActivityType = common.ActivityTypePtr(shared.ActivityType{Name: common.StringPtr(parameters.ActivityType.Name)})
	scheduleTaskAttr.TaskList = common.TaskListPtr(shared.TaskList{Name: common.StringPtr(parameters.TaskListName)})
	scheduleTaskAttr.Input = parameters.Input
	scheduleTaskAttr.ScheduleToCloseTimeoutSeconds = common.Int32Ptr(parameters.ScheduleToCloseTimeoutSeconds)
	scheduleTaskAttr.StartToCloseTimeoutSeconds = common.Int32Ptr(parameters.StartToCloseTimeoutSeconds)
	scheduleTaskAttr.ScheduleToStartTimeoutSeconds = common.Int32Ptr(parameters.ScheduleToStartTimeoutSeconds)
	scheduleTaskAttr.HeartbeatTimeoutSeconds = common.Int32Ptr(parameters.HeartbeatTimeoutSeconds)
	scheduleTaskAttr.RetryPolicy = parameters.RetryPolicy

	decision := wc.decisionsHelper.scheduleActivityTask(wc.decisionsHelper.getNextID(), scheduleTaskAttr)
	decision.setData(&scheduledActivity{
		callback:             callback,
		waitForCancelRequest: parameters.WaitForCancellation,
		activityType:         parameters.ActivityType,
	})

	traceLog(func() {
		wc.logger.Debug("ExecuteActivity",
			zap.String(tagActivityID, activityID),
			zap.String(tagActivityType, scheduleTaskAttr.ActivityType.GetName()))
	})

	return &activityInfo{activityID: activityID}
}

func (wc *workflowEnvironmentImpl) RequestCancelActivity(activityID string) {
	decision := wc.decisionsHelper.requestCancelActivityTask(activityID)
	activity := decision.getData().(*scheduledActivity)
	if decision.isDone() || !activity.waitForCancelRequest {
		// The cancel raced with a decision that has not initiated yet; deliver
		// the cancellation synchronously before returning.
		activity.handle(nil, NewCanceledError())
	}

	traceLog(func() {
		wc.logger.Debug("RequestCancelActivity", zap.String(tagActivityID, activityID))
	})
}

func (wc *workflowEnvironmentImpl) NewTimer(d time.Duration, callback resultHandler) *timerInfo {
	if d < 0 {
		callback(nil, fmt.Errorf("negative duration provided %v", d))
		return nil
	}
	if d == 0 {
		callback(nil, nil)
		return nil
	}

	timerID := wc.GenerateSequenceID()
	startTimerAttr := &shared.StartTimerDecisionAttributes{
		TimerId:                   common.StringPtr(timerID),
		StartToFireTimeoutSeconds: common.Int64Ptr(int64(d.Seconds())),
	}

	decision := wc.decisionsHelper.startTimer(startTimerAttr)
	decision.setData(&scheduledTimer{callback: callback})

	traceLog(func() {
		wc.logger.Debug("NewTimer",
			zap.String(tagTimerID, timerID),
			zap.Duration("Duration", d))
	})

	return &timerInfo{timerID: timerID}
}

func (wc *workflowEnvironmentImpl) RequestCancelTimer(timerID string) {
	decision := wc.decisionsHelper.cancelTimer(timerID)
	timer := decision.getData().(*scheduledTimer)
	if timer != nil && !timer.handled {
		timer.handle(nil, NewCanceledError())
	}

	traceLog(func() {
		wc.logger.Debug("RequestCancelTimer", zap.String(tagTimerID, timerID))
	})
}

func (wc *workflowEnvironmentImpl) ExecuteChildWorkflow(
	params executeWorkflowParams, callback resultHandler, startedHandler func(r WorkflowExecution, e error),
) error {
	if params.workflowID == "" {
		params.workflowID = wc.workflowInfo.WorkflowExecution.RunID + "_" + wc.GenerateSequenceID()
	}

	attributes := &shared.StartChildWorkflowExecutionDecisionAttributes{}
	attributes.Domain = params.domain
	attributes.TaskList = &shared.TaskList{Name: params.taskListName}
	attributes.WorkflowId = common.StringPtr(params.workflowID)
	attributes.ExecutionStartToCloseTimeoutSeconds = params.executionStartToCloseTimeoutSeconds
	attributes.TaskStartToCloseTimeoutSeconds = params.taskStartToCloseTimeoutSeconds
	attributes.Input = params.input
	attributes.WorkflowType = common.WorkflowTypePtr(shared.WorkflowType{Name: common.StringPtr(params.workflowType.Name)})
	attributes.WorkflowIdReusePolicy = params.workflowIDReusePolicy
	attributes.RetryPolicy = params.retryPolicy
	if params.cronSchedule != "" {
		attributes.CronSchedule = common.StringPtr(params.cronSchedule)
	}

	decision := wc.decisionsHelper.startChildWorkflowExecution(attributes)
	decision.setData(&scheduledChildWorkflow{
		resultCallback:      callback,
		startedCallback:     startedHandler,
		waitForCancellation: params.waitForCancellation,
	})

	traceLog(func() {
		wc.logger.Debug("ExecuteChildWorkflow",
			zap.String(tagWorkflowID, params.workflowID),
			zap.String(tagWorkflowType, params.workflowType.Name))
	})

	return nil
}

func (wc *workflowEnvironmentImpl) RequestCancelChildWorkflow(domain, workflowID string) {
	// For cancellation of child workflow only, we do not use cancellation ID.
	// The child workflow cancellation is tracked by the child workflow state
	// machine keyed by workflow ID.
	decision := wc.decisionsHelper.requestCancelExternalWorkflowExecution(domain, workflowID, "", "", true)
	child := decision.getData().(*scheduledChildWorkflow)
	if decision.isDone() || !child.waitForCancellation {
		child.handle(nil, NewCanceledError())
	}
}

func (wc *workflowEnvironmentImpl) RequestCancelExternalWorkflow(domain, workflowID, runID string, callback resultHandler) {
	// For cancellation of an external workflow, a worker generated
	// cancellation ID correlates the decision with its response events.
	cancellationID := wc.GenerateSequenceID()
	decision := wc.decisionsHelper.requestCancelExternalWorkflowExecution(domain, workflowID, runID, cancellationID, false)
	decision.setData(&scheduledCancellation{callback: callback})
}

func (wc *workflowEnvironmentImpl) SignalExternalWorkflow(
	domain, workflowID, runID, signalName string, input []byte, callback resultHandler,
) {
	signalID := wc.GenerateSequenceID()
	decision := wc.decisionsHelper.signalExternalWorkflowExecution(domain, workflowID, runID, signalName, input, signalID, false)
	decision.setData(&scheduledSignal{callback: callback})
}

// SetCurrentReplayTime sets the workflow clock from the event being applied.
// Replay time never moves backwards.
func (wc *workflowEnvironmentImpl) SetCurrentReplayTime(replayTime time.Time) {
	if replayTime.Before(wc.currentReplayTime) {
		return
	}
	wc.currentReplayTime = replayTime
}

func (wc *workflowEnvironmentImpl) Now() time.Time {
	return wc.currentReplayTime
}

func (weh *workflowExecutionEventHandlerImpl) ProcessEvent(
	event *shared.HistoryEvent,
	isReplay bool,
	isLast bool,
) (err error) {
	if event == nil {
		return fmt.Errorf("nil event provided")
	}

	weh.isReplay = isReplay
	traceLog(func() {
		weh.logger.Debug("ProcessEvent",
			zap.Int64(tagEventID, event.GetEventId()),
			zap.String(tagEventType, event.GetEventType().String()))
	})

	switch event.GetEventType() {
	case shared.EventTypeWorkflowExecutionStarted:
		err = weh.handleWorkflowExecutionStarted(event.WorkflowExecutionStartedEventAttributes)

	case shared.EventTypeWorkflowExecutionCompleted,
		shared.EventTypeWorkflowExecutionFailed,
		shared.EventTypeWorkflowExecutionTimedOut,
		shared.EventTypeWorkflowExecutionCanceled,
		shared.EventTypeWorkflowExecutionTerminated,
		shared.EventTypeWorkflowExecutionContinuedAsNew:
		// The workflow is closed; nothing to drive.

	case shared.EventTypeWorkflowExecutionCancelRequested:
		weh.handleWorkflowExecutionCancelRequested()

	case shared.EventTypeWorkflowExecutionSignaled:
		weh.handleWorkflowExecutionSignaled(event.WorkflowExecutionSignaledEventAttributes)

	case shared.EventTypeDecisionTaskScheduled,
		shared.EventTypeDecisionTaskTimedOut,
		shared.EventTypeDecisionTaskFailed:
		// No action.

	case shared.EventTypeDecisionTaskStarted:
		// decision event ids are predicted from the started event id, so the
		// helper has to know it before user code emits decisions
		weh.decisionsHelper.setCurrentDecisionStartedEventID(event.GetEventId())
		weh.SetCurrentReplayTime(time.Unix(0, event.GetTimestamp()))
		weh.workflowDefinition.OnDecisionTaskStarted()

	case shared.EventTypeDecisionTaskCompleted:
		// the decisions emitted for the completed decision task were sent;
		// mark them so the events they caused can be applied to their machines
		weh.decisionsHelper.getDecisions(true)
		weh.decisionsHelper.handleDecisionTaskCompleted(event.DecisionTaskCompletedEventAttributes.ExecutionContext)

	case shared.EventTypeActivityTaskScheduled:
		weh.decisionsHelper.handleActivityTaskScheduled(
			event.GetEventId(), event.ActivityTaskScheduledEventAttributes.GetActivityId())

	case shared.EventTypeActivityTaskStarted:
		// No action.

	case shared.EventTypeActivityTaskCompleted:
		err = weh.handleActivityTaskCompleted(event)

	case shared.EventTypeActivityTaskFailed:
		err = weh.handleActivityTaskFailed(event)

	case shared.EventTypeActivityTaskTimedOut:
		err = weh.handleActivityTaskTimedOut(event)

	case shared.EventTypeActivityTaskCancelRequested:
		weh.decisionsHelper.handleActivityTaskCancelRequested(
			event.ActivityTaskCancelRequestedEventAttributes.GetActivityId())

	case shared.EventTypeRequestCancelActivityTaskFailed:
		weh.decisionsHelper.handleRequestCancelActivityTaskFailed(
			event.RequestCancelActivityTaskFailedEventAttributes.GetActivityId())

	case shared.EventTypeActivityTaskCanceled:
		err = weh.handleActivityTaskCanceled(event)

	case shared.EventTypeTimerStarted:
		weh.handleTimerStarted(event.TimerStartedEventAttributes.GetTimerId())

	case shared.EventTypeTimerFired:
		weh.handleTimerFired(event.TimerFiredEventAttributes.GetTimerId())

	case shared.EventTypeTimerCanceled:
		weh.handleTimerCanceled(event.TimerCanceledEventAttributes.GetTimerId())

	case shared.EventTypeCancelTimerFailed:
		weh.decisionsHelper.handleCancelTimerFailed(event.CancelTimerFailedEventAttributes.GetTimerId())

	case shared.EventTypeStartChildWorkflowExecutionInitiated:
		weh.decisionsHelper.handleStartChildWorkflowExecutionInitiated(
			event.StartChildWorkflowExecutionInitiatedEventAttributes.GetWorkflowId())

	case shared.EventTypeStartChildWorkflowExecutionFailed:
		err = weh.handleStartChildWorkflowExecutionFailed(event)

	case shared.EventTypeChildWorkflowExecutionStarted:
		err = weh.handleChildWorkflowExecutionStarted(event)

	case shared.EventTypeChildWorkflowExecutionCompleted:
		err = weh.handleChildWorkflowExecutionCompleted(event)

	case shared.EventTypeChildWorkflowExecutionFailed:
		err = weh.handleChildWorkflowExecutionFailed(event)

	case shared.EventTypeChildWorkflowExecutionCanceled:
		err = weh.handleChildWorkflowExecutionCanceled(event)

	case shared.EventTypeChildWorkflowExecutionTimedOut:
		err = weh.handleChildWorkflowExecutionTimedOut(event)

	case shared.EventTypeChildWorkflowExecutionTerminated:
		err = weh.handleChildWorkflowExecutionTerminated(event)

	case shared.EventTypeSignalExternalWorkflowExecutionInitiated:
		weh.decisionsHelper.handleSignalExternalWorkflowExecutionInitiated(
			event.GetEventId(), string(event.SignalExternalWorkflowExecutionInitiatedEventAttributes.Control))

	case shared.EventTypeSignalExternalWorkflowExecutionFailed:
		weh.handleSignalExternalWorkflowExecutionFailed(event)

	case shared.EventTypeExternalWorkflowExecutionSignaled:
		weh.handleExternalWorkflowExecutionSignaled(event)

	case shared.EventTypeRequestCancelExternalWorkflowExecutionInitiated:
		weh.handleRequestCancelExternalWorkflowExecutionInitiated(event)

	case shared.EventTypeRequestCancelExternalWorkflowExecutionFailed:
		weh.handleRequestCancelExternalWorkflowExecutionFailed(event)

	case shared.EventTypeExternalWorkflowExecutionCancelRequested:
		weh.handleExternalWorkflowExecutionCancelRequested(event)

	default:
		weh.logger.Error("unknown event type",
			zap.Int64(tagEventID, event.GetEventId()),
			zap.String(tagEventType, event.GetEventType().String()))
		// do not fail the task on an unknown event type; the service may be newer
	}
	return err
}

func (weh *workflowExecutionEventHandlerImpl) ProcessQuery(queryType string, queryArgs []byte) ([]byte, error) {
	switch queryType {
	case QueryTypeStackTrace:
		return weh.encodeArg(weh.StackTrace())
	default:
		if weh.queryHandler == nil {
			return nil, fmt.Errorf("unknown queryType %v, workflow registered no query handler", queryType)
		}
		result, err := weh.queryHandler(queryType, queryArgs)
		if err != nil {
			return nil, err
		}
		if len(result) > queryResultSizeLimit {
			weh.logger.Error("query result size exceeds limit.",
				zap.String(tagQueryType, queryType),
				zap.String(tagWorkflowID, weh.workflowInfo.WorkflowExecution.ID),
				zap.String(tagRunID, weh.workflowInfo.WorkflowExecution.RunID))
			return nil, fmt.Errorf("query result size (%v) exceeds limit (%v)", len(result), queryResultSizeLimit)
		}
		return result, nil
	}
}

func (weh *workflowExecutionEventHandlerImpl) StackTrace() string {
	if weh.workflowDefinition == nil {
		return "workflow not started"
	}
	return weh.workflowDefinition.StackTrace()
}

func (weh *workflowExecutionEventHandlerImpl) Close() {
	if weh.workflowDefinition != nil {
		weh.workflowDefinition.Close()
	}
}

func (weh *workflowExecutionEventHandlerImpl) encodeArg(arg interface{}) ([]byte, error) {
	return encodeArg(weh.GetDataConverter(), arg)
}

func (weh *workflowExecutionEventHandlerImpl) handleWorkflowExecutionStarted(
	attributes *shared.WorkflowExecutionStartedEventAttributes,
) (err error) {
	weh.workflowDefinition, err = weh.workflowDefinitionFactory.NewWorkflowDefinition()
	if err != nil {
		return err
	}

	// Invoke the workflow.
	weh.workflowDefinition.Execute(weh, attributes.Input)
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleWorkflowExecutionCancelRequested() {
	if weh.cancelHandler != nil {
		weh.cancelHandler()
	}
}

func (weh *workflowExecutionEventHandlerImpl) handleWorkflowExecutionSignaled(
	attributes *shared.WorkflowExecutionSignaledEventAttributes,
) {
	if weh.signalHandler != nil {
		weh.signalHandler(attributes.GetSignalName(), attributes.Input)
	}
}

func (weh *workflowExecutionEventHandlerImpl) handleActivityTaskCompleted(event *shared.HistoryEvent) error {
	activityID := weh.decisionsHelper.getActivityID(event)
	decision := weh.decisionsHelper.handleActivityTaskClosed(activityID)
	activity := decision.getData().(*scheduledActivity)
	if activity.handled {
		return nil
	}
	activity.handle(event.ActivityTaskCompletedEventAttributes.Result, nil)
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleActivityTaskFailed(event *shared.HistoryEvent) error {
	activityID := weh.decisionsHelper.getActivityID(event)
	decision := weh.decisionsHelper.handleActivityTaskClosed(activityID)
	activity := decision.getData().(*scheduledActivity)
	if activity.handled {
		return nil
	}

	attributes := event.ActivityTaskFailedEventAttributes
	cause := constructError(attributes.GetReason(), attributes.Details, weh.GetDataConverter())
	err := newActivityTaskError(
		attributes.GetScheduledEventId(),
		0,
		&shared.ActivityType{Name: common.StringPtr(activity.activityType.Name)},
		activityID,
		cause,
	)
	activity.handle(nil, err)
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleActivityTaskTimedOut(event *shared.HistoryEvent) error {
	activityID := weh.decisionsHelper.getActivityID(event)
	decision := weh.decisionsHelper.handleActivityTaskClosed(activityID)
	activity := decision.getData().(*scheduledActivity)
	if activity.handled {
		return nil
	}

	attributes := event.ActivityTaskTimedOutEventAttributes
	var cause error
	if len(attributes.Details) > 0 {
		cause = NewTimeoutError(attributes.GetTimeoutType(), newEncodedValues(attributes.Details, weh.GetDataConverter()))
	} else {
		cause = NewTimeoutError(attributes.GetTimeoutType())
	}
	err := newActivityTaskError(
		attributes.GetScheduledEventId(),
		0,
		&shared.ActivityType{Name: common.StringPtr(activity.activityType.Name)},
		activityID,
		cause,
	)
	activity.handle(nil, err)
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleActivityTaskCanceled(event *shared.HistoryEvent) error {
	activityID := weh.decisionsHelper.getActivityID(event)
	decision := weh.decisionsHelper.handleActivityTaskCanceled(activityID)
	activity := decision.getData().(*scheduledActivity)
	if activity.handled {
		return nil
	}

	if decision.isDone() || !activity.waitForCancelRequest {
		details := newEncodedValues(event.ActivityTaskCanceledEventAttributes.Details, weh.GetDataConverter())
		activity.handle(nil, NewCanceledError(details))
	}
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleTimerStarted(timerID string) {
	if timerID == forceImmediateDecisionTimerID {
		// synthetic timer appended on batch overflow; there is no state machine
		return
	}
	weh.decisionsHelper.handleTimerStarted(timerID)
}

func (weh *workflowExecutionEventHandlerImpl) handleTimerFired(timerID string) {
	if timerID == forceImmediateDecisionTimerID {
		return
	}
	decision := weh.decisionsHelper.handleTimerClosed(timerID)
	timer := decision.getData().(*scheduledTimer)
	if timer.handled {
		return
	}
	timer.handle(nil, nil)
}

func (weh *workflowExecutionEventHandlerImpl) handleTimerCanceled(timerID string) {
	if timerID == forceImmediateDecisionTimerID {
		return
	}
	weh.decisionsHelper.handleTimerCanceled(timerID)
}

func (weh *workflowExecutionEventHandlerImpl) handleStartChildWorkflowExecutionFailed(event *shared.HistoryEvent) error {
	attributes := event.StartChildWorkflowExecutionFailedEventAttributes
	childWorkflowID := attributes.GetWorkflowId()
	decision := weh.decisionsHelper.handleStartChildWorkflowExecutionFailed(childWorkflowID)
	childWorkflow := decision.getData().(*scheduledChildWorkflow)
	if childWorkflow.handled {
		return nil
	}

	err := &GenericError{err: "start child workflow failed: workflow already running"}
	childWorkflow.startedCallback(WorkflowExecution{}, err)
	childWorkflow.handle(nil, err)
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleChildWorkflowExecutionStarted(event *shared.HistoryEvent) error {
	attributes := event.ChildWorkflowExecutionStartedEventAttributes
	childWorkflowID := attributes.WorkflowExecution.GetWorkflowId()
	childRunID := attributes.WorkflowExecution.GetRunId()
	decision := weh.decisionsHelper.handleChildWorkflowExecutionStarted(childWorkflowID)
	childWorkflow := decision.getData().(*scheduledChildWorkflow)
	if childWorkflow.handled {
		return nil
	}

	childWorkflowExecution := WorkflowExecution{
		ID:    childWorkflowID,
		RunID: childRunID,
	}
	childWorkflow.startedCallback(childWorkflowExecution, nil)
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleChildWorkflowExecutionCompleted(event *shared.HistoryEvent) error {
	attributes := event.ChildWorkflowExecutionCompletedEventAttributes
	childWorkflowID := attributes.WorkflowExecution.GetWorkflowId()
	decision := weh.decisionsHelper.handleChildWorkflowExecutionClosed(childWorkflowID)
	childWorkflow := decision.getData().(*scheduledChildWorkflow)
	if childWorkflow.handled {
		return nil
	}
	childWorkflow.handle(attributes.Result, nil)
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleChildWorkflowExecutionFailed(event *shared.HistoryEvent) error {
	attributes := event.ChildWorkflowExecutionFailedEventAttributes
	childWorkflowID := attributes.WorkflowExecution.GetWorkflowId()
	decision := weh.decisionsHelper.handleChildWorkflowExecutionClosed(childWorkflowID)
	childWorkflow := decision.getData().(*scheduledChildWorkflow)
	if childWorkflow.handled {
		return nil
	}

	cause := constructError(attributes.GetReason(), attributes.Details, weh.GetDataConverter())
	childWorkflow.handle(nil, newChildWorkflowExecutionErrorFromEvent(attributes, cause))
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleChildWorkflowExecutionCanceled(event *shared.HistoryEvent) error {
	attributes := event.ChildWorkflowExecutionCanceledEventAttributes
	childWorkflowID := attributes.WorkflowExecution.GetWorkflowId()
	decision := weh.decisionsHelper.handleChildWorkflowExecutionCanceled(childWorkflowID)
	childWorkflow := decision.getData().(*scheduledChildWorkflow)
	if childWorkflow.handled {
		return nil
	}
	details := newEncodedValues(attributes.Details, weh.GetDataConverter())
	childWorkflow.handle(nil, NewCanceledError(details))
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleChildWorkflowExecutionTimedOut(event *shared.HistoryEvent) error {
	attributes := event.ChildWorkflowExecutionTimedOutEventAttributes
	childWorkflowID := attributes.WorkflowExecution.GetWorkflowId()
	decision := weh.decisionsHelper.handleChildWorkflowExecutionClosed(childWorkflowID)
	childWorkflow := decision.getData().(*scheduledChildWorkflow)
	if childWorkflow.handled {
		return nil
	}
	var timeoutType shared.TimeoutType
	if attributes.TimeoutType != nil {
		timeoutType = *attributes.TimeoutType
	}
	childWorkflow.handle(nil, NewTimeoutError(timeoutType))
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleChildWorkflowExecutionTerminated(event *shared.HistoryEvent) error {
	attributes := event.ChildWorkflowExecutionTerminatedEventAttributes
	childWorkflowID := attributes.WorkflowExecution.GetWorkflowId()
	decision := weh.decisionsHelper.handleChildWorkflowExecutionClosed(childWorkflowID)
	childWorkflow := decision.getData().(*scheduledChildWorkflow)
	if childWorkflow.handled {
		return nil
	}
	childWorkflow.handle(nil, &TerminatedError{})
	return nil
}

func (weh *workflowExecutionEventHandlerImpl) handleSignalExternalWorkflowExecutionFailed(event *shared.HistoryEvent) {
	attributes := event.SignalExternalWorkflowExecutionFailedEventAttributes
	decision := weh.decisionsHelper.handleSignalExternalWorkflowExecutionFailed(attributes.GetInitiatedEventId())
	signal := decision.getData().(*scheduledSignal)
	if signal.handled {
		return
	}
	signal.handle(nil, &UnknownExternalWorkflowExecutionError{})
}

func (weh *workflowExecutionEventHandlerImpl) handleExternalWorkflowExecutionSignaled(event *shared.HistoryEvent) {
	attributes := event.ExternalWorkflowExecutionSignaledEventAttributes
	decision := weh.decisionsHelper.handleSignalExternalWorkflowExecutionCompleted(attributes.GetInitiatedEventId())
	signal := decision.getData().(*scheduledSignal)
	if signal.handled {
		return
	}
	signal.handle(nil, nil)
}

func (weh *workflowExecutionEventHandlerImpl) handleRequestCancelExternalWorkflowExecutionInitiated(event *shared.HistoryEvent) {
	attributes := event.RequestCancelExternalWorkflowExecutionInitiatedEventAttributes
	weh.decisionsHelper.handleRequestCancelExternalWorkflowExecutionInitiated(
		event.GetEventId(), attributes.WorkflowExecution.GetWorkflowId(), string(attributes.Control))
}

func (weh *workflowExecutionEventHandlerImpl) handleExternalWorkflowExecutionCancelRequested(event *shared.HistoryEvent) {
	attributes := event.ExternalWorkflowExecutionCancelRequestedEventAttributes
	isExternal, decision := weh.decisionsHelper.handleExternalWorkflowExecutionCancelRequested(
		attributes.GetInitiatedEventId(), attributes.WorkflowExecution.GetWorkflowId())
	if isExternal {
		// for external workflow, we need to set the future
		cancellation := decision.getData().(*scheduledCancellation)
		if !cancellation.handled {
			cancellation.handle(nil, nil)
		}
	}
}

func (weh *workflowExecutionEventHandlerImpl) handleRequestCancelExternalWorkflowExecutionFailed(event *shared.HistoryEvent) {
	attributes := event.RequestCancelExternalWorkflowExecutionFailedEventAttributes
	isExternal, decision := weh.decisionsHelper.handleRequestCancelExternalWorkflowExecutionFailed(
		attributes.GetInitiatedEventId(), attributes.WorkflowExecution.GetWorkflowId())
	if isExternal {
		cancellation := decision.getData().(*scheduledCancellation)
		if !cancellation.handled {
			cancellation.handle(nil, &UnknownExternalWorkflowExecutionError{})
		}
	}
}

func newChildWorkflowExecutionErrorFromEvent(
	attributes *shared.ChildWorkflowExecutionFailedEventAttributes,
	cause error,
) *ChildWorkflowExecutionError {
	var domain string
	if attributes.Domain != nil {
		domain = *attributes.Domain
	}
	var initiatedEventID, startedEventID int64
	if attributes.InitiatedEventId != nil {
		initiatedEventID = *attributes.InitiatedEventId
	}
	if attributes.StartedEventId != nil {
		startedEventID = *attributes.StartedEventId
	}
	return newChildWorkflowExecutionError(
		domain,
		attributes.WorkflowExecution.GetWorkflowId(),
		attributes.WorkflowExecution.GetRunId(),
		attributes.WorkflowType.GetName(),
		initiatedEventID,
		startedEventID,
		cause,
	)
}
