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
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pborman/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/shared"
	"github.com/tideflow-io/tideflow-go-client/shared/workflowservicetest"
)

const (
	testDomain       = "test-domain"
	testTaskList     = "tl"
	testWorkflowType = "test-workflow"
)

type (
	TaskHandlersTestSuite struct {
		suite.Suite
		logger   *zap.Logger
		mockCtrl *gomock.Controller
		service  *workflowservicetest.MockClient
	}
)

func TestTaskHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlersTestSuite))
}

func (t *TaskHandlersTestSuite) SetupSuite() {
	logger, _ := zap.NewDevelopment()
	t.logger = logger
}

func (t *TaskHandlersTestSuite) SetupTest() {
	t.mockCtrl = gomock.NewController(t.T())
	t.service = workflowservicetest.NewMockClient(t.mockCtrl)
}

func (t *TaskHandlersTestSuite) TearDownTest() {
	t.mockCtrl.Finish()
}

func createTestEventWorkflowExecutionStarted(eventID int64, attr *shared.WorkflowExecutionStartedEventAttributes) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:                                 common.Int64Ptr(eventID),
		EventType:                               common.EventTypePtr(shared.EventTypeWorkflowExecutionStarted),
		WorkflowExecutionStartedEventAttributes: attr}
}

func createTestEventDecisionTaskScheduled(eventID int64, attr *shared.DecisionTaskScheduledEventAttributes) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:                              common.Int64Ptr(eventID),
		EventType:                            common.EventTypePtr(shared.EventTypeDecisionTaskScheduled),
		DecisionTaskScheduledEventAttributes: attr}
}

func createTestEventDecisionTaskStarted(eventID int64) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:   common.Int64Ptr(eventID),
		EventType: common.EventTypePtr(shared.EventTypeDecisionTaskStarted)}
}

func createTestEventDecisionTaskCompleted(eventID int64, attr *shared.DecisionTaskCompletedEventAttributes) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:                              common.Int64Ptr(eventID),
		EventType:                            common.EventTypePtr(shared.EventTypeDecisionTaskCompleted),
		DecisionTaskCompletedEventAttributes: attr}
}

func createTestEventActivityTaskScheduled(eventID int64, attr *shared.ActivityTaskScheduledEventAttributes) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:                              common.Int64Ptr(eventID),
		EventType:                            common.EventTypePtr(shared.EventTypeActivityTaskScheduled),
		ActivityTaskScheduledEventAttributes: attr}
}

func createTestEventActivityTaskStarted(eventID int64, attr *shared.ActivityTaskStartedEventAttributes) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:                            common.Int64Ptr(eventID),
		EventType:                          common.EventTypePtr(shared.EventTypeActivityTaskStarted),
		ActivityTaskStartedEventAttributes: attr}
}

func createTestEventActivityTaskCompleted(eventID int64, attr *shared.ActivityTaskCompletedEventAttributes) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:                              common.Int64Ptr(eventID),
		EventType:                            common.EventTypePtr(shared.EventTypeActivityTaskCompleted),
		ActivityTaskCompletedEventAttributes: attr}
}

func createTestEventTimerStarted(eventID int64, timerID string) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:   common.Int64Ptr(eventID),
		EventType: common.EventTypePtr(shared.EventTypeTimerStarted),
		TimerStartedEventAttributes: &shared.TimerStartedEventAttributes{
			TimerId: common.StringPtr(timerID)}}
}

func createTestEventTimerFired(eventID int64, timerID string) *shared.HistoryEvent {
	return &shared.HistoryEvent{
		EventId:   common.Int64Ptr(eventID),
		EventType: common.EventTypePtr(shared.EventTypeTimerFired),
		TimerFiredEventAttributes: &shared.TimerFiredEventAttributes{
			TimerId: common.StringPtr(timerID)}}
}

func createWorkflowTask(
	events []*shared.HistoryEvent,
	previousStartedEventID int64,
	workflowName string,
) *shared.PollForDecisionTaskResponse {
	eventsCopy := make([]*shared.HistoryEvent, len(events))
	copy(eventsCopy, events)
	var startedEventID int64
	if len(events) > 0 {
		startedEventID = events[len(events)-1].GetEventId()
	}
	return &shared.PollForDecisionTaskResponse{
		TaskToken:              []byte("test-token"),
		PreviousStartedEventId: common.Int64Ptr(previousStartedEventID),
		StartedEventId:         common.Int64Ptr(startedEventID),
		WorkflowType:           common.WorkflowTypePtr(shared.WorkflowType{Name: common.StringPtr(workflowName)}),
		History:                &shared.History{Events: eventsCopy},
		WorkflowExecution: &shared.WorkflowExecution{
			WorkflowId: common.StringPtr("fake-workflow-id"),
			RunId:      common.StringPtr(uuid.New()),
		},
	}
}

func createQueryTask(
	events []*shared.HistoryEvent,
	previousStartedEventID int64,
	workflowName string,
	queryType string,
) *shared.PollForDecisionTaskResponse {
	task := createWorkflowTask(events, previousStartedEventID, workflowName)
	task.Query = &shared.WorkflowQuery{
		QueryType: common.StringPtr(queryType),
	}
	return task
}

func testWorkflowStartedEventAttributes() *shared.WorkflowExecutionStartedEventAttributes {
	return &shared.WorkflowExecutionStartedEventAttributes{
		TaskList:                       common.TaskListPtr(shared.TaskList{Name: common.StringPtr(testTaskList)}),
		TaskStartToCloseTimeoutSeconds: common.Int32Ptr(10),
	}
}

// stepWorkflowDefinition is a scripted stand-in for the deterministic
// dispatcher: each decision task started event consumes one step.
type stepWorkflowDefinition struct {
	env       workflowEnvironment
	steps     []func(env workflowEnvironment)
	stepIndex int
}

func (d *stepWorkflowDefinition) Execute(env workflowEnvironment, input []byte) {
	d.env = env
}

func (d *stepWorkflowDefinition) OnDecisionTaskStarted() {
	if d.stepIndex < len(d.steps) {
		step := d.steps[d.stepIndex]
		d.stepIndex++
		step(d.env)
	}
}

func (d *stepWorkflowDefinition) StackTrace() string {
	return "stepWorkflowDefinition stack trace"
}

func (d *stepWorkflowDefinition) Close() {}

type stepWorkflowFactory struct {
	steps func() []func(env workflowEnvironment)
}

func (f stepWorkflowFactory) NewWorkflowDefinition() (WorkflowDefinition, error) {
	return &stepWorkflowDefinition{steps: f.steps()}, nil
}

func registerStepWorkflow(registry *registry, steps func() []func(env workflowEnvironment)) {
	registry.RegisterWorkflowFactory(testWorkflowType, stepWorkflowFactory{steps: steps})
}

func scheduleActivitySteps(activityID string, onResult *resultHandler) func() []func(env workflowEnvironment) {
	return func() []func(env workflowEnvironment) {
		return []func(env workflowEnvironment){
			func(env workflowEnvironment) {
				env.ExecuteActivity(executeActivityParams{
					activityOptions: activityOptions{
						ActivityID:                 common.StringPtr(activityID),
						TaskListName:               testTaskList,
						StartToCloseTimeoutSeconds: 10,
					},
					ActivityType: ActivityType{Name: "greeter"},
				}, func(result []byte, err error) {
					if onResult != nil && *onResult != nil {
						(*onResult)(result, err)
					}
				})
			},
			func(env workflowEnvironment) {},
		}
	}
}

func (t *TaskHandlersTestSuite) taskHandler(registry *registry) WorkflowTaskHandler {
	params := workerExecutionParameters{
		TaskList: testTaskList,
		Identity: "test-identity",
		Logger:   t.logger,
	}
	ensureRequiredParams(&params)
	return newWorkflowTaskHandler(testDomain, params, registry)
}

// Scenario: user code schedules one activity, the first decision batch
// carries exactly that ScheduleActivityTask decision.
func (t *TaskHandlersTestSuite) TestScheduleActivity_FirstDecision() {
	registry := newRegistry()
	registerStepWorkflow(registry, scheduleActivitySteps("a1", nil))

	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
	}
	task := createWorkflowTask(events, 0, testWorkflowType)

	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{task: task})
	t.NoError(err)
	completed, ok := response.(*shared.RespondDecisionTaskCompletedRequest)
	t.True(ok)
	t.Equal(1, len(completed.Decisions))
	t.Equal(shared.DecisionTypeScheduleActivityTask, completed.Decisions[0].GetDecisionType())
	t.Equal("a1", completed.Decisions[0].ScheduleActivityTaskDecisionAttributes.GetActivityId())
}

// Scenario: the next task's history carries the scheduled and completed
// events; replay drives the machine to terminal and emits nothing.
func (t *TaskHandlersTestSuite) TestScheduleActivity_ReplayToCompletion() {
	var activityResult []byte
	var handler resultHandler = func(result []byte, err error) {
		activityResult = result
	}
	registry := newRegistry()
	registerStepWorkflow(registry, scheduleActivitySteps("a1", &handler))

	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
		createTestEventDecisionTaskCompleted(4, &shared.DecisionTaskCompletedEventAttributes{}),
		createTestEventActivityTaskScheduled(5, &shared.ActivityTaskScheduledEventAttributes{
			ActivityId: common.StringPtr("a1")}),
		createTestEventActivityTaskStarted(6, &shared.ActivityTaskStartedEventAttributes{
			ScheduledEventId: common.Int64Ptr(5)}),
		createTestEventActivityTaskCompleted(7, &shared.ActivityTaskCompletedEventAttributes{
			ScheduledEventId: common.Int64Ptr(5), Result: []byte("ok")}),
		createTestEventDecisionTaskScheduled(8, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(9),
	}
	task := createWorkflowTask(events, 3, testWorkflowType)

	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{task: task})
	t.NoError(err)
	completed, ok := response.(*shared.RespondDecisionTaskCompletedRequest)
	t.True(ok)
	t.Equal(0, len(completed.Decisions))
	t.Equal([]byte("ok"), activityResult)
}

// Scenario: history says a2 was scheduled but this replay's code schedules
// a1; the task fails with a descriptive nondeterminism error.
func (t *TaskHandlersTestSuite) TestNondeterministicWorkflow_FailsTask() {
	registry := newRegistry()
	registerStepWorkflow(registry, scheduleActivitySteps("a1", nil))

	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
		createTestEventDecisionTaskCompleted(4, &shared.DecisionTaskCompletedEventAttributes{}),
		createTestEventActivityTaskScheduled(5, &shared.ActivityTaskScheduledEventAttributes{
			ActivityId: common.StringPtr("a2")}),
		createTestEventDecisionTaskScheduled(6, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(7),
	}
	task := createWorkflowTask(events, 3, testWorkflowType)

	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{task: task})
	t.Error(err)
	t.Nil(response)
	t.Contains(err.Error(), "unknown decision")
	t.Contains(err.Error(), "a2")

	failedRequest := errorToFailDecisionTask(task.TaskToken, err, "test-identity")
	t.Equal(shared.DecisionTaskFailedCauseWorkflowWorkerUnhandledFailure, *failedRequest.Cause)
	t.Contains(string(failedRequest.Details), "unknown decision")
}

// Scenario: schedule then cancel within the same decision. The batch is empty
// and the cancellation callback fires synchronously exactly once.
func (t *TaskHandlersTestSuite) TestCancelActivityBeforeSent() {
	canceledCount := 0
	registry := newRegistry()
	registerStepWorkflow(registry, func() []func(env workflowEnvironment) {
		return []func(env workflowEnvironment){
			func(env workflowEnvironment) {
				env.ExecuteActivity(executeActivityParams{
					activityOptions: activityOptions{
						ActivityID:                 common.StringPtr("a1"),
						TaskListName:               testTaskList,
						StartToCloseTimeoutSeconds: 10,
					},
					ActivityType: ActivityType{Name: "greeter"},
				}, func(result []byte, err error) {
					if _, ok := err.(*CanceledError); ok {
						canceledCount++
					}
				})
				env.RequestCancelActivity("a1")
			},
		}
	})

	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
	}
	task := createWorkflowTask(events, 0, testWorkflowType)

	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{task: task})
	t.NoError(err)
	completed := response.(*shared.RespondDecisionTaskCompletedRequest)
	t.Equal(0, len(completed.Decisions))
	t.Equal(1, canceledCount)
}

// Re-running replay over the identical history produces an identical ordered
// decision batch.
func (t *TaskHandlersTestSuite) TestReplayDeterminism() {
	buildRegistry := func() *registry {
		registry := newRegistry()
		registerStepWorkflow(registry, func() []func(env workflowEnvironment) {
			return []func(env workflowEnvironment){
				func(env workflowEnvironment) {
					env.NewTimer(10*time.Second, func(result []byte, err error) {})
					env.ExecuteActivity(executeActivityParams{
						activityOptions: activityOptions{
							ActivityID:                 common.StringPtr("a1"),
							TaskListName:               testTaskList,
							StartToCloseTimeoutSeconds: 10,
						},
						ActivityType: ActivityType{Name: "greeter"},
					}, func(result []byte, err error) {})
					env.NewTimer(20*time.Second, func(result []byte, err error) {})
				},
			}
		})
		return registry
	}

	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
	}

	task1 := createWorkflowTask(events, 0, testWorkflowType)
	response1, err1 := t.taskHandler(buildRegistry()).ProcessWorkflowTask(&workflowTask{task: task1})
	t.NoError(err1)

	task2 := createWorkflowTask(events, 0, testWorkflowType)
	response2, err2 := t.taskHandler(buildRegistry()).ProcessWorkflowTask(&workflowTask{task: task2})
	t.NoError(err2)

	decisions1 := response1.(*shared.RespondDecisionTaskCompletedRequest).Decisions
	decisions2 := response2.(*shared.RespondDecisionTaskCompletedRequest).Decisions
	t.Equal(3, len(decisions1))
	t.Equal(decisions1, decisions2)
}

// A workflow completion decision is emitted exactly once and is the final
// decision of the batch.
func (t *TaskHandlersTestSuite) TestCompleteWorkflow_DecisionIsLast() {
	registry := newRegistry()
	registerStepWorkflow(registry, func() []func(env workflowEnvironment) {
		return []func(env workflowEnvironment){
			func(env workflowEnvironment) {
				env.NewTimer(10*time.Second, func(result []byte, err error) {})
				env.Complete([]byte("done"), nil)
			},
		}
	})

	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
	}
	task := createWorkflowTask(events, 0, testWorkflowType)

	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{task: task})
	t.NoError(err)
	completed := response.(*shared.RespondDecisionTaskCompletedRequest)
	t.Equal(2, len(completed.Decisions))
	t.Equal(shared.DecisionTypeStartTimer, completed.Decisions[0].GetDecisionType())
	t.Equal(shared.DecisionTypeCompleteWorkflowExecution, completed.Decisions[1].GetDecisionType())
	t.Equal([]byte("done"), completed.Decisions[1].CompleteWorkflowExecutionDecisionAttributes.Result)
}

func (t *TaskHandlersTestSuite) TestMalformedHistory_FirstEventNotStarted() {
	registry := newRegistry()
	registerStepWorkflow(registry, scheduleActivitySteps("a1", nil))

	events := []*shared.HistoryEvent{
		createTestEventDecisionTaskScheduled(1, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(2),
	}
	task := createWorkflowTask(events, 0, testWorkflowType)

	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{task: task})
	t.Error(err)
	t.Nil(response)
	_, isBadRequest := err.(*shared.BadRequestError)
	t.True(isBadRequest)

	failedRequest := errorToFailDecisionTask(task.TaskToken, err, "test-identity")
	t.Equal(shared.DecisionTaskFailedCauseBadRequest, *failedRequest.Cause)
}

// Scenario: the pagination budget inherited from the workflow's started event
// is already exhausted when the next page is needed; the task fails with an
// error naming the timeout.
func (t *TaskHandlersTestSuite) TestHistoryPagination_BudgetExhausted() {
	registry := newRegistry()
	registerStepWorkflow(registry, scheduleActivitySteps("a1", nil))

	started := testWorkflowStartedEventAttributes()
	started.TaskStartToCloseTimeoutSeconds = common.Int32Ptr(1)
	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, started),
	}
	task := createWorkflowTask(events, 0, testWorkflowType)
	task.NextPageToken = []byte("page-2")
	task.StartedEventId = common.Int64Ptr(3)

	// the poll finished 2s ago; the 1s budget is gone before the first fetch
	pollStartTime := time.Now().Add(-2 * time.Second)
	iterator := newHistoryIterator(t.service, testDomain, task, time.Second, pollStartTime, nil)

	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{
		task:            task,
		historyIterator: iterator,
		pollStartTime:   pollStartTime,
	})
	t.Error(err)
	t.Nil(response)
	t.Contains(err.Error(), "history pagination exceeded")
}

// A paginated history is stitched back together in eventId order.
func (t *TaskHandlersTestSuite) TestHistoryPagination_FetchesRemainingPages() {
	var activityResult []byte
	var handler resultHandler = func(result []byte, err error) {
		activityResult = result
	}
	registry := newRegistry()
	registerStepWorkflow(registry, scheduleActivitySteps("a1", &handler))

	page1 := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
		createTestEventDecisionTaskCompleted(4, &shared.DecisionTaskCompletedEventAttributes{}),
		createTestEventActivityTaskScheduled(5, &shared.ActivityTaskScheduledEventAttributes{
			ActivityId: common.StringPtr("a1")}),
	}
	page2 := []*shared.HistoryEvent{
		createTestEventActivityTaskStarted(6, &shared.ActivityTaskStartedEventAttributes{
			ScheduledEventId: common.Int64Ptr(5)}),
		createTestEventActivityTaskCompleted(7, &shared.ActivityTaskCompletedEventAttributes{
			ScheduledEventId: common.Int64Ptr(5), Result: []byte("paged")}),
		createTestEventDecisionTaskScheduled(8, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(9),
	}

	task := createWorkflowTask(page1, 3, testWorkflowType)
	task.StartedEventId = common.Int64Ptr(9)
	task.NextPageToken = []byte("page-2")

	t.service.EXPECT().GetWorkflowExecutionHistory(gomock.Any(), gomock.Any()).Return(
		&shared.GetWorkflowExecutionHistoryResponse{History: &shared.History{Events: page2}}, nil)

	iterator := newHistoryIterator(t.service, testDomain, task, 10*time.Second, time.Now(), nil)
	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{
		task:            task,
		historyIterator: iterator,
		pollStartTime:   time.Now(),
	})
	t.NoError(err)
	completed := response.(*shared.RespondDecisionTaskCompletedRequest)
	t.Equal(0, len(completed.Decisions))
	t.Equal([]byte("paged"), activityResult)
}

func queryableWorkflowSteps(state *string) func() []func(env workflowEnvironment) {
	return func() []func(env workflowEnvironment) {
		return []func(env workflowEnvironment){
			func(env workflowEnvironment) {
				env.RegisterQueryHandler(func(queryType string, queryArgs []byte) ([]byte, error) {
					return []byte(*state), nil
				})
				*state = "activity-scheduled"
				env.ExecuteActivity(executeActivityParams{
					activityOptions: activityOptions{
						ActivityID:                 common.StringPtr("a1"),
						TaskListName:               testTaskList,
						StartToCloseTimeoutSeconds: 10,
					},
					ActivityType: ActivityType{Name: "greeter"},
				}, func(result []byte, err error) {
					*state = "activity-completed"
				})
			},
			func(env workflowEnvironment) {},
		}
	}
}

// A live query task and the offline replayer produce the same query result
// for the same history.
func (t *TaskHandlersTestSuite) TestQueryTask_MatchesOfflineReplay() {
	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, &shared.WorkflowExecutionStartedEventAttributes{
			WorkflowType:                   common.WorkflowTypePtr(shared.WorkflowType{Name: common.StringPtr(testWorkflowType)}),
			TaskList:                       common.TaskListPtr(shared.TaskList{Name: common.StringPtr(testTaskList)}),
			TaskStartToCloseTimeoutSeconds: common.Int32Ptr(10),
		}),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
		createTestEventDecisionTaskCompleted(4, &shared.DecisionTaskCompletedEventAttributes{}),
		createTestEventActivityTaskScheduled(5, &shared.ActivityTaskScheduledEventAttributes{
			ActivityId: common.StringPtr("a1")}),
		createTestEventActivityTaskStarted(6, &shared.ActivityTaskStartedEventAttributes{
			ScheduledEventId: common.Int64Ptr(5)}),
		createTestEventActivityTaskCompleted(7, &shared.ActivityTaskCompletedEventAttributes{
			ScheduledEventId: common.Int64Ptr(5), Result: []byte("ok")}),
		createTestEventDecisionTaskScheduled(8, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(9),
	}

	// live query
	liveState := ""
	liveRegistry := newRegistry()
	registerStepWorkflow(liveRegistry, queryableWorkflowSteps(&liveState))
	queryTask := createQueryTask(events, 3, testWorkflowType, "state")
	response, err := t.taskHandler(liveRegistry).ProcessWorkflowTask(&workflowTask{task: queryTask})
	t.NoError(err)
	queryResponse, ok := response.(*shared.RespondQueryTaskCompletedRequest)
	t.True(ok)
	t.Equal(shared.QueryTaskCompletedTypeCompleted, *queryResponse.CompletedType)

	// offline replay of the identical history
	replayState := ""
	replayer := NewWorkflowReplayer()
	replayer.RegisterWorkflowFactory(testWorkflowType, stepWorkflowFactory{steps: queryableWorkflowSteps(&replayState)})
	replayResult, err := replayer.QueryWorkflowHistory(t.logger, &shared.History{Events: events}, "state", nil)
	t.NoError(err)

	t.Equal(queryResponse.QueryResult, replayResult)
	t.Equal([]byte("activity-completed"), replayResult)
}

// Timer fired events resolve to the timer machines created during replay.
func (t *TaskHandlersTestSuite) TestTimerWorkflow_Replay() {
	firedCount := 0
	registry := newRegistry()
	registerStepWorkflow(registry, func() []func(env workflowEnvironment) {
		return []func(env workflowEnvironment){
			func(env workflowEnvironment) {
				env.NewTimer(10*time.Second, func(result []byte, err error) {
					firedCount++
				})
			},
			func(env workflowEnvironment) {},
		}
	})

	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(3),
		createTestEventDecisionTaskCompleted(4, &shared.DecisionTaskCompletedEventAttributes{}),
		createTestEventTimerStarted(5, "0"),
		createTestEventTimerFired(6, "0"),
		createTestEventDecisionTaskScheduled(7, &shared.DecisionTaskScheduledEventAttributes{}),
		createTestEventDecisionTaskStarted(8),
	}
	task := createWorkflowTask(events, 3, testWorkflowType)

	response, err := t.taskHandler(registry).ProcessWorkflowTask(&workflowTask{task: task})
	t.NoError(err)
	completed := response.(*shared.RespondDecisionTaskCompletedRequest)
	t.Equal(0, len(completed.Decisions))
	t.Equal(1, firedCount)
}

func TestHistoryEventIterator_LocalOnly(t *testing.T) {
	events := []*shared.HistoryEvent{
		createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
	}
	task := createWorkflowTask(events, 0, testWorkflowType)
	it := newHistoryEventIterator(task, nil)

	var got []int64
	for it.HasNext() {
		event, err := it.Next()
		require.NoError(t, err)
		require.NotNil(t, event)
		got = append(got, event.GetEventId())
	}
	require.Equal(t, []int64{1, 2}, got)

	event, err := it.Next()
	require.NoError(t, err)
	require.Nil(t, event)
}
