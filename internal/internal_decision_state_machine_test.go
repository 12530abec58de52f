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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/shared"
)

func runAndCatchPanic(f func()) (err *PanicError) {
	defer func() {
		if p := recover(); p != nil {
			topLine := "panic"
			st := getStackTraceRaw(topLine, 7, 0)
			err = newPanicError(p, st)
		}
	}()
	f()
	return nil
}

func Test_TimerStateMachine_CancelBeforeSent(t *testing.T) {
	timerID := "test-timer-1"
	attributes := &shared.StartTimerDecisionAttributes{
		TimerId: common.StringPtr(timerID),
	}
	h := newDecisionsHelper()
	d := h.startTimer(attributes)
	require.Equal(t, decisionStateCreated, d.getState())
	h.cancelTimer(timerID)
	require.Equal(t, decisionStateCompleted, d.getState())
	decisions := h.getDecisions(true)
	require.Equal(t, 0, len(decisions))
}

func Test_TimerStateMachine_CancelAfterInitiated(t *testing.T) {
	timerID := "test-timer-1"
	attributes := &shared.StartTimerDecisionAttributes{
		TimerId: common.StringPtr(timerID),
	}
	h := newDecisionsHelper()
	d := h.startTimer(attributes)
	require.Equal(t, decisionStateCreated, d.getState())
	decisions := h.getDecisions(true)
	require.Equal(t, decisionStateDecisionSent, d.getState())
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeStartTimer, decisions[0].GetDecisionType())
	require.Equal(t, attributes, decisions[0].StartTimerDecisionAttributes)
	h.handleTimerStarted(timerID)
	require.Equal(t, decisionStateInitiated, d.getState())
	h.cancelTimer(timerID)
	require.Equal(t, decisionStateCanceledAfterInitiated, d.getState())
	decisions = h.getDecisions(true)
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeCancelTimer, decisions[0].GetDecisionType())
	require.Equal(t, decisionStateCancellationDecisionSent, d.getState())
	h.handleTimerCanceled(timerID)
	require.Equal(t, decisionStateCompleted, d.getState())
}

func Test_TimerStateMachine_CompletedAfterCancel(t *testing.T) {
	timerID := "test-timer-1"
	attributes := &shared.StartTimerDecisionAttributes{
		TimerId: common.StringPtr(timerID),
	}
	h := newDecisionsHelper()
	d := h.startTimer(attributes)
	require.Equal(t, decisionStateCreated, d.getState())
	decisions := h.getDecisions(true)
	require.Equal(t, decisionStateDecisionSent, d.getState())
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeStartTimer, decisions[0].GetDecisionType())
	h.cancelTimer(timerID)
	require.Equal(t, decisionStateCanceledBeforeInitiated, d.getState())
	require.Equal(t, 0, len(h.getDecisions(true)))
	h.handleTimerStarted(timerID)
	require.Equal(t, decisionStateCanceledAfterInitiated, d.getState())
	decisions = h.getDecisions(true)
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeCancelTimer, decisions[0].GetDecisionType())
	require.Equal(t, decisionStateCancellationDecisionSent, d.getState())
	h.handleTimerClosed(timerID)
	require.Equal(t, decisionStateCompletedAfterCancellationDecisionSent, d.getState())
}

func Test_TimerStateMachine_CompleteWithoutCancel(t *testing.T) {
	timerID := "test-timer-1"
	attributes := &shared.StartTimerDecisionAttributes{
		TimerId: common.StringPtr(timerID),
	}
	h := newDecisionsHelper()
	d := h.startTimer(attributes)
	require.Equal(t, decisionStateCreated, d.getState())
	decisions := h.getDecisions(true)
	require.Equal(t, decisionStateDecisionSent, d.getState())
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeStartTimer, decisions[0].GetDecisionType())
	h.handleTimerStarted(timerID)
	require.Equal(t, decisionStateInitiated, d.getState())
	require.Equal(t, 0, len(h.getDecisions(false)))
	h.handleTimerClosed(timerID)
	require.Equal(t, decisionStateCompleted, d.getState())
}

func Test_TimerStateMachine_PanicInvalidStateTransition(t *testing.T) {
	timerID := "test-timer-1"
	attributes := &shared.StartTimerDecisionAttributes{
		TimerId: common.StringPtr(timerID),
	}
	h := newDecisionsHelper()
	h.startTimer(attributes)
	h.getDecisions(true)
	h.handleTimerStarted(timerID)
	h.handleTimerClosed(timerID)

	panicErr := runAndCatchPanic(func() {
		h.handleCancelTimerFailed(timerID)
	})

	require.NotNil(t, panicErr)
}

func Test_TimerCancelEventOrdering(t *testing.T) {
	timerID := "test-timer-1"
	activityID := "test-activity-1"
	attributes := &shared.StartTimerDecisionAttributes{
		TimerId: common.StringPtr(timerID),
	}
	h := newDecisionsHelper()
	d := h.startTimer(attributes)
	require.Equal(t, decisionStateCreated, d.getState())
	decisions := h.getDecisions(true)
	require.Equal(t, decisionStateDecisionSent, d.getState())
	require.Equal(t, 1, len(decisions))
	h.handleTimerStarted(timerID)
	require.Equal(t, decisionStateInitiated, d.getState())

	// new activity decision lands after the timer in emission order
	h.setCurrentDecisionStartedEventID(5)
	h.scheduleActivityTask(h.getNextID(), &shared.ScheduleActivityTaskDecisionAttributes{
		ActivityId: common.StringPtr(activityID),
	})
	// canceling the timer must move its cancel decision behind the activity
	h.cancelTimer(timerID)

	decisions = h.getDecisions(true)
	require.Equal(t, 2, len(decisions))
	require.Equal(t, shared.DecisionTypeScheduleActivityTask, decisions[0].GetDecisionType())
	require.Equal(t, shared.DecisionTypeCancelTimer, decisions[1].GetDecisionType())
}

func Test_ActivityStateMachine_CompleteWithoutCancel(t *testing.T) {
	activityID := "test-activity-1"
	attributes := &shared.ScheduleActivityTaskDecisionAttributes{
		ActivityId: common.StringPtr(activityID),
	}
	h := newDecisionsHelper()
	h.setCurrentDecisionStartedEventID(3)

	scheduleID := h.getNextID()
	d := h.scheduleActivityTask(scheduleID, attributes)
	require.Equal(t, decisionStateCreated, d.getState())

	decisions := h.getDecisions(true)
	require.Equal(t, decisionStateDecisionSent, d.getState())
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeScheduleActivityTask, decisions[0].GetDecisionType())

	h.handleActivityTaskScheduled(scheduleID, activityID)
	require.Equal(t, decisionStateInitiated, d.getState())

	h.handleActivityTaskClosed(activityID)
	require.Equal(t, decisionStateCompleted, d.getState())
	require.Equal(t, 0, len(h.getDecisions(false)))
}

func Test_ActivityStateMachine_CancelBeforeSent(t *testing.T) {
	activityID := "test-activity-1"
	attributes := &shared.ScheduleActivityTaskDecisionAttributes{
		ActivityId: common.StringPtr(activityID),
	}
	h := newDecisionsHelper()
	h.setCurrentDecisionStartedEventID(3)

	d := h.scheduleActivityTask(h.getNextID(), attributes)
	require.Equal(t, decisionStateCreated, d.getState())

	// cancel before the decision was ever sent wipes it from the batch
	h.requestCancelActivityTask(activityID)
	require.Equal(t, decisionStateCompleted, d.getState())
	require.Equal(t, 0, len(h.getDecisions(true)))
}

func Test_ActivityStateMachine_CancelAfterInitiated(t *testing.T) {
	activityID := "test-activity-1"
	attributes := &shared.ScheduleActivityTaskDecisionAttributes{
		ActivityId: common.StringPtr(activityID),
	}
	h := newDecisionsHelper()
	h.setCurrentDecisionStartedEventID(3)

	scheduleID := h.getNextID()
	d := h.scheduleActivityTask(scheduleID, attributes)
	decisions := h.getDecisions(true)
	require.Equal(t, 1, len(decisions))

	h.handleActivityTaskScheduled(scheduleID, activityID)
	require.Equal(t, decisionStateInitiated, d.getState())

	h.requestCancelActivityTask(activityID)
	require.Equal(t, decisionStateCanceledAfterInitiated, d.getState())

	decisions = h.getDecisions(true)
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeRequestCancelActivityTask, decisions[0].GetDecisionType())
	require.Equal(t, decisionStateCancellationDecisionSent, d.getState())

	h.handleActivityTaskCancelRequested(activityID)
	require.Equal(t, decisionStateCancellationDecisionSent, d.getState())

	h.handleActivityTaskCanceled(activityID)
	require.Equal(t, decisionStateCompleted, d.getState())
}

func Test_ActivityStateMachine_CompletedAfterCancelRequested(t *testing.T) {
	activityID := "test-activity-1"
	attributes := &shared.ScheduleActivityTaskDecisionAttributes{
		ActivityId: common.StringPtr(activityID),
	}
	h := newDecisionsHelper()
	h.setCurrentDecisionStartedEventID(3)

	scheduleID := h.getNextID()
	d := h.scheduleActivityTask(scheduleID, attributes)
	h.getDecisions(true)
	h.handleActivityTaskScheduled(scheduleID, activityID)
	h.requestCancelActivityTask(activityID)
	h.getDecisions(true)
	require.Equal(t, decisionStateCancellationDecisionSent, d.getState())

	// activity completed before the cancel went through
	h.handleActivityTaskClosed(activityID)
	require.Equal(t, decisionStateCompletedAfterCancellationDecisionSent, d.getState())
	require.True(t, d.isDone())
}

func Test_ChildWorkflowStateMachine_Basic(t *testing.T) {
	workflowID := "test-child-workflow"
	attributes := &shared.StartChildWorkflowExecutionDecisionAttributes{
		WorkflowId: common.StringPtr(workflowID),
	}
	h := newDecisionsHelper()

	d := h.startChildWorkflowExecution(attributes)
	require.Equal(t, decisionStateCreated, d.getState())

	decisions := h.getDecisions(true)
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeStartChildWorkflowExecution, decisions[0].GetDecisionType())
	require.Equal(t, decisionStateDecisionSent, d.getState())

	h.handleStartChildWorkflowExecutionInitiated(workflowID)
	require.Equal(t, decisionStateInitiated, d.getState())

	h.handleChildWorkflowExecutionStarted(workflowID)
	require.Equal(t, decisionStateStarted, d.getState())

	h.handleChildWorkflowExecutionClosed(workflowID)
	require.Equal(t, decisionStateCompleted, d.getState())
}

func Test_ChildWorkflowStateMachine_CancelSucceed(t *testing.T) {
	domain := "test-domain"
	workflowID := "test-child-workflow"
	attributes := &shared.StartChildWorkflowExecutionDecisionAttributes{
		WorkflowId: common.StringPtr(workflowID),
	}
	h := newDecisionsHelper()

	d := h.startChildWorkflowExecution(attributes)
	h.getDecisions(true)
	h.handleStartChildWorkflowExecutionInitiated(workflowID)
	h.handleChildWorkflowExecutionStarted(workflowID)

	h.requestCancelExternalWorkflowExecution(domain, workflowID, "", "", true)
	require.Equal(t, decisionStateCanceledAfterStarted, d.getState())

	decisions := h.getDecisions(true)
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeRequestCancelExternalWorkflowExecution, decisions[0].GetDecisionType())
	require.Equal(t, decisionStateCancellationDecisionSent, d.getState())

	h.handleRequestCancelExternalWorkflowExecutionInitiated(26, workflowID, "")
	h.handleExternalWorkflowExecutionCancelRequested(26, workflowID)
	require.Equal(t, decisionStateCancellationDecisionSent, d.getState())

	h.handleChildWorkflowExecutionCanceled(workflowID)
	require.Equal(t, decisionStateCompleted, d.getState())
}

func Test_CancelExternalWorkflowStateMachine_Succeed(t *testing.T) {
	domain := "test-domain"
	workflowID := "test-external-workflow"
	runID := "test-run-id"
	cancellationID := "1"
	h := newDecisionsHelper()

	d := h.requestCancelExternalWorkflowExecution(domain, workflowID, runID, cancellationID, false)
	require.Equal(t, decisionStateCreated, d.getState())

	decisions := h.getDecisions(true)
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeRequestCancelExternalWorkflowExecution, decisions[0].GetDecisionType())
	require.Equal(t, decisionStateDecisionSent, d.getState())

	initiatedEventID := int64(28)
	h.handleRequestCancelExternalWorkflowExecutionInitiated(initiatedEventID, workflowID, cancellationID)
	require.Equal(t, decisionStateInitiated, d.getState())

	isExternal, d2 := h.handleExternalWorkflowExecutionCancelRequested(initiatedEventID, workflowID)
	require.True(t, isExternal)
	require.Equal(t, d, d2)
	require.Equal(t, decisionStateCompleted, d.getState())
}

func Test_SignalExternalWorkflowStateMachine_Succeed(t *testing.T) {
	signalID := "1"
	h := newDecisionsHelper()

	d := h.signalExternalWorkflowExecution("test-domain", "test-workflow-id", "test-run-id", "test-signal", nil, signalID, false)
	require.Equal(t, decisionStateCreated, d.getState())

	decisions := h.getDecisions(true)
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeSignalExternalWorkflowExecution, decisions[0].GetDecisionType())
	require.Equal(t, decisionStateDecisionSent, d.getState())

	initiatedEventID := int64(30)
	h.handleSignalExternalWorkflowExecutionInitiated(initiatedEventID, signalID)
	require.Equal(t, decisionStateInitiated, d.getState())

	d2 := h.handleSignalExternalWorkflowExecutionCompleted(initiatedEventID)
	require.Equal(t, d, d2)
	require.Equal(t, decisionStateCompleted, d.getState())
}

func Test_UnknownDecision_Panics(t *testing.T) {
	h := newDecisionsHelper()
	panicErr := runAndCatchPanic(func() {
		h.handleActivityTaskClosed("unknown-activity")
	})
	require.NotNil(t, panicErr)
	require.Contains(t, panicErr.Error(), "unknown decision")
	require.Contains(t, panicErr.Error(), "nondeterministic")
}

func Test_CompleteWorkflowStateMachine(t *testing.T) {
	h := newDecisionsHelper()
	d := h.completeWorkflowExecution([]byte("result"))
	require.Equal(t, decisionStateCreated, d.getState())

	// exactly one completion decision per task
	panicErr := runAndCatchPanic(func() {
		h.failWorkflowExecution("reason", nil)
	})
	require.NotNil(t, panicErr)
	require.Contains(t, panicErr.Error(), "duplicate")

	decisions := h.getDecisions(true)
	require.Equal(t, 1, len(decisions))
	require.Equal(t, shared.DecisionTypeCompleteWorkflowExecution, decisions[0].GetDecisionType())
	require.True(t, d.isDone())
}

func Test_DecisionCap_ForceImmediateDecisionTimer(t *testing.T) {
	h := newDecisionsHelper()
	h.setMaxDecisionsPerCompletion(10)
	for i := 0; i < 11; i++ {
		h.startTimer(&shared.StartTimerDecisionAttributes{
			TimerId:                   common.StringPtr(fmt.Sprintf("timer-%v", i)),
			StartToFireTimeoutSeconds: common.Int64Ptr(3600),
		})
	}

	decisions := h.getDecisions(true)
	require.Equal(t, 10, len(decisions))
	last := decisions[9]
	require.Equal(t, shared.DecisionTypeStartTimer, last.GetDecisionType())
	require.Equal(t, forceImmediateDecisionTimerID, last.StartTimerDecisionAttributes.GetTimerId())
	require.Equal(t, int64(0), last.StartTimerDecisionAttributes.GetStartToFireTimeoutSeconds())

	// the overflowed timers stay pending for the next batch
	decisions = h.getDecisions(true)
	require.Equal(t, 2, len(decisions))
	require.Equal(t, "timer-9", decisions[0].StartTimerDecisionAttributes.GetTimerId())
	require.Equal(t, "timer-10", decisions[1].StartTimerDecisionAttributes.GetTimerId())
}

func Test_DecisionCap_CompletionDecisionIsNotTruncated(t *testing.T) {
	h := newDecisionsHelper()
	h.setMaxDecisionsPerCompletion(3)
	for i := 0; i < 2; i++ {
		h.startTimer(&shared.StartTimerDecisionAttributes{
			TimerId:                   common.StringPtr(fmt.Sprintf("timer-%v", i)),
			StartToFireTimeoutSeconds: common.Int64Ptr(3600),
		})
	}
	h.completeWorkflowExecution(nil)

	decisions := h.getDecisions(true)
	require.Equal(t, 3, len(decisions))
	require.Equal(t, shared.DecisionTypeCompleteWorkflowExecution, decisions[2].GetDecisionType())
}

func Test_DecisionCap_DefaultLimit(t *testing.T) {
	h := newDecisionsHelper()
	for i := 0; i < defaultMaximumDecisionsPerCompletion+1; i++ {
		h.startTimer(&shared.StartTimerDecisionAttributes{
			TimerId:                   common.StringPtr(fmt.Sprintf("%v", i)),
			StartToFireTimeoutSeconds: common.Int64Ptr(3600),
		})
	}

	decisions := h.getDecisions(true)
	require.Equal(t, defaultMaximumDecisionsPerCompletion, len(decisions))
	last := decisions[len(decisions)-1]
	require.Equal(t, shared.DecisionTypeStartTimer, last.GetDecisionType())
	require.Equal(t, forceImmediateDecisionTimerID, last.StartTimerDecisionAttributes.GetTimerId())
}

func Test_WorkflowContextData_ReturnedOnlyWhenChanged(t *testing.T) {
	h := newDecisionsHelper()

	// nothing observed, nothing set
	require.Nil(t, h.getWorkflowContextDataToReturn())

	// context echoed by history, unchanged locally
	h.handleDecisionTaskCompleted([]byte("v1"))
	require.Nil(t, h.getWorkflowContextDataToReturn())

	// locally updated to the same value
	h.setWorkflowContextData([]byte("v1"))
	require.Nil(t, h.getWorkflowContextDataToReturn())

	// locally updated to a new value
	h.setWorkflowContextData([]byte("v2"))
	require.Equal(t, []byte("v2"), h.getWorkflowContextDataToReturn())

	// the new value gets echoed back on the next task
	h.handleDecisionTaskCompleted([]byte("v2"))
	require.Nil(t, h.getWorkflowContextDataToReturn())
}

func Test_AccessOrder_RefreshOnRead(t *testing.T) {
	h := newDecisionsHelper()
	h.setCurrentDecisionStartedEventID(3)

	h.startTimer(&shared.StartTimerDecisionAttributes{
		TimerId: common.StringPtr("t1"), StartToFireTimeoutSeconds: common.Int64Ptr(10)})
	h.startTimer(&shared.StartTimerDecisionAttributes{
		TimerId: common.StringPtr("t2"), StartToFireTimeoutSeconds: common.Int64Ptr(10)})
	h.scheduleActivityTask(h.getNextID(), &shared.ScheduleActivityTaskDecisionAttributes{
		ActivityId: common.StringPtr("a1")})

	// touching t1 moves it to the back of the emission order
	h.getDecision(makeDecisionID(decisionTypeTimer, "t1"))

	decisions := h.getDecisions(true)
	require.Equal(t, 3, len(decisions))
	require.Equal(t, "t2", decisions[0].StartTimerDecisionAttributes.GetTimerId())
	require.Equal(t, "a1", decisions[1].ScheduleActivityTaskDecisionAttributes.GetActivityId())
	require.Equal(t, "t1", decisions[2].StartTimerDecisionAttributes.GetTimerId())
}
