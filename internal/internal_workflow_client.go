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
	"errors"
	"fmt"
	"time"

	"github.com/pborman/uuid"
	"github.com/robfig/cron"
	"github.com/uber-go/tally"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/internal/common/backoff"
	"github.com/tideflow-io/tideflow-go-client/shared"
)

const (
	defaultDecisionTaskTimeout = 10 * time.Second

	getHistoryPageSize = 1000
)

type (
	// workflowClient is the Client implementation talking to one domain.
	workflowClient struct {
		workflowService shared.WorkflowService
		domain          string
		identity        string
		metricsScope    tally.Scope
		dataConverter   DataConverter
	}

	historyEventIteratorImpl struct {
		// whether this iterator is initialized
		initialized bool
		// local cached history events and corresponding consuming index
		nextEventIndex int
		events         []*shared.HistoryEvent
		// token to get next page of history events
		nexttoken []byte
		// err when getting next page of history events
		err error
		// func which use a next token to get next page of history events
		paginate func(nexttoken []byte) (*shared.GetWorkflowExecutionHistoryResponse, error)
	}
)

func (wc *workflowClient) StartWorkflow(
	ctx context.Context,
	options StartWorkflowOptions,
	workflowType string,
	input []byte,
) (*WorkflowExecution, error) {
	workflowID := options.ID
	if workflowID == "" {
		workflowID = uuid.NewRandom().String()
	}

	if options.TaskList == "" {
		return nil, errors.New("missing TaskList")
	}

	executionTimeout := common.Int32Ceil(options.ExecutionStartToCloseTimeout.Seconds())
	if executionTimeout <= 0 {
		return nil, errors.New("missing or invalid ExecutionStartToCloseTimeout")
	}

	decisionTaskTimeout := common.Int32Ceil(options.DecisionTaskStartToCloseTimeout.Seconds())
	if decisionTaskTimeout < 0 {
		return nil, errors.New("negative DecisionTaskStartToCloseTimeout provided")
	}
	if decisionTaskTimeout == 0 {
		decisionTaskTimeout = common.Int32Ceil(defaultDecisionTaskTimeout.Seconds())
	}

	if options.CronSchedule != "" {
		if _, err := cron.ParseStandard(options.CronSchedule); err != nil {
			return nil, fmt.Errorf("invalid CronSchedule: %v", err)
		}
	}

	startRequest := &shared.StartWorkflowExecutionRequest{
		Domain:                              common.StringPtr(wc.domain),
		RequestId:                           common.StringPtr(uuid.New()),
		WorkflowId:                          common.StringPtr(workflowID),
		WorkflowType:                        common.WorkflowTypePtr(shared.WorkflowType{Name: common.StringPtr(workflowType)}),
		TaskList:                            common.TaskListPtr(shared.TaskList{Name: common.StringPtr(options.TaskList)}),
		Input:                               input,
		ExecutionStartToCloseTimeoutSeconds: common.Int32Ptr(executionTimeout),
		TaskStartToCloseTimeoutSeconds:      common.Int32Ptr(decisionTaskTimeout),
		Identity:                            common.StringPtr(wc.identity),
		WorkflowIdReusePolicy:               common.WorkflowIdReusePolicyPtr(options.WorkflowIDReusePolicy),
		RetryPolicy:                         options.RetryPolicy,
	}
	if options.CronSchedule != "" {
		startRequest.CronSchedule = common.StringPtr(options.CronSchedule)
	}

	var response *shared.StartWorkflowExecutionResponse
	err := backoff.Retry(ctx,
		func() error {
			var err1 error
			response, err1 = wc.workflowService.StartWorkflowExecution(ctx, startRequest)
			return err1
		}, serviceOperationRetryPolicy, isServiceTransientError)
	if err != nil {
		return nil, err
	}

	return &WorkflowExecution{ID: workflowID, RunID: response.GetRunId()}, nil
}

func (wc *workflowClient) SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, input []byte) error {
	request := &shared.SignalWorkflowExecutionRequest{
		Domain: common.StringPtr(wc.domain),
		WorkflowExecution: &shared.WorkflowExecution{
			WorkflowId: common.StringPtr(workflowID),
			RunId:      common.StringPtr(runID),
		},
		SignalName: common.StringPtr(signalName),
		Input:      input,
		Identity:   common.StringPtr(wc.identity),
		RequestId:  common.StringPtr(uuid.New()),
	}

	return backoff.Retry(ctx,
		func() error {
			return wc.workflowService.SignalWorkflowExecution(ctx, request)
		}, serviceOperationRetryPolicy, isServiceTransientError)
}

func (wc *workflowClient) SignalWithStartWorkflow(
	ctx context.Context,
	workflowID string,
	signalName string,
	signalInput []byte,
	options StartWorkflowOptions,
	workflowType string,
	workflowInput []byte,
) (*WorkflowExecution, error) {
	if workflowID == "" {
		workflowID = uuid.NewRandom().String()
	}
	if options.TaskList == "" {
		return nil, errors.New("missing TaskList")
	}
	executionTimeout := common.Int32Ceil(options.ExecutionStartToCloseTimeout.Seconds())
	if executionTimeout <= 0 {
		return nil, errors.New("missing or invalid ExecutionStartToCloseTimeout")
	}
	decisionTaskTimeout := common.Int32Ceil(options.DecisionTaskStartToCloseTimeout.Seconds())
	if decisionTaskTimeout == 0 {
		decisionTaskTimeout = common.Int32Ceil(defaultDecisionTaskTimeout.Seconds())
	}
	if options.CronSchedule != "" {
		if _, err := cron.ParseStandard(options.CronSchedule); err != nil {
			return nil, fmt.Errorf("invalid CronSchedule: %v", err)
		}
	}

	request := &shared.SignalWithStartWorkflowExecutionRequest{
		Domain:                              common.StringPtr(wc.domain),
		RequestId:                           common.StringPtr(uuid.New()),
		WorkflowId:                          common.StringPtr(workflowID),
		WorkflowType:                        common.WorkflowTypePtr(shared.WorkflowType{Name: common.StringPtr(workflowType)}),
		TaskList:                            common.TaskListPtr(shared.TaskList{Name: common.StringPtr(options.TaskList)}),
		Input:                               workflowInput,
		ExecutionStartToCloseTimeoutSeconds: common.Int32Ptr(executionTimeout),
		TaskStartToCloseTimeoutSeconds:      common.Int32Ptr(decisionTaskTimeout),
		Identity:                            common.StringPtr(wc.identity),
		WorkflowIdReusePolicy:               common.WorkflowIdReusePolicyPtr(options.WorkflowIDReusePolicy),
		SignalName:                          common.StringPtr(signalName),
		SignalInput:                         signalInput,
		RetryPolicy:                         options.RetryPolicy,
	}
	if options.CronSchedule != "" {
		request.CronSchedule = common.StringPtr(options.CronSchedule)
	}

	var response *shared.StartWorkflowExecutionResponse
	err := backoff.Retry(ctx,
		func() error {
			var err1 error
			response, err1 = wc.workflowService.SignalWithStartWorkflowExecution(ctx, request)
			return err1
		}, serviceOperationRetryPolicy, isServiceTransientError)
	if err != nil {
		return nil, err
	}

	return &WorkflowExecution{ID: workflowID, RunID: response.GetRunId()}, nil
}

func (wc *workflowClient) CancelWorkflow(ctx context.Context, workflowID string, runID string) error {
	request := &shared.RequestCancelWorkflowExecutionRequest{
		Domain: common.StringPtr(wc.domain),
		WorkflowExecution: &shared.WorkflowExecution{
			WorkflowId: common.StringPtr(workflowID),
			RunId:      common.StringPtr(runID),
		},
		Identity:  common.StringPtr(wc.identity),
		RequestId: common.StringPtr(uuid.New()),
	}

	return backoff.Retry(ctx,
		func() error {
			return wc.workflowService.RequestCancelWorkflowExecution(ctx, request)
		}, serviceOperationRetryPolicy, isServiceTransientError)
}

func (wc *workflowClient) TerminateWorkflow(ctx context.Context, workflowID string, runID string, reason string, details []byte) error {
	request := &shared.TerminateWorkflowExecutionRequest{
		Domain: common.StringPtr(wc.domain),
		WorkflowExecution: &shared.WorkflowExecution{
			WorkflowId: common.StringPtr(workflowID),
			RunId:      common.StringPtr(runID),
		},
		Reason:   common.StringPtr(reason),
		Details:  details,
		Identity: common.StringPtr(wc.identity),
	}

	return backoff.Retry(ctx,
		func() error {
			return wc.workflowService.TerminateWorkflowExecution(ctx, request)
		}, serviceOperationRetryPolicy, isServiceTransientError)
}

func (wc *workflowClient) GetWorkflowHistory(
	ctx context.Context,
	workflowID string,
	runID string,
	isLongPoll bool,
	filterType shared.HistoryEventFilterType,
) HistoryEventIterator {
	domain := wc.domain
	paginate := func(nexttoken []byte) (*shared.GetWorkflowExecutionHistoryResponse, error) {
		request := &shared.GetWorkflowExecutionHistoryRequest{
			Domain: common.StringPtr(domain),
			Execution: &shared.WorkflowExecution{
				WorkflowId: common.StringPtr(workflowID),
				RunId:      common.StringPtr(runID),
			},
			MaximumPageSize:        common.Int32Ptr(getHistoryPageSize),
			WaitForNewEvent:        common.BoolPtr(isLongPoll),
			HistoryEventFilterType: &filterType,
			NextPageToken:          nexttoken,
		}

		var response *shared.GetWorkflowExecutionHistoryResponse
		var err error
	Loop:
		for {
			err = backoff.Retry(ctx,
				func() error {
					var err1 error
					response, err1 = wc.workflowService.GetWorkflowExecutionHistory(ctx, request)
					return err1
				}, serviceOperationRetryPolicy, isServiceTransientError)
			if err != nil {
				return nil, err
			}
			if isLongPoll && len(response.History.GetEvents()) == 0 && len(response.NextPageToken) != 0 {
				request.NextPageToken = response.NextPageToken
				continue Loop
			}
			break Loop
		}
		return response, nil
	}

	return &historyEventIteratorImpl{paginate: paginate}
}

func (wc *workflowClient) QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, queryArgs []byte) ([]byte, error) {
	request := &shared.QueryWorkflowRequest{
		Domain: common.StringPtr(wc.domain),
		Execution: &shared.WorkflowExecution{
			WorkflowId: common.StringPtr(workflowID),
			RunId:      common.StringPtr(runID),
		},
		Query: &shared.WorkflowQuery{
			QueryType: common.StringPtr(queryType),
			QueryArgs: queryArgs,
		},
	}

	var resp *shared.QueryWorkflowResponse
	err := backoff.Retry(ctx,
		func() error {
			var err1 error
			resp, err1 = wc.workflowService.QueryWorkflow(ctx, request)
			return err1
		}, serviceOperationRetryPolicy, isServiceTransientError)
	if err != nil {
		return nil, err
	}

	return resp.QueryResult, nil
}

func (wc *workflowClient) CompleteActivity(ctx context.Context, taskToken []byte, result []byte, err error) error {
	if taskToken == nil {
		return errors.New("invalid task token provided")
	}

	request := convertActivityResultToRespondRequest(wc.identity, taskToken, result, err, wc.dataConverter)
	return reportActivityComplete(ctx, wc.workflowService, request, wc.metricsScope)
}

func (wc *workflowClient) RecordActivityHeartbeat(ctx context.Context, taskToken []byte, details []byte) error {
	request := &shared.RecordActivityTaskHeartbeatRequest{
		TaskToken: taskToken,
		Details:   details,
		Identity:  common.StringPtr(wc.identity),
	}
	return backoff.Retry(ctx,
		func() error {
			_, err := wc.workflowService.RecordActivityTaskHeartbeat(ctx, request)
			return err
		}, serviceOperationRetryPolicy, isServiceTransientError)
}

// HasNext returns whether there is a next event. It blocks when the next page
// has to be fetched from the service.
func (iter *historyEventIteratorImpl) HasNext() bool {
	if iter.nextEventIndex < len(iter.events) || iter.err != nil {
		return true
	} else if !iter.initialized || len(iter.nexttoken) != 0 {
		iter.initialized = true
		response, err := iter.paginate(iter.nexttoken)
		iter.nextEventIndex = 0
		if err == nil {
			iter.events = response.History.GetEvents()
			iter.nexttoken = response.NextPageToken
			iter.err = nil
		} else {
			iter.events = nil
			iter.nexttoken = nil
			iter.err = err
		}

		if iter.nextEventIndex < len(iter.events) || iter.err != nil {
			return true
		}
		return false
	}

	return false
}

// Next returns the next history event.
func (iter *historyEventIteratorImpl) Next() (*shared.HistoryEvent, error) {
	// calling Next() when the iteration is over panics
	if !iter.HasNext() {
		panic("HistoryEventIterator Next() called without checking HasNext()")
	}

	// we have cached events
	if iter.nextEventIndex < len(iter.events) {
		index := iter.nextEventIndex
		iter.nextEventIndex++
		return iter.events[index], nil
	} else if iter.err != nil {
		// we have err, clear that iter.err and return err
		err := iter.err
		iter.err = nil
		return nil, err
	}

	panic("HistoryEventIterator Next() should return either a history event or a err")
}
