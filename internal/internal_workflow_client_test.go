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
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/shared"
	"github.com/tideflow-io/tideflow-go-client/shared/workflowservicetest"
)

type (
	WorkflowClientTestSuite struct {
		suite.Suite
		mockCtrl *gomock.Controller
		service  *workflowservicetest.MockClient
		client   Client
	}
)

func TestWorkflowClientTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowClientTestSuite))
}

func (s *WorkflowClientTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.service = workflowservicetest.NewMockClient(s.mockCtrl)
	s.client = NewClient(s.service, testDomain, &ClientOptions{Identity: "test-client"})
}

func (s *WorkflowClientTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *WorkflowClientTestSuite) startOptions() StartWorkflowOptions {
	return StartWorkflowOptions{
		ID:                           "wid",
		TaskList:                     testTaskList,
		ExecutionStartToCloseTimeout: time.Minute,
	}
}

func (s *WorkflowClientTestSuite) TestStartWorkflow() {
	var capturedRequest *shared.StartWorkflowExecutionRequest
	s.service.EXPECT().StartWorkflowExecution(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, request *shared.StartWorkflowExecutionRequest) (*shared.StartWorkflowExecutionResponse, error) {
			capturedRequest = request
			return &shared.StartWorkflowExecutionResponse{RunId: common.StringPtr("run-1")}, nil
		})

	execution, err := s.client.StartWorkflow(context.Background(), s.startOptions(), testWorkflowType, []byte("input"))
	s.NoError(err)
	s.Equal("wid", execution.ID)
	s.Equal("run-1", execution.RunID)

	s.Equal(testDomain, *capturedRequest.Domain)
	s.Equal(testWorkflowType, capturedRequest.WorkflowType.GetName())
	s.Equal(testTaskList, capturedRequest.TaskList.GetName())
	s.Equal(int32(60), *capturedRequest.ExecutionStartToCloseTimeoutSeconds)
	s.Equal(int32(10), *capturedRequest.TaskStartToCloseTimeoutSeconds)
	s.NotEmpty(*capturedRequest.RequestId)
}

func (s *WorkflowClientTestSuite) TestStartWorkflow_MissingTaskList() {
	options := s.startOptions()
	options.TaskList = ""
	execution, err := s.client.StartWorkflow(context.Background(), options, testWorkflowType, nil)
	s.Error(err)
	s.Nil(execution)
	s.Contains(err.Error(), "TaskList")
}

func (s *WorkflowClientTestSuite) TestStartWorkflow_MissingExecutionTimeout() {
	options := s.startOptions()
	options.ExecutionStartToCloseTimeout = 0
	execution, err := s.client.StartWorkflow(context.Background(), options, testWorkflowType, nil)
	s.Error(err)
	s.Nil(execution)
	s.Contains(err.Error(), "ExecutionStartToCloseTimeout")
}

func (s *WorkflowClientTestSuite) TestStartWorkflow_InvalidCronSchedule() {
	options := s.startOptions()
	options.CronSchedule = "not-a-cron-line"
	execution, err := s.client.StartWorkflow(context.Background(), options, testWorkflowType, nil)
	s.Error(err)
	s.Nil(execution)
	s.Contains(err.Error(), "CronSchedule")
}

// Transient errors are retried under the service operation policy.
func (s *WorkflowClientTestSuite) TestStartWorkflow_RetriesServiceBusy() {
	first := s.service.EXPECT().StartWorkflowExecution(gomock.Any(), gomock.Any()).
		Return(nil, &shared.ServiceBusyError{Message: "busy"})
	s.service.EXPECT().StartWorkflowExecution(gomock.Any(), gomock.Any()).
		Return(&shared.StartWorkflowExecutionResponse{RunId: common.StringPtr("run-2")}, nil).After(first)

	execution, err := s.client.StartWorkflow(context.Background(), s.startOptions(), testWorkflowType, nil)
	s.NoError(err)
	s.Equal("run-2", execution.RunID)
}

// Permanent errors are not retried.
func (s *WorkflowClientTestSuite) TestStartWorkflow_NoRetryOnBadRequest() {
	s.service.EXPECT().StartWorkflowExecution(gomock.Any(), gomock.Any()).
		Return(nil, &shared.BadRequestError{Message: "bad"}).Times(1)

	execution, err := s.client.StartWorkflow(context.Background(), s.startOptions(), testWorkflowType, nil)
	s.Error(err)
	s.Nil(execution)
	_, ok := err.(*shared.BadRequestError)
	s.True(ok)
}

func (s *WorkflowClientTestSuite) TestSignalWorkflow() {
	s.service.EXPECT().SignalWorkflowExecution(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, request *shared.SignalWorkflowExecutionRequest) error {
			s.Equal("wid", request.WorkflowExecution.GetWorkflowId())
			s.Equal("signal-name", *request.SignalName)
			return nil
		})

	s.NoError(s.client.SignalWorkflow(context.Background(), "wid", "", "signal-name", []byte("payload")))
}

func (s *WorkflowClientTestSuite) TestSignalWithStartWorkflow() {
	s.service.EXPECT().SignalWithStartWorkflowExecution(gomock.Any(), gomock.Any()).
		Return(&shared.StartWorkflowExecutionResponse{RunId: common.StringPtr("run-3")}, nil)

	execution, err := s.client.SignalWithStartWorkflow(
		context.Background(), "wid", "signal-name", []byte("s"), s.startOptions(), testWorkflowType, nil)
	s.NoError(err)
	s.Equal("wid", execution.ID)
	s.Equal("run-3", execution.RunID)
}

func (s *WorkflowClientTestSuite) TestCancelAndTerminateWorkflow() {
	s.service.EXPECT().RequestCancelWorkflowExecution(gomock.Any(), gomock.Any()).Return(nil)
	s.NoError(s.client.CancelWorkflow(context.Background(), "wid", "rid"))

	s.service.EXPECT().TerminateWorkflowExecution(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, request *shared.TerminateWorkflowExecutionRequest) error {
			s.Equal("stuck", *request.Reason)
			return nil
		})
	s.NoError(s.client.TerminateWorkflow(context.Background(), "wid", "rid", "stuck", nil))
}

func (s *WorkflowClientTestSuite) TestQueryWorkflow() {
	s.service.EXPECT().QueryWorkflow(gomock.Any(), gomock.Any()).
		Return(&shared.QueryWorkflowResponse{QueryResult: []byte("state")}, nil)

	result, err := s.client.QueryWorkflow(context.Background(), "wid", "rid", "state", nil)
	s.NoError(err)
	s.Equal([]byte("state"), result)
}

func (s *WorkflowClientTestSuite) TestGetWorkflowHistory_Paginated() {
	page1 := &shared.GetWorkflowExecutionHistoryResponse{
		History: &shared.History{Events: []*shared.HistoryEvent{
			createTestEventWorkflowExecutionStarted(1, testWorkflowStartedEventAttributes()),
		}},
		NextPageToken: []byte("next"),
	}
	page2 := &shared.GetWorkflowExecutionHistoryResponse{
		History: &shared.History{Events: []*shared.HistoryEvent{
			createTestEventDecisionTaskScheduled(2, &shared.DecisionTaskScheduledEventAttributes{}),
		}},
	}
	first := s.service.EXPECT().GetWorkflowExecutionHistory(gomock.Any(), gomock.Any()).Return(page1, nil)
	s.service.EXPECT().GetWorkflowExecutionHistory(gomock.Any(), gomock.Any()).Return(page2, nil).After(first)

	iterator := s.client.GetWorkflowHistory(context.Background(), "wid", "rid", false, shared.HistoryEventFilterTypeAllEvent)
	var eventIDs []int64
	for iterator.HasNext() {
		event, err := iterator.Next()
		s.NoError(err)
		eventIDs = append(eventIDs, event.GetEventId())
	}
	s.Equal([]int64{1, 2}, eventIDs)
}

func (s *WorkflowClientTestSuite) TestCompleteActivity() {
	s.service.EXPECT().RespondActivityTaskCompleted(gomock.Any(), gomock.Any()).Return(nil)
	s.NoError(s.client.CompleteActivity(context.Background(), []byte("token"), []byte("result"), nil))

	s.service.EXPECT().RespondActivityTaskCanceled(gomock.Any(), gomock.Any()).Return(nil)
	s.NoError(s.client.CompleteActivity(context.Background(), []byte("token"), nil, NewCanceledError()))

	s.service.EXPECT().RespondActivityTaskFailed(gomock.Any(), gomock.Any()).Return(nil)
	s.NoError(s.client.CompleteActivity(context.Background(), []byte("token"), nil, NewCustomError("boom")))

	s.Error(s.client.CompleteActivity(context.Background(), nil, nil, nil))
}

func (s *WorkflowClientTestSuite) TestRecordActivityHeartbeat() {
	s.service.EXPECT().RecordActivityTaskHeartbeat(gomock.Any(), gomock.Any()).
		Return(&shared.RecordActivityTaskHeartbeatResponse{}, nil)
	s.NoError(s.client.RecordActivityHeartbeat(context.Background(), []byte("token"), []byte("progress")))
}
