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
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/internal/common/backoff"
	"github.com/tideflow-io/tideflow-go-client/shared"
)

type (
	// Activity is the contract one registered activity implementation
	// fulfills. Input and output travel as encoded payloads; the data
	// converter is available through the context.
	Activity interface {
		ActivityType() ActivityType
		Execute(ctx context.Context, input []byte) ([]byte, error)
	}

	// ActivityInfo is the information an activity can introspect about its
	// current invocation.
	ActivityInfo struct {
		TaskToken          []byte
		WorkflowType       *WorkflowType
		WorkflowDomain     string
		WorkflowExecution  WorkflowExecution
		ActivityID         string
		ActivityType       ActivityType
		ScheduledTimestamp time.Time
		StartedTimestamp   time.Time
		Deadline           time.Time
		HeartbeatTimeout   time.Duration
		Attempt            int32
	}

	// serviceInvoker reports heartbeats for one activity invocation.
	serviceInvoker interface {
		Heartbeat(details []byte) error
		Close()
	}

	activityEnvironment struct {
		taskToken          []byte
		workflowType       *WorkflowType
		workflowDomain     string
		workflowExecution  WorkflowExecution
		activityID         string
		activityType       ActivityType
		serviceInvoker     serviceInvoker
		logger             *zap.Logger
		metricsScope       tally.Scope
		dataConverter      DataConverter
		scheduledTimestamp time.Time
		startedTimestamp   time.Time
		deadline           time.Time
		heartbeatTimeout   time.Duration
		attempt            int32
		heartbeatDetails   []byte
	}

	tideflowInvoker struct {
		identity  string
		service   shared.WorkflowService
		taskToken []byte
		// cancelHandler cancels the activity context when the service reports
		// a pending cancellation on heartbeat.
		cancelHandler func()
		closeCh       chan struct{}
	}

	activityContextKeyType struct{}
)

var activityEnvContextKey = activityContextKeyType{}

func getActivityEnv(ctx context.Context) *activityEnvironment {
	env := ctx.Value(activityEnvContextKey)
	if env == nil {
		panic("getActivityEnv: not an activity context")
	}
	return env.(*activityEnvironment)
}

// GetActivityInfo returns information about the currently executing activity.
func GetActivityInfo(ctx context.Context) ActivityInfo {
	env := getActivityEnv(ctx)
	return ActivityInfo{
		TaskToken:          env.taskToken,
		WorkflowType:       env.workflowType,
		WorkflowDomain:     env.workflowDomain,
		WorkflowExecution:  env.workflowExecution,
		ActivityID:         env.activityID,
		ActivityType:       env.activityType,
		ScheduledTimestamp: env.scheduledTimestamp,
		StartedTimestamp:   env.startedTimestamp,
		Deadline:           env.deadline,
		HeartbeatTimeout:   env.heartbeatTimeout,
		Attempt:            env.attempt,
	}
}

// GetActivityLogger returns the logger bound to the current activity.
func GetActivityLogger(ctx context.Context) *zap.Logger {
	return getActivityEnv(ctx).logger
}

// GetActivityMetricsScope returns the metrics scope bound to the current activity.
func GetActivityMetricsScope(ctx context.Context) tally.Scope {
	return getActivityEnv(ctx).metricsScope
}

// HasHeartbeatDetails returns whether a previous attempt recorded heartbeat
// details.
func HasHeartbeatDetails(ctx context.Context) bool {
	return len(getActivityEnv(ctx).heartbeatDetails) > 0
}

// GetHeartbeatDetails extracts details recorded by the last heartbeat of the
// previous attempt.
func GetHeartbeatDetails(ctx context.Context, d ...interface{}) error {
	env := getActivityEnv(ctx)
	return newEncodedValues(env.heartbeatDetails, env.dataConverter).Get(d...)
}

// RecordActivityHeartbeat records progress for the currently executing
// activity. When the service has a pending cancellation for this activity,
// the activity context is canceled.
func RecordActivityHeartbeat(ctx context.Context, details ...interface{}) {
	env := getActivityEnv(ctx)
	if env.serviceInvoker == nil {
		return
	}
	data, err := encodeArgs(env.dataConverter, details)
	if err != nil {
		panic(err)
	}
	if err := env.serviceInvoker.Heartbeat(data); err != nil {
		traceLog(func() {
			env.logger.Debug("RecordActivityHeartbeat failed.", zap.Error(err))
		})
	}
}

func newServiceInvoker(
	taskToken []byte,
	identity string,
	service shared.WorkflowService,
	cancelHandler func(),
) serviceInvoker {
	return &tideflowInvoker{
		taskToken:     taskToken,
		identity:      identity,
		service:       service,
		cancelHandler: cancelHandler,
		closeCh:       make(chan struct{}),
	}
}

// Heartbeat reports progress to the service under the standard transient
// error retry policy.
func (i *tideflowInvoker) Heartbeat(details []byte) error {
	ctx := context.Background()
	var response *shared.RecordActivityTaskHeartbeatResponse
	err := backoff.Retry(ctx,
		func() error {
			var err1 error
			response, err1 = i.service.RecordActivityTaskHeartbeat(ctx, &shared.RecordActivityTaskHeartbeatRequest{
				TaskToken: i.taskToken,
				Details:   details,
				Identity:  common.StringPtr(i.identity),
			})
			return err1
		}, serviceOperationRetryPolicy, isServiceTransientError)
	if err != nil {
		return err
	}
	if response.GetCancelRequested() {
		i.cancelHandler()
	}
	return nil
}

func (i *tideflowInvoker) Close() {
	close(i.closeCh)
}

type activityTaskHandlerImpl struct {
	taskListName  string
	identity      string
	service       shared.WorkflowService
	registry      *registry
	logger        *zap.Logger
	metricsScope  tally.Scope
	dataConverter DataConverter
	userContext   context.Context
	tracer        opentracing.Tracer
	workerStopCh  <-chan struct{}
}

func newActivityTaskHandler(
	service shared.WorkflowService,
	params workerExecutionParameters,
	registry *registry,
) ActivityTaskHandler {
	return &activityTaskHandlerImpl{
		taskListName:  params.TaskList,
		identity:      params.Identity,
		service:       service,
		registry:      registry,
		logger:        params.Logger,
		metricsScope:  params.MetricsScope,
		dataConverter: params.DataConverter,
		userContext:   params.UserContext,
		tracer:        params.Tracer,
		workerStopCh:  params.WorkerStopChannel,
	}
}

// Execute runs one activity task to completion and converts its outcome into
// the request reported back to the service. Cancellation surfaces as a
// CanceledError and is reported as Canceled, not Failed.
func (ath *activityTaskHandlerImpl) Execute(taskList string, t *shared.PollForActivityTaskResponse) (result interface{}, err error) {
	traceLog(func() {
		ath.logger.Debug("Processing new activity task",
			zap.String(tagWorkflowID, t.WorkflowExecution.GetWorkflowId()),
			zap.String(tagRunID, t.WorkflowExecution.GetRunId()),
			zap.String(tagActivityType, t.ActivityType.GetName()))
	})

	rootCtx := ath.userContext
	if rootCtx == nil {
		rootCtx = context.Background()
	}

	canCtx, cancel := context.WithCancel(rootCtx)
	defer cancel()

	invoker := newServiceInvoker(t.TaskToken, ath.identity, ath.service, cancel)
	defer invoker.Close()

	activityType := t.ActivityType.GetName()
	activityImplementation, ok := ath.registry.GetActivity(activityType)
	if !ok {
		supported := ath.registry.getRegisteredActivityTypes()
		unableToFindErr := fmt.Errorf("unable to find activityType=%v. Supported types: %v", activityType, supported)
		ath.logger.Error("Activity type not registered with worker.",
			zap.String(tagActivityType, activityType),
			zap.Error(unableToFindErr))
		return convertActivityResultToRespondRequest(ath.identity, t.TaskToken, nil, unableToFindErr, ath.dataConverter), nil
	}

	deadline := calculateActivityDeadline(t)
	ctx := context.WithValue(canCtx, activityEnvContextKey, &activityEnvironment{
		taskToken:      t.TaskToken,
		workflowType:   &WorkflowType{Name: t.WorkflowType.GetName()},
		workflowDomain: t.GetWorkflowDomain(),
		workflowExecution: WorkflowExecution{
			ID:    t.WorkflowExecution.GetWorkflowId(),
			RunID: t.WorkflowExecution.GetRunId(),
		},
		activityID:         t.GetActivityId(),
		activityType:       ActivityType{Name: activityType},
		serviceInvoker:     invoker,
		logger:             ath.logger,
		metricsScope:       ath.metricsScope,
		dataConverter:      ath.dataConverter,
		scheduledTimestamp: time.Unix(0, t.GetScheduledTimestamp()),
		startedTimestamp:   time.Unix(0, t.GetStartedTimestamp()),
		deadline:           deadline,
		heartbeatTimeout:   time.Duration(t.GetHeartbeatTimeoutSeconds()) * time.Second,
		attempt:            t.GetAttempt(),
		heartbeatDetails:   t.HeartbeatDetails,
	})
	ctx, dlCancel := context.WithDeadline(ctx, deadline)
	defer dlCancel()

	// panic handler
	defer func() {
		if p := recover(); p != nil {
			topLine := fmt.Sprintf("activity for %s [panic]:", taskList)
			st := getStackTraceRaw(topLine, 7, 0)
			ath.logger.Error("Activity panic.",
				zap.String(tagWorkflowID, t.WorkflowExecution.GetWorkflowId()),
				zap.String(tagRunID, t.WorkflowExecution.GetRunId()),
				zap.String(tagActivityType, activityType),
				zap.String("PanicError", fmt.Sprintf("%v", p)),
				zap.String("PanicStack", st))
			panicErr := newPanicError(p, st)
			result = convertActivityResultToRespondRequest(ath.identity, t.TaskToken, nil, panicErr, ath.dataConverter)
			err = nil
		}
	}()

	ctx, span := createOpenTracingActivitySpan(
		ctx, ath.tracer, time.Now(), activityType, t.WorkflowExecution.GetWorkflowId(), t.WorkflowExecution.GetRunId())
	defer span.Finish()

	output, activityErr := activityImplementation.Execute(ctx, t.Input)

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			// the service already timed this attempt out, there is nothing
			// useful to report
			return nil, ctx.Err()
		}
	default:
	}

	return convertActivityResultToRespondRequest(ath.identity, t.TaskToken, output, activityErr, ath.dataConverter), nil
}

func calculateActivityDeadline(t *shared.PollForActivityTaskResponse) time.Time {
	scheduled := time.Unix(0, t.GetScheduledTimestamp())
	started := time.Unix(0, t.GetStartedTimestamp())
	scheduleToCloseDeadline := scheduled.Add(time.Duration(t.GetScheduleToCloseTimeoutSeconds()) * time.Second)
	startToCloseDeadline := started.Add(time.Duration(t.GetStartToCloseTimeoutSeconds()) * time.Second)
	if scheduleToCloseDeadline.Before(startToCloseDeadline) {
		return scheduleToCloseDeadline
	}
	return startToCloseDeadline
}
