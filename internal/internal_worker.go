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
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pborman/uuid"
	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/tideflow-io/tideflow-go-client/shared"
)

const (
	defaultConcurrentPollRoutineSize = 2

	defaultWorkerStopTimeout = time.Minute

	workerTypeDecision = "decision"
	workerTypeActivity = "activity"
)

type (
	// WorkerOptions configures a worker instance.
	WorkerOptions struct {
		// Identity tags this worker in service side logs and history events.
		// Defaults to pid@hostname@tasklist.
		Identity string

		// Logger for the framework. Defaults to a production zap logger.
		Logger *zap.Logger

		// MetricsScope for worker metrics. Defaults to a no-op scope.
		MetricsScope tally.Scope

		// DataConverter customizes payload serialization.
		DataConverter DataConverter

		// Tracer for activity execution spans.
		Tracer opentracing.Tracer

		// MaxConcurrentDecisionTaskPollers is the fixed number of decision
		// pollers; each poller handles the task it polled in-line.
		MaxConcurrentDecisionTaskPollers int

		// MaxConcurrentActivityTaskPollers is the fixed number of activity
		// pollers.
		MaxConcurrentActivityTaskPollers int

		// MaxDecisionPollsPerSecond rate limits decision polls across the
		// poller pool. Zero means unlimited.
		MaxDecisionPollsPerSecond float64

		// MaxActivityPollsPerSecond rate limits activity polls across the
		// poller pool. Zero means unlimited.
		MaxActivityPollsPerSecond float64

		// TaskListActivitiesPerSecond is the service enforced dispatch rate
		// for the whole activity task list, shared across workers.
		TaskListActivitiesPerSecond float64

		// PollBackoffInitialInterval, PollBackoffMaximumInterval and
		// PollBackoffCoefficient configure the exponential backoff applied
		// after consecutive poll failures.
		PollBackoffInitialInterval time.Duration
		PollBackoffMaximumInterval time.Duration
		PollBackoffCoefficient     float64

		// MaxDecisionsPerCompletion caps the decision batch in one response.
		// Zero uses the service default of 10000.
		MaxDecisionsPerCompletion int

		// EnableLoggingInReplay emits workflow logs during replay too.
		EnableLoggingInReplay bool

		// DisableWorkflowWorker turns off decision task processing.
		DisableWorkflowWorker bool

		// DisableActivityWorker turns off activity task processing.
		DisableActivityWorker bool

		// BackgroundActivityContext is the root context for all activities.
		BackgroundActivityContext context.Context

		// WorkerStopTimeout bounds Stop's wait for pollers to exit.
		WorkerStopTimeout time.Duration
	}

	// workerExecutionParameters are the resolved per-worker settings threaded
	// through pollers and handlers.
	workerExecutionParameters struct {
		TaskList string
		Identity string

		ConcurrentPollRoutineSize   int
		MaxPollsPerSecond           float64
		TaskListActivitiesPerSecond float64

		PollBackoffInitialInterval time.Duration
		PollBackoffMaximumInterval time.Duration
		PollBackoffCoefficient     float64

		MaxDecisionsPerCompletion int
		EnableLoggingInReplay     bool

		Logger        *zap.Logger
		MetricsScope  tally.Scope
		DataConverter DataConverter
		Tracer        opentracing.Tracer

		UserContext       context.Context
		UserContextCancel context.CancelFunc

		WorkerStopChannel <-chan struct{}
		WorkerStopTimeout time.Duration
	}

	// registry holds the workflow definition factories and activity
	// implementations hosted by one worker.
	registry struct {
		sync.Mutex
		workflowFactories map[string]WorkflowDefinitionFactory
		activities        map[string]Activity
	}

	// workflowWorker wires the decision task handler into a poller pool.
	workflowWorker struct {
		executionParameters workerExecutionParameters
		workflowService     shared.WorkflowService
		domain              string
		poller              taskPoller
		worker              *baseWorker
		identity            string
		stopC               chan struct{}
	}

	// activityWorker wires the activity task handler into a poller pool.
	activityWorker struct {
		executionParameters workerExecutionParameters
		workflowService     shared.WorkflowService
		domain              string
		poller              taskPoller
		worker              *baseWorker
		identity            string
		stopC               chan struct{}
	}

	// aggregatedWorker bundles one workflow sub-worker and one activity
	// sub-worker for a (domain, task list) pair.
	aggregatedWorker struct {
		workflowWorker *workflowWorker
		activityWorker *activityWorker
		registry       *registry
		logger         *zap.Logger
	}
)

func newRegistry() *registry {
	return &registry{
		workflowFactories: make(map[string]WorkflowDefinitionFactory),
		activities:        make(map[string]Activity),
	}
}

// RegisterWorkflowFactory registers a workflow definition factory under the
// given workflow type name. Registering the same name twice panics: it is
// always a programming error.
func (r *registry) RegisterWorkflowFactory(workflowType string, factory WorkflowDefinitionFactory) {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.workflowFactories[workflowType]; ok {
		panic(fmt.Sprintf("workflow type \"%v\" is already registered", workflowType))
	}
	r.workflowFactories[workflowType] = factory
}

// RegisterActivity registers an activity implementation.
func (r *registry) RegisterActivity(a Activity) {
	r.Lock()
	defer r.Unlock()
	name := a.ActivityType().Name
	if _, ok := r.activities[name]; ok {
		panic(fmt.Sprintf("activity type \"%v\" is already registered", name))
	}
	r.activities[name] = a
}

func (r *registry) getWorkflowDefinitionFactory(workflowType string) (WorkflowDefinitionFactory, bool) {
	r.Lock()
	defer r.Unlock()
	factory, ok := r.workflowFactories[workflowType]
	return factory, ok
}

// GetActivity returns the registered activity implementation for the type.
func (r *registry) GetActivity(activityType string) (Activity, bool) {
	r.Lock()
	defer r.Unlock()
	a, ok := r.activities[activityType]
	return a, ok
}

func (r *registry) getRegisteredWorkflowTypes() []string {
	r.Lock()
	defer r.Unlock()
	var result []string
	for t := range r.workflowFactories {
		result = append(result, t)
	}
	return result
}

func (r *registry) getRegisteredActivityTypes() []string {
	r.Lock()
	defer r.Unlock()
	var result []string
	for t := range r.activities {
		result = append(result, t)
	}
	return result
}

func newWorkflowWorker(
	service shared.WorkflowService,
	domain string,
	params workerExecutionParameters,
	registry *registry,
) *workflowWorker {
	return newWorkflowWorkerInternal(service, domain, params, registry, nil)
}

// workerOverrides lets tests substitute task handlers.
type workerOverrides struct {
	workflowTaskHandler WorkflowTaskHandler
	activityTaskHandler ActivityTaskHandler
}

func newWorkflowWorkerInternal(
	service shared.WorkflowService,
	domain string,
	params workerExecutionParameters,
	registry *registry,
	overrides *workerOverrides,
) *workflowWorker {
	workerStopChannel := make(chan struct{})
	params.WorkerStopChannel = workerStopChannel
	ensureRequiredParams(&params)

	var taskHandler WorkflowTaskHandler
	if overrides != nil && overrides.workflowTaskHandler != nil {
		taskHandler = overrides.workflowTaskHandler
	} else {
		taskHandler = newWorkflowTaskHandler(domain, params, registry)
	}

	poller := newWorkflowTaskPoller(taskHandler, service, domain, params)
	worker := newBaseWorker(baseWorkerOptions{
		pollerCount:                params.ConcurrentPollRoutineSize,
		maxPollsPerSecond:          params.MaxPollsPerSecond,
		taskWorker:                 poller,
		identity:                   params.Identity,
		workerType:                 workerTypeDecision,
		stopTimeout:                params.WorkerStopTimeout,
		pollBackoffInitialInterval: params.PollBackoffInitialInterval,
		pollBackoffMaximumInterval: params.PollBackoffMaximumInterval,
		pollBackoffCoefficient:     params.PollBackoffCoefficient,
	}, params.Logger, params.MetricsScope)

	return &workflowWorker{
		executionParameters: params,
		workflowService:     service,
		domain:              domain,
		poller:              poller,
		worker:              worker,
		identity:            params.Identity,
		stopC:               workerStopChannel,
	}
}

// Start polling for decision tasks.
func (ww *workflowWorker) Start() error {
	ww.worker.Start()
	return nil
}

// Shutdown signals a graceful stop.
func (ww *workflowWorker) Shutdown() {
	close(ww.stopC)
	ww.worker.Shutdown()
}

// Stop force-stops and waits for the pollers to exit.
func (ww *workflowWorker) Stop() {
	select {
	case <-ww.stopC:
	default:
		close(ww.stopC)
	}
	ww.worker.Stop()
}

func (ww *workflowWorker) SuspendPolling() { ww.worker.SuspendPolling() }
func (ww *workflowWorker) ResumePolling() { ww.worker.ResumePolling() }
func (ww *workflowWorker) IsSuspended() bool { return ww.worker.IsSuspended() }

func newActivityWorker(
	service shared.WorkflowService,
	domain string,
	params workerExecutionParameters,
	registry *registry,
	overrides *workerOverrides,
) *activityWorker {
	workerStopChannel := make(chan struct{})
	params.WorkerStopChannel = workerStopChannel
	ensureRequiredParams(&params)

	var taskHandler ActivityTaskHandler
	if overrides != nil && overrides.activityTaskHandler != nil {
		taskHandler = overrides.activityTaskHandler
	} else {
		taskHandler = newActivityTaskHandler(service, params, registry)
	}

	poller := newActivityTaskPoller(taskHandler, service, domain, params)
	worker := newBaseWorker(baseWorkerOptions{
		pollerCount:                params.ConcurrentPollRoutineSize,
		maxPollsPerSecond:          params.MaxPollsPerSecond,
		taskWorker:                 poller,
		identity:                   params.Identity,
		workerType:                 workerTypeActivity,
		stopTimeout:                params.WorkerStopTimeout,
		pollBackoffInitialInterval: params.PollBackoffInitialInterval,
		pollBackoffMaximumInterval: params.PollBackoffMaximumInterval,
		pollBackoffCoefficient:     params.PollBackoffCoefficient,
	}, params.Logger, params.MetricsScope)

	return &activityWorker{
		executionParameters: params,
		workflowService:     service,
		domain:              domain,
		poller:              poller,
		worker:              worker,
		identity:            params.Identity,
		stopC:               workerStopChannel,
	}
}

// Start polling for activity tasks.
func (aw *activityWorker) Start() error {
	aw.worker.Start()
	return nil
}

// Stop force-stops and waits for the pollers to exit.
func (aw *activityWorker) Stop() {
	select {
	case <-aw.stopC:
	default:
		close(aw.stopC)
	}
	aw.worker.Stop()
}

func (aw *activityWorker) SuspendPolling() { aw.worker.SuspendPolling() }
func (aw *activityWorker) ResumePolling() { aw.worker.ResumePolling() }
func (aw *activityWorker) IsSuspended() bool { return aw.worker.IsSuspended() }

func ensureRequiredParams(params *workerExecutionParameters) {
	if params.Identity == "" {
		params.Identity = getWorkerIdentity(params.TaskList)
	}
	if params.Logger == nil {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		params.Logger = logger
		params.Logger.Info("No logger configured for tideflow worker. Created default one.")
	}
	if params.MetricsScope == nil {
		params.MetricsScope = tally.NoopScope
	}
	if params.DataConverter == nil {
		params.DataConverter = getDefaultDataConverter()
	}
	if params.ConcurrentPollRoutineSize <= 0 {
		params.ConcurrentPollRoutineSize = defaultConcurrentPollRoutineSize
	}
	if params.WorkerStopTimeout <= 0 {
		params.WorkerStopTimeout = defaultWorkerStopTimeout
	}
}

// NewWorker creates a worker bundling a workflow sub-worker and an activity
// sub-worker for the (domain, taskList) pair.
func NewWorker(
	service shared.WorkflowService,
	domain string,
	taskList string,
	options WorkerOptions,
) *aggregatedWorker {
	if domain == "" {
		panic("domain is required")
	}
	if taskList == "" {
		panic("task list is required")
	}

	registry := newRegistry()

	workerParams := workerExecutionParameters{
		TaskList:                  taskList,
		Identity:                  options.Identity,
		ConcurrentPollRoutineSize: options.MaxConcurrentDecisionTaskPollers,
		MaxPollsPerSecond:         options.MaxDecisionPollsPerSecond,

		PollBackoffInitialInterval: options.PollBackoffInitialInterval,
		PollBackoffMaximumInterval: options.PollBackoffMaximumInterval,
		PollBackoffCoefficient:     options.PollBackoffCoefficient,

		MaxDecisionsPerCompletion: options.MaxDecisionsPerCompletion,
		EnableLoggingInReplay:     options.EnableLoggingInReplay,

		Logger:        options.Logger,
		MetricsScope:  options.MetricsScope,
		DataConverter: options.DataConverter,
		Tracer:        options.Tracer,

		WorkerStopTimeout: options.WorkerStopTimeout,
	}
	ensureRequiredParams(&workerParams)

	var workflowWorker *workflowWorker
	if !options.DisableWorkflowWorker {
		workflowWorker = newWorkflowWorker(service, domain, workerParams, registry)
	}

	var actWorker *activityWorker
	if !options.DisableActivityWorker {
		activityParams := workerParams
		activityParams.ConcurrentPollRoutineSize = options.MaxConcurrentActivityTaskPollers
		activityParams.MaxPollsPerSecond = options.MaxActivityPollsPerSecond
		activityParams.TaskListActivitiesPerSecond = options.TaskListActivitiesPerSecond
		if options.BackgroundActivityContext != nil {
			ctx, cancel := context.WithCancel(options.BackgroundActivityContext)
			activityParams.UserContext = ctx
			activityParams.UserContextCancel = cancel
		}
		ensureRequiredParams(&activityParams)
		actWorker = newActivityWorker(service, domain, activityParams, registry, nil)
	}

	return &aggregatedWorker{
		workflowWorker: workflowWorker,
		activityWorker: actWorker,
		registry:       registry,
		logger:         workerParams.Logger,
	}
}

// RegisterWorkflowFactory registers a workflow definition factory under the
// given workflow type name.
func (aw *aggregatedWorker) RegisterWorkflowFactory(workflowType string, factory WorkflowDefinitionFactory) {
	aw.registry.RegisterWorkflowFactory(workflowType, factory)
}

// RegisterActivity registers an activity implementation.
func (aw *aggregatedWorker) RegisterActivity(a Activity) {
	aw.registry.RegisterActivity(a)
}

// Start the worker in a non-blocking fashion.
func (aw *aggregatedWorker) Start() error {
	if aw.workflowWorker != nil {
		if err := aw.workflowWorker.Start(); err != nil {
			return err
		}
	}
	if aw.activityWorker != nil {
		if err := aw.activityWorker.Start(); err != nil {
			if aw.workflowWorker != nil {
				aw.workflowWorker.Stop()
			}
			return err
		}
	}
	aw.logger.Info("Started Worker")
	return nil
}

// Run the worker until a kill signal arrives, then clean up.
func (aw *aggregatedWorker) Run() error {
	if err := aw.Start(); err != nil {
		return err
	}
	d := <-getKillSignal()
	aw.logger.Info("Worker has been stopped.", zap.String("Signal", d.String()))
	aw.Stop()
	return nil
}

// Stop cleans up all resources opened by the worker.
func (aw *aggregatedWorker) Stop() {
	if aw.workflowWorker != nil {
		aw.workflowWorker.Stop()
	}
	if aw.activityWorker != nil {
		aw.activityWorker.Stop()
	}
	aw.logger.Info("Stopped Worker")
}

// SuspendPolling pauses all pollers between iterations.
func (aw *aggregatedWorker) SuspendPolling() {
	if aw.workflowWorker != nil {
		aw.workflowWorker.SuspendPolling()
	}
	if aw.activityWorker != nil {
		aw.activityWorker.SuspendPolling()
	}
}

// ResumePolling releases suspended pollers.
func (aw *aggregatedWorker) ResumePolling() {
	if aw.workflowWorker != nil {
		aw.workflowWorker.ResumePolling()
	}
	if aw.activityWorker != nil {
		aw.activityWorker.ResumePolling()
	}
}

func getKillSignal() <-chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	return c
}

// getWorkerIdentity gets a default identity for the worker.
func getWorkerIdentity(tasklistName string) string {
	hostName, err := os.Hostname()
	if err != nil {
		hostName = "UnKnown"
	}
	return fmt.Sprintf("%d@%s@%s", os.Getpid(), hostName, tasklistName)
}

var (
	binaryChecksum     string
	binaryChecksumOnce sync.Once
)

// getBinaryChecksum returns a checksum identifying the worker binary, stamped
// onto decision completions.
func getBinaryChecksum() string {
	binaryChecksumOnce.Do(calculateBinaryChecksum)
	return binaryChecksum
}

func calculateBinaryChecksum() {
	exec, err := os.Executable()
	if err != nil {
		binaryChecksum = uuid.New() // should never happen
		return
	}
	f, err := os.Open(exec)
	if err != nil {
		binaryChecksum = uuid.New()
		return
	}
	defer func() { _ = f.Close() }()
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		binaryChecksum = uuid.New()
		return
	}
	binaryChecksum = fmt.Sprintf("%x", h.Sum(nil))
}
