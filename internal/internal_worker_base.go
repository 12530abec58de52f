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
	"runtime"
	"sync"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tideflow-io/tideflow-go-client/internal/common"
	"github.com/tideflow-io/tideflow-go-client/internal/common/backoff"
	"github.com/tideflow-io/tideflow-go-client/internal/common/metrics"
)

const (
	retryPollOperationInitialInterval = 20 * time.Millisecond
	retryPollOperationMaxInterval     = 10 * time.Second
)

type (
	// WorkflowDefinitionFactory creates WorkflowDefinition instances, one per
	// replay pass.
	WorkflowDefinitionFactory interface {
		// NewWorkflowDefinition must return a new instance on each call.
		NewWorkflowDefinition() (WorkflowDefinition, error)
	}

	// WorkflowDefinition wraps the deterministic dispatcher that runs user
	// workflow code. Its internals are outside this package; the replay engine
	// only pauses and resumes it between history events.
	WorkflowDefinition interface {
		// Execute starts the workflow. Implementation must be asynchronous:
		// application level code runs only from OnDecisionTaskStarted.
		Execute(env workflowEnvironment, input []byte)
		// OnDecisionTaskStarted is called for each decision task started event
		// after all preceding history events have been applied.
		OnDecisionTaskStarted()
		// StackTrace of all coroutines owned by the dispatcher.
		StackTrace() string
		Close()
	}

	// baseWorkerOptions options to configure base worker.
	baseWorkerOptions struct {
		pollerCount       int
		maxPollsPerSecond float64
		taskWorker        taskPoller
		identity          string
		workerType        string
		stopTimeout       time.Duration

		pollBackoffInitialInterval time.Duration
		pollBackoffMaximumInterval time.Duration
		pollBackoffCoefficient     float64

		// uncaughtErrorHandler receives permanent poll errors and recovered
		// panics. Defaults to logging.
		uncaughtErrorHandler func(err error)
	}

	// baseWorker runs a fixed set of pollers, each polling and processing one
	// task at a time. Backpressure comes from sizing the poller pool: a slow
	// handler occupies its poller until it finishes.
	baseWorker struct {
		options         baseWorkerOptions
		isWorkerStarted atomic.Bool

		shutdownCh chan struct{} // graceful stop: finish current iteration
		stopCh     chan struct{} // forced stop: interrupt blocking calls
		stopWG     sync.WaitGroup
		stopOnce   sync.Once
		forceOnce  sync.Once

		pollLimiter          *rate.Limiter
		limiterContext       context.Context
		limiterContextCancel func()

		retrier *backoff.ConcurrentRetrier // Service errors back off retrier

		suspended atomic.Bool
		suspendMu sync.Mutex
		suspendCh chan struct{}

		logger       *zap.Logger
		metricsScope tally.Scope
	}
)

func createPollRetryPolicy(options baseWorkerOptions) backoff.RetryPolicy {
	initial := options.pollBackoffInitialInterval
	if initial <= 0 {
		initial = retryPollOperationInitialInterval
	}
	max := options.pollBackoffMaximumInterval
	if max <= 0 {
		max = retryPollOperationMaxInterval
	}

	policy := backoff.NewExponentialRetryPolicy(initial)
	policy.SetMaximumInterval(max)
	if options.pollBackoffCoefficient > 0 {
		policy.SetBackoffCoefficient(options.pollBackoffCoefficient)
	}

	// NOTE: the expiration interval stays unset: the retrier is only used to
	// compute the next backoff between poll iterations, never to give up.
	policy.SetExpirationInterval(backoff.NoInterval)
	return policy
}

func newBaseWorker(options baseWorkerOptions, logger *zap.Logger, metricsScope tally.Scope) *baseWorker {
	ctx, cancel := context.WithCancel(context.Background())
	if options.pollerCount <= 0 {
		options.pollerCount = 1
	}
	bw := &baseWorker{
		options:    options,
		shutdownCh: make(chan struct{}),
		stopCh:     make(chan struct{}),
		retrier:    backoff.NewConcurrentRetrier(createPollRetryPolicy(options)),
		logger:     logger.With(zap.String(tagWorkerType, options.workerType)),
		metricsScope: metrics.NewTaggedScope(metricsScope).GetTaggedScope(
			metrics.WorkerTypeTagName, options.workerType),

		limiterContext:       ctx,
		limiterContextCancel: cancel,
	}
	if options.maxPollsPerSecond > 0 {
		bw.pollLimiter = rate.NewLimiter(rate.Limit(options.maxPollsPerSecond), 1)
	}

	return bw
}

// Start starts a fixed set of routines to do the work.
func (bw *baseWorker) Start() {
	if !bw.isWorkerStarted.CAS(false, true) {
		return
	}

	bw.metricsScope.Counter(metrics.WorkerStartCounter).Inc(1)

	for i := 0; i < bw.options.pollerCount; i++ {
		bw.stopWG.Add(1)
		go bw.runPoller()
	}

	traceLog(func() {
		bw.logger.Info("Started Worker",
			zap.Int("PollerCount", bw.options.pollerCount),
			zap.Float64("MaxPollsPerSecond", bw.options.maxPollsPerSecond),
		)
	})
}

func (bw *baseWorker) isShuttingDown() bool {
	select {
	case <-bw.shutdownCh:
		return true
	default:
		return false
	}
}

func (bw *baseWorker) runPoller() {
	defer bw.stopWG.Done()
	bw.metricsScope.Counter(metrics.PollerStartCounter).Inc(1)

	for {
		if bw.isShuttingDown() {
			return
		}

		// Backoff from consecutive poll failures before hitting the service
		// again. The retrier is shared by all pollers of this worker.
		bw.retrier.Throttle()

		if bw.pollLimiter != nil {
			if err := bw.pollLimiter.Wait(bw.limiterContext); err != nil {
				// limiter context is canceled on forced stop only
				return
			}
		}

		if !bw.waitWhileSuspended() {
			return
		}

		if bw.isShuttingDown() {
			return
		}

		bw.pollAndProcessTask()
	}
}

// pollAndProcessTask runs one poll→handle cycle in-line on the poller
// goroutine. Panics and errors never stop the poller.
func (bw *baseWorker) pollAndProcessTask() {
	defer func() {
		if p := recover(); p != nil {
			bw.metricsScope.Counter(metrics.WorkerPanicCounter).Inc(1)
			topLine := fmt.Sprintf("base worker for %s [panic]:", bw.options.workerType)
			st := getStackTraceRaw(topLine, 7, 0)
			bw.logger.Error("Unhandled panic.",
				zap.String("PanicError", fmt.Sprintf("%v", p)),
				zap.String("PanicStack", st))
			bw.handleUncaughtError(newPanicError(p, st))
		}
	}()

	task, err := bw.options.taskWorker.PollTask()
	if err != nil {
		bw.retrier.Failed()
		if err == errShutdown {
			return
		}
		traceLog(func() {
			bw.logger.Debug("Failed to poll for task.", zap.Error(err))
		})
		if !isServiceTransientError(err) {
			bw.handleUncaughtError(err)
		}
		return
	}
	bw.retrier.Succeeded()

	if task == nil {
		return
	}

	if err := bw.options.taskWorker.ProcessTask(task); err != nil {
		if err == errShutdown {
			return
		}
		if isClientSideError(err) {
			bw.logger.Info("Task processing failed with client side error", zap.Error(err))
		} else {
			bw.logger.Info("Task processing failed with error", zap.Error(err))
		}
	}
}

func (bw *baseWorker) handleUncaughtError(err error) {
	if bw.isShuttingDown() {
		// interruption during shutdown is expected; swallow
		return
	}
	if bw.options.uncaughtErrorHandler != nil {
		bw.options.uncaughtErrorHandler(err)
		return
	}
	bw.logger.Error("Uncaught poll task error.", zap.Error(err))
}

// SuspendPolling installs a latch all pollers wait on between iterations.
// An in-flight poll or handle is not interrupted.
func (bw *baseWorker) SuspendPolling() {
	bw.suspendMu.Lock()
	defer bw.suspendMu.Unlock()
	if bw.suspendCh == nil {
		bw.suspendCh = make(chan struct{})
		bw.suspended.Store(true)
	}
}

// ResumePolling releases all pollers blocked on the suspend latch.
func (bw *baseWorker) ResumePolling() {
	bw.suspendMu.Lock()
	defer bw.suspendMu.Unlock()
	if bw.suspendCh != nil {
		close(bw.suspendCh)
		bw.suspendCh = nil
		bw.suspended.Store(false)
	}
}

// IsSuspended reports whether the suspend latch is installed.
func (bw *baseWorker) IsSuspended() bool {
	return bw.suspended.Load()
}

// waitWhileSuspended parks until the latch is released or the worker stops.
// Returns false when the worker should exit.
func (bw *baseWorker) waitWhileSuspended() bool {
	bw.suspendMu.Lock()
	suspendCh := bw.suspendCh
	bw.suspendMu.Unlock()

	if suspendCh == nil {
		return true
	}
	select {
	case <-suspendCh:
		return true
	case <-bw.shutdownCh:
		return false
	case <-bw.stopCh:
		return false
	}
}

// Shutdown signals a graceful stop: pollers finish their current iteration
// and exit without starting a new one.
func (bw *baseWorker) Shutdown() {
	bw.stopOnce.Do(func() {
		close(bw.shutdownCh)
	})
}

// ShutdownNow additionally interrupts blocking calls: in-flight poll RPCs,
// rate limiter waits and the suspend latch.
func (bw *baseWorker) ShutdownNow() {
	bw.Shutdown()
	bw.forceOnce.Do(func() {
		close(bw.stopCh)
		bw.limiterContextCancel()
	})
}

// AwaitTermination waits for all pollers to exit, up to timeout. Returns
// true when they all exited in time.
func (bw *baseWorker) AwaitTermination(timeout time.Duration) bool {
	return common.AwaitWaitGroup(&bw.stopWG, timeout)
}

// Stop is a blocking call: force-stop plus wait, bounded by the configured
// stop timeout.
func (bw *baseWorker) Stop() {
	if !bw.isWorkerStarted.Load() {
		return
	}
	bw.ShutdownNow()

	timeout := bw.options.stopTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	if success := bw.AwaitTermination(timeout); !success {
		traceLog(func() {
			bw.logger.Info("Worker graceful stop timed out.", zap.Duration("Stop timeout", timeout))
		})
	}
}

// getStackTraceRaw returns topLine followed by the full current goroutine
// stack. pops and extraPops are not used: no frames are stripped.
func getStackTraceRaw(topLine string, pops int, extraPops int) string {
	buf := make([]byte, 32*1024)
	n := runtime.Stack(buf, false)
	stack := string(buf[:n])
	return topLine + "\n" + stack
}
