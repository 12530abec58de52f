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

// Structured log field names.
const (
	tagActivityID   = "ActivityID"
	tagActivityType = "ActivityType"
	tagDomain       = "Domain"
	tagEventID      = "EventID"
	tagEventType    = "EventType"
	tagQueryType    = "QueryType"
	tagRunID        = "RunID"
	tagTaskList     = "TaskList"
	tagTimerID      = "TimerID"
	tagWorkerID     = "WorkerID"
	tagWorkerType   = "WorkerType"
	tagWorkflowID   = "WorkflowID"
	tagWorkflowType = "WorkflowType"
)

var enableVerboseLogging = false

// EnableVerboseLogging enables or disables verbose logging of internal
// library components. There is no guarantee this API will not change.
func EnableVerboseLogging(enable bool) {
	enableVerboseLogging = enable
}

// traceLog runs the closure only when verbose logging is on, keeping debug
// field construction off hot paths.
func traceLog(fn func()) {
	if enableVerboseLogging {
		fn()
	}
}
