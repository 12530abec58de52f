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

// Package client is used by external programs to start, signal, query and
// cancel Tideflow workflow executions.
package client

import (
	"github.com/tideflow-io/tideflow-go-client/internal"
	"github.com/tideflow-io/tideflow-go-client/shared"
)

type (
	// Client is the client for starting and signaling workflow executions and
	// for completing activities asynchronously.
	Client = internal.Client

	// Options are optional parameters for the Client.
	Options = internal.ClientOptions

	// StartWorkflowOptions configures one StartWorkflow call.
	StartWorkflowOptions = internal.StartWorkflowOptions

	// HistoryEventIterator iterates over an execution's history events.
	HistoryEventIterator = internal.HistoryEventIterator

	// WorkflowExecution identifies a single run of a workflow.
	WorkflowExecution = internal.WorkflowExecution
)

// New creates a Client instance for the given domain.
//
//	service - connection to the tideflow service
//	domain  - the name of the tideflow domain
func New(service shared.WorkflowService, domain string, options *Options) Client {
	return internal.NewClient(service, domain, options)
}
