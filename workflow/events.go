package workflow

import "github.com/tailored-agentic-units/rfp/observability"

const (
	EventWorkflowStart    observability.EventType = "workflow.start"
	EventWorkflowResume   observability.EventType = "workflow.resume"
	EventWorkflowComplete observability.EventType = "workflow.complete"
	EventWorkflowFailed   observability.EventType = "workflow.failed"
	EventSinkFailed       observability.EventType = "workflow.sink.failed"
	EventBatchStart       observability.EventType = "workflow.batch.start"
	EventBatchComplete    observability.EventType = "workflow.batch.complete"
)
