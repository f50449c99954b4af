// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler handles job errors with standardized error handling
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError fails the job with retries for transient errors and throws a BPMN
// error otherwise. It returns the normalized error for metrics labelling.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) *StandardError {
	stdErr := FromDomainError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	if bpmnErr.Retries > 0 && job.Retries > 0 {
		h.failJobWithRetries(ctx, client, job, bpmnErr)
	} else {
		h.throwBPMNError(ctx, client, job, bpmnErr)
	}
	return stdErr
}

// RetriesFor caps the recommended retries by what the job has left.
func RetriesFor(job entities.Job, bpmnErr *BPMNError) int32 {
	retries := int32(bpmnErr.Retries)
	if job.Retries > 0 && job.Retries-1 < retries {
		retries = job.Retries - 1
	}
	if retries < 0 {
		retries = 0
	}
	return retries
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(RetriesFor(job, bpmnErr)).
		ErrorMessage("[" + bpmnErr.Code + "] " + bpmnErr.Message)

	cmdWithVars, err := cmd.VariablesFromMap(bpmnErr.ToErrorVariables())
	if err == nil {
		if _, err := cmdWithVars.Send(ctx); err != nil {
			h.logSendFailure(job, err)
		}
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, err)
	}
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if cmdWithVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			if _, err := cmdWithVars.Send(ctx); err != nil {
				h.logSendFailure(job, err)
			}
			return
		}
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, err)
	}
}

func (h *ErrorHandler) logSendFailure(job entities.Job, err error) {
	h.logger.Error("Failed to report job error to Camunda", map[string]interface{}{
		"jobKey": job.Key,
		"error":  err.Error(),
	})
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retries":          bpmnErr.Retries,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
