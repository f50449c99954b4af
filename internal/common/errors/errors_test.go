package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"wind-workers/internal/windfarm/catalog"
	"wind-workers/internal/windfarm/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainError(t *testing.T) {
	_, lookupErr := catalog.Lookup("Atlantis")
	validateErr := engine.Validate(engine.ProjectParameters{LifetimeYears: 40})

	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"district not found", lookupErr, ErrCodeDistrictNotFound, false},
		{"wrapped district not found", fmt.Errorf("lookup: %w", lookupErr), ErrCodeDistrictNotFound, false},
		{"invalid parameter", validateErr, ErrCodeInvalidParameter, false},
		{"standard error passes through", NewFeedbackSendFailedError("ses", stderrors.New("throttled")), ErrCodeFeedbackSendFailed, true},
		{"unknown error", stderrors.New("boom"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := FromDomainError(tt.err)
			require.NotNil(t, stdErr)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}

	stdErr := FromDomainError(lookupErr)
	assert.Equal(t, "Atlantis", stdErr.Metadata["district"])

	stdErr = FromDomainError(validateErr)
	assert.Equal(t, "lifetimeYears", stdErr.Metadata["field"])
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewDistrictNotFoundError("Atlantis")
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "DISTRICT_NOT_FOUND", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)
	assert.False(t, bpmnErr.Retryable)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "DISTRICT_NOT_FOUND", vars["errorCode"])
	assert.Equal(t, "DISTRICT_NOT_FOUND", vars["originalErrorCode"])
	assert.Equal(t, "Atlantis", vars["district"])
	_, err := time.Parse(time.RFC3339, vars["timestamp"].(string))
	assert.NoError(t, err)

	send := ConvertToBPMNError(NewFeedbackSendFailedError("ses", stderrors.New("throttled")))
	assert.Equal(t, 3, send.Retries)

	// a non-retryable error never gets retries even for a retryable code
	forced := ConvertToBPMNError(&StandardError{Code: ErrCodeAssistantFailed, Retryable: false})
	assert.Equal(t, 0, forced.Retries)

	unknown := ConvertToBPMNError(&StandardError{Code: "SOMETHING_ELSE"})
	assert.Equal(t, "SOMETHING_ELSE", unknown.Code)
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 0, GetRetryCount(ErrCodeDistrictNotFound))
	assert.Equal(t, 0, GetRetryCount(ErrCodeInvalidParameter))
	assert.Equal(t, 0, GetRetryCount(ErrCodeCalculationFailed))
	assert.Equal(t, 0, GetRetryCount(ErrCodeExportFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeFeedbackSendFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeAssistantFailed))
	assert.Equal(t, 1, GetRetryCount(ErrCodeAssistantTimeout))
	assert.True(t, IsRetryableErrorCode(ErrCodeFeedbackSendFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeFeedbackValidationFailed))
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeDistrictNotFound:         "CATALOG",
		ErrCodeInvalidParameter:         "ENGINE",
		ErrCodeCalculationFailed:        "ENGINE",
		ErrCodeExportFailed:             "EXPORT",
		ErrCodeFeedbackValidationFailed: "FEEDBACK",
		ErrCodeAssistantTimeout:         "AI",
		ErrCodeInputParsingFailed:       "VALIDATION",
		ErrCodeInternal:                 "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), string(code))
	}
}

func TestRetriesFor(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Retries: retries}}
	}
	bpmnErr := &BPMNError{Retries: 3}

	assert.Equal(t, int32(2), RetriesFor(job(3), bpmnErr))
	assert.Equal(t, int32(0), RetriesFor(job(1), bpmnErr))
	assert.Equal(t, int32(3), RetriesFor(job(10), bpmnErr))
	assert.Equal(t, int32(0), RetriesFor(job(0), &BPMNError{Retries: 0}))
}

func TestStandardError_Error(t *testing.T) {
	err := NewExportFailedError(stderrors.New("disk full"))
	assert.Equal(t, "StandardError[EXPORT_FAILED]: Workbook export failed", err.Error())
	assert.Equal(t, "disk full", err.Details)
}
