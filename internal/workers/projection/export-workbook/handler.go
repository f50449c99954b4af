// internal/workers/projection/export-workbook/handler.go
package exportworkbook

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "export-projection-workbook"
)

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

type Handler struct {
	config *Config
	logger logger.Logger
	errs   *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		logger: l,
		errs:   errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewInputParsingFailedError(err), start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.ObserveJob(TaskType, "", time.Since(start).Seconds())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Projection == nil {
		return nil, errors.NewInvalidParameterError("projection", "projection is required")
	}
	r := input.Projection
	if r.LifetimeYears <= 0 ||
		len(r.CumulativeGeneration) != r.LifetimeYears ||
		len(r.CumulativeRevenue) != r.LifetimeYears ||
		len(r.CumulativeCashFlow) != r.LifetimeYears {
		return nil, errors.NewInvalidParameterError("projection",
			fmt.Sprintf("series lengths do not match lifetime of %d years", r.LifetimeYears))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewExportFailedError(err)
	}

	data, err := RenderWorkbook(input.District, input.Parameters, *r)
	if err != nil {
		return nil, errors.NewExportFailedError(err)
	}
	if h.config.MaxBytes > 0 && len(data) > h.config.MaxBytes {
		return nil, errors.NewExportFailedError(
			fmt.Errorf("workbook is %d bytes, limit is %d", len(data), h.config.MaxBytes))
	}

	exportID := uuid.NewString()
	metrics.WorkbooksExported.Inc()

	h.logger.Info("workbook exported", map[string]interface{}{
		"exportId":  exportID,
		"district":  input.District,
		"sizeBytes": len(data),
	})

	return &Output{
		ExportID:       exportID,
		FileName:       fileName(input.District, exportID),
		ContentType:    ContentTypeXLSX,
		SizeBytes:      len(data),
		WorkbookBase64: base64.StdEncoding.EncodeToString(data),
	}, nil
}

func fileName(district, exportID string) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(district), "-"), "-")
	if slug == "" {
		slug = "project"
	}
	return fmt.Sprintf("wind-projection-%s-%s.xlsx", slug, exportID[:8])
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := h.errs.HandleJobError(ctx, client, job, err)
	metrics.ObserveJob(TaskType, string(stdErr.Code), time.Since(start).Seconds())
}
