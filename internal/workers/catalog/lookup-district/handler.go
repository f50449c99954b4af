// internal/workers/catalog/lookup-district/handler.go
package lookupdistrict

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"
	"wind-workers/internal/windfarm/catalog"
	"wind-workers/internal/windfarm/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "lookup-district"
)

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

// Execute resolves the requested district. A blank name selects the default district.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	name := strings.TrimSpace(input.District)
	if name == "" {
		d := catalog.Default()
		return &Output{
			District:          d,
			DefaultParameters: engine.DefaultParameters(d),
			UsedDefault:       true,
		}, nil
	}

	d, err := catalog.Lookup(name)
	if err != nil {
		return nil, errors.FromDomainError(err)
	}

	h.logger.Debug("district resolved", map[string]interface{}{
		"district":  d.Name,
		"potential": d.Potential,
	})

	return &Output{
		District:          d,
		DefaultParameters: engine.DefaultParameters(d),
	}, nil
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
