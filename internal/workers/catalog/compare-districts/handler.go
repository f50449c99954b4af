// internal/workers/catalog/compare-districts/handler.go
package comparedistricts

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"
	"wind-workers/internal/windfarm/catalog"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-districts"
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
	if job.Variables != "" {
		if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
			h.failJob(ctx, client, job, errors.NewInputParsingFailedError(err), start)
			return
		}
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.ObserveJob(TaskType, "", time.Since(start).Seconds())
}

// Execute builds the comparison table. Without sortBy rows keep catalog order.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	profiles := catalog.All()
	rows := make([]Row, len(profiles))
	for i, d := range profiles {
		rows[i] = Row{
			Name:             d.Name,
			AvgWindSpeed:     d.AvgWindSpeed,
			Turbulence:       d.Turbulence,
			Elevation:        d.Elevation,
			Potential:        d.Potential,
			WindPowerDensity: d.WindPowerDensity,
		}
	}

	var key func(Row) float64
	switch input.SortBy {
	case SortCatalog:
	case SortWindSpeed:
		key = func(r Row) float64 { return r.AvgWindSpeed }
	case SortWindPowerDensity:
		key = func(r Row) float64 { return r.WindPowerDensity }
	default:
		return nil, errors.NewInvalidParameterError("sortBy",
			fmt.Sprintf("unsupported sort %q, use %q or %q", input.SortBy, SortWindSpeed, SortWindPowerDensity))
	}

	if key != nil {
		sort.SliceStable(rows, func(i, j int) bool {
			if input.Descending {
				return key(rows[i]) > key(rows[j])
			}
			return key(rows[i]) < key(rows[j])
		})
	}

	return &Output{
		Districts:       rows,
		DistrictNames:   catalog.ListNames(),
		DefaultDistrict: catalog.Default().Name,
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
