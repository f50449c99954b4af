// internal/workers/projection/capacity-factor-curve/handler.go
package capacityfactorcurve

import (
	"context"
	"encoding/json"
	"fmt"
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
	TaskType = "capacity-factor-curve"
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

// Execute samples the capacity factor curve. Turbulence comes from the input,
// else from the named district, else from the default district.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	formula := h.config.Formula
	if input.Formula != "" {
		f, err := engine.ParseFormula(input.Formula)
		if err != nil {
			return nil, errors.FromDomainError(err)
		}
		formula = f
	}

	turbulence := catalog.Default().Turbulence
	if name := strings.TrimSpace(input.District); name != "" {
		d, err := catalog.Lookup(name)
		if err != nil {
			return nil, errors.FromDomainError(err)
		}
		turbulence = d.Turbulence
	}
	if input.Turbulence != nil {
		turbulence = *input.Turbulence
	}
	if b := engine.Bounds["turbulence"]; turbulence < b.Min || turbulence > b.Max {
		return nil, errors.NewInvalidParameterError("turbulence",
			fmt.Sprintf("turbulence %g outside [%g, %g]", turbulence, b.Min, b.Max))
	}

	from, to := DefaultFromSpeed, DefaultToSpeed
	if input.FromSpeed != nil {
		from = *input.FromSpeed
	}
	if input.ToSpeed != nil {
		to = *input.ToSpeed
	}

	points := input.Points
	if points == 0 {
		points = DefaultPoints
	}
	if points > h.config.MaxPoints {
		return nil, errors.NewInvalidParameterError("points",
			fmt.Sprintf("at most %d points may be requested", h.config.MaxPoints))
	}

	curve, err := engine.CapacityFactorCurve(formula, turbulence, from, to, points)
	if err != nil {
		return nil, errors.FromDomainError(err)
	}

	return &Output{
		Formula:    formula,
		Turbulence: turbulence,
		Curve:      curve,
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
