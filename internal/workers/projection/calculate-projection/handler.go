package calculateprojection

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"wind-workers/internal/common/config"
	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"
	"wind-workers/internal/windfarm/catalog"
	"wind-workers/internal/windfarm/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "calculate-projection"

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
	errs    *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	Cache        ProjectionCache // optional
	Telemetry    Telemetry       // optional
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:  workerConfig,
		logger:  loggerInstance,
		service: NewService(opts.Cache, workerConfig.CacheTTL, opts.Telemetry, loggerInstance),
		errs:    errors.NewErrorHandler(loggerInstance),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"workflowKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.ObserveJob(TaskType, "", time.Since(start).Seconds())
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	if result := inputValidator.Validate(variables); !result.Valid {
		return nil, errors.NewInvalidParameterError(result.FirstField(),
			strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	return &input, nil
}

// Execute merges the request over the district baseline, validates the result
// against the documented bounds and runs the engine.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	district := catalog.Default()
	if name := strings.TrimSpace(input.District); name != "" {
		d, err := catalog.Lookup(name)
		if err != nil {
			return nil, errors.FromDomainError(err)
		}
		district = d
	}

	formula := h.config.Formula
	if input.Formula != "" {
		f, err := engine.ParseFormula(input.Formula)
		if err != nil {
			return nil, errors.FromDomainError(err)
		}
		formula = f
	}

	params := mergeParameters(engine.DefaultParameters(district), input)
	if err := engine.Validate(params); err != nil {
		return nil, errors.FromDomainError(err)
	}
	if err := validateProjectArea(input.ProjectAreaSqKm); err != nil {
		return nil, err
	}

	result, cacheHit, err := h.service.Project(ctx, formula, params)
	if err != nil {
		return nil, errors.FromDomainError(err)
	}

	metrics.ProjectionsComputed.WithLabelValues(string(formula), district.Name).Inc()
	metrics.ProjectionCapacityFactor.Observe(result.CapacityFactor)

	h.logger.Info("projection calculated", map[string]interface{}{
		"district":       district.Name,
		"formula":        string(formula),
		"capacityFactor": result.CapacityFactor,
		"roi":            result.ROI,
		"paybackBounded": result.Payback.Bounded(),
		"cacheHit":       cacheHit,
	})

	return &Output{
		District:              district.Name,
		Parameters:            params,
		Projection:            result,
		Summary:               result.Summary(),
		Costs:                 result.Costs(),
		BreakEvenYear:         result.BreakEvenYear(),
		PaybackWithinLifetime: result.Payback.Within(params.LifetimeYears),
		ProjectAreaSqKm:       input.ProjectAreaSqKm,
		CacheHit:              cacheHit,
	}, nil
}

func mergeParameters(p engine.ProjectParameters, in *Input) engine.ProjectParameters {
	if in.LifetimeYears != nil {
		p.LifetimeYears = int(math.Round(*in.LifetimeYears))
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.CapacityMW, in.CapacityMW)
	set(&p.AvgWindSpeed, in.AvgWindSpeed)
	set(&p.Turbulence, in.Turbulence)
	set(&p.TurbineCostLakhPerMW, in.TurbineCostLakhPerMW)
	set(&p.OMCostLakhPerMWYear, in.OMCostLakhPerMWYear)
	set(&p.TariffPerKWh, in.TariffPerKWh)
	return p
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := h.errs.HandleJobError(ctx, client, job, err)
	metrics.ObserveJob(TaskType, string(stdErr.Code), time.Since(start).Seconds())
}

func (h *Handler) GetTaskType() string {
	return TaskType
}
