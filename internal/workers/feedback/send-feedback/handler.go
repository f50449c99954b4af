package sendfeedback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wind-workers/internal/common/config"
	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "send-feedback"

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
	SES          SESService
	SNS          SNSService
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.SES == nil {
		return nil, fmt.Errorf("%s requires an SES client", TaskType)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	h := &Handler{
		config: workerConfig,
		logger: loggerInstance,
		errs:   errors.NewErrorHandler(loggerInstance),
	}
	h.service = NewService(ServiceDependencies{
		SES:    opts.SES,
		SNS:    opts.SNS,
		Logger: loggerInstance,
	}, workerConfig)

	return h, nil
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
		return nil, errors.NewFeedbackValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
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
