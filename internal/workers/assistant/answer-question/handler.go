// internal/workers/assistant/answer-question/handler.go
package answerquestion

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"wind-workers/internal/common/errors"
	httpclient "wind-workers/internal/common/http"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType     = "answer-question"
	generatePath = "/api/ai/generate"
	noAnswerText = "I don't have enough information to answer that question."
)

type Handler struct {
	config *Config
	client *httpclient.Client
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
		client: httpclient.NewClient(config.Timeout).WithRetries(config.MaxRetries, config.RetryDelay),
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

// Execute relays the question with the current projection context to the GenAI
// endpoint. The engine never depends on this call.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, errors.NewInvalidParameterError("question", "question is required")
	}
	if h.config.MaxQuestionLen > 0 && len([]rune(question)) > h.config.MaxQuestionLen {
		return nil, errors.NewInvalidParameterError("question",
			fmt.Sprintf("question exceeds %d characters", h.config.MaxQuestionLen))
	}

	req := generateRequest{
		Prompt:      h.buildPrompt(question, input),
		Context:     h.buildContext(input),
		MaxTokens:   h.config.MaxTokens,
		Temperature: h.config.Temperature,
	}

	headers := map[string]string{}
	if h.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + h.config.APIKey
	}

	var resp generateResponse
	url := strings.TrimRight(h.config.GenAIBaseURL, "/") + generatePath
	if err := h.client.PostJSON(ctx, url, headers, req, &resp); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewAssistantTimeoutError(h.config.Timeout)
		}
		return nil, errors.NewAssistantFailedError(err)
	}

	if strings.TrimSpace(resp.Text) == "" {
		resp.Text = noAnswerText
		resp.Confidence = 0.1
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		resp.Confidence = 0.5
	}

	h.logger.Info("assistant answered", map[string]interface{}{
		"confidence":  resp.Confidence,
		"sourceCount": len(resp.Sources),
	})

	return &Output{
		Answer:     strings.TrimSpace(resp.Text),
		Confidence: resp.Confidence,
		Sources:    resp.Sources,
	}, nil
}

func (h *Handler) buildPrompt(question string, input *Input) string {
	parts := []string{
		"You are an assistant for a wind energy screening dashboard covering districts of Madhya Pradesh.",
		"Answer using the project context below when it is relevant.",
		fmt.Sprintf("\nUser Question: %s", question),
	}

	if input.District != "" {
		parts = append(parts, fmt.Sprintf("\nSelected District: %s", input.District))
	}
	if input.Summary != nil {
		parts = append(parts, "\nCurrent Projection:",
			fmt.Sprintf("- Capacity factor: %s", input.Summary.CapacityFactor),
			fmt.Sprintf("- Annual generation: %s", input.Summary.AnnualGeneration),
			fmt.Sprintf("- ROI: %s", input.Summary.ROI),
			fmt.Sprintf("- Payback: %s", input.Summary.Payback),
		)
	}

	parts = append(parts,
		"\nInstructions:",
		"- Keep the answer concise",
		"- Say so clearly if the context is insufficient",
		"\nAnswer:",
	)
	return strings.Join(parts, "\n")
}

func (h *Handler) buildContext(input *Input) map[string]interface{} {
	ctx := map[string]interface{}{}
	if input.District != "" {
		ctx["district"] = input.District
	}
	if input.Parameters != nil {
		ctx["parameters"] = input.Parameters
	}
	if input.Summary != nil {
		ctx["summary"] = input.Summary
	}
	if len(ctx) == 0 {
		return nil
	}
	return ctx
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
