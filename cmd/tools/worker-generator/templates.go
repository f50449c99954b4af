// cmd/tools/worker-generator/templates.go
package main

const handlerTemplate = `// internal/workers/{{ .Dir }}/{{ .ID }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"time"

	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "{{ .TaskType }}"

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

// Execute {{ .Description }}.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	// TODO: implement {{ .TaskType }}
	return &Output{}, nil
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
`

const configTemplate = `// internal/workers/{{ .Dir }}/{{ .ID }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ .TimeoutLiteral }},
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Dir }}/{{ .ID }}/models.go
package {{ .PackageName }}

type Input struct {
{{- $inputProps := parseSchema .InputSchema }}
{{- if $inputProps }}
{{ generateStructFields $inputProps }}
{{- end }}
}

type Output struct {
{{- $outputProps := parseSchema .OutputSchema }}
{{- if $outputProps }}
{{ generateStructFields $outputProps }}
{{- end }}
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"wind-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	h := NewHandler(nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.NotNil(t, out)
}
`

const readmeTemplate = `# {{ .Name }} Worker

{{ .Description }}

- **Task type**: ` + "`{{ .TaskType }}`" + `
- **Category**: {{ .Category }}
- **Status**: {{ .ImplementationStatus }}
- **Timeout**: {{ .Timeout }}
- **Retries**: {{ .Retries }}

## Input
{{- $inputProps := parseSchema .InputSchema }}
{{- if $inputProps }}
{{ range $prop, $details := $inputProps }}
- **{{ $prop }}** ({{ goTypeFromJSONType (index $details "type") }}){{ if index $details "description" }}: {{ index $details "description" }}{{ end }}
{{- end }}
{{- else }}
No input schema defined in registry.
{{- end }}

## Output
{{- $outputProps := parseSchema .OutputSchema }}
{{- if $outputProps }}
{{ range $prop, $details := $outputProps }}
- **{{ $prop }}** ({{ goTypeFromJSONType (index $details "type") }})
{{- end }}
{{- else }}
No output schema defined in registry.
{{- end }}

## Error Codes
{{- if .ErrorCodes }}
{{ range .ErrorCodes }}
- {{ . }}
{{- end }}
{{- else }}
No specific error codes defined.
{{- end }}

## Registration

` + "```go" + `
group.Start({{ .PackageName }}.TaskType, config.GetWorkerConfig(cfg, {{ .PackageName }}.TaskType),
	{{ .PackageName }}.NewHandler({{ .PackageName }}.LoadConfig(), log))
` + "```" + `

` + "```yaml" + `
workers:
  {{ .TaskType }}:
    enabled: true
    max_jobs_active: 5
    timeout: {{ .TimeoutMillis }}
` + "```" + `
`
