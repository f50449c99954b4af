// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"wind-workers/internal/common/config"
	"wind-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Job outcomes reported to the recorder.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusThrown    = "bpmn_error"
	StatusDropped   = "dropped" // handler returned without issuing a command
)

// JobHandler is implemented by every worker handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// WorkerOpener is the part of zbc.Client needed to open job workers.
type WorkerOpener interface {
	NewJobWorker() worker.JobWorkerBuilderStep1
}

// WorkerGroup opens job workers for registered task types and closes them together.
type WorkerGroup struct {
	client   WorkerOpener
	log      logger.Logger
	recorder func(taskType string) func(ctx context.Context, status string, d time.Duration)
	mu       sync.Mutex
	workers  map[string]worker.JobWorker
}

func NewWorkerGroup(client WorkerOpener, log logger.Logger) *WorkerGroup {
	return &WorkerGroup{
		client:  client,
		log:     log,
		workers: make(map[string]worker.JobWorker),
	}
}

// WithRecorder wraps every handler started afterwards so that job durations are
// reported to the recorder built for its task type.
func (g *WorkerGroup) WithRecorder(recorder func(taskType string) func(ctx context.Context, status string, d time.Duration)) *WorkerGroup {
	g.recorder = recorder
	return g
}

// Start opens a worker for taskType unless it is disabled. It returns false when
// the worker was skipped.
func (g *WorkerGroup) Start(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		g.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.workers[taskType]; exists {
		g.log.Warn("worker already started", map[string]interface{}{"taskType": taskType})
		return false
	}

	handle := handler.Handle
	if g.recorder != nil {
		handle = recordOutcome(handler, g.recorder(taskType))
	}

	jw := g.client.NewJobWorker().
		JobType(taskType).
		Handler(handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	g.workers[taskType] = jw

	g.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

func (g *WorkerGroup) TaskTypes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	types := make([]string, 0, len(g.workers))
	for t := range g.workers {
		types = append(types, t)
	}
	return types
}

// Close stops polling on every worker and waits for in-flight handlers.
func (g *WorkerGroup) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for taskType, jw := range g.workers {
		jw.Close()
		jw.AwaitClose()
		g.log.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	g.workers = make(map[string]worker.JobWorker)
}

// outcomeClient remembers the last command a handler created for its job.
type outcomeClient struct {
	worker.JobClient
	status string
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.status = StatusCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.status = StatusFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.status = StatusThrown
	return c.JobClient.NewThrowErrorCommand()
}

func recordOutcome(handler JobHandler, record func(ctx context.Context, status string, d time.Duration)) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		oc := &outcomeClient{JobClient: client, status: StatusDropped}
		handler.Handle(oc, job)
		record(context.Background(), oc.status, time.Since(start))
	}
}
