package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// JobRecorder receives one outcome per handled job.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string)
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Instrument wraps handler so every job reports its duration and whether the handler
// completed it or failed it.
func Instrument(taskType string, handler JobHandler, rec JobRecorder) JobHandler {
	return &instrumentedHandler{taskType: taskType, next: handler, rec: rec}
}

type instrumentedHandler struct {
	taskType string
	next     JobHandler
	rec      JobRecorder
}

func (h *instrumentedHandler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	tracked := &outcomeJobClient{JobClient: client}

	h.next.Handle(tracked, job)

	status := StatusCompleted
	if tracked.failed {
		status = StatusFailed
	}
	ctx := context.Background()
	h.rec.RecordJobProcessed(ctx, h.taskType, status)
	h.rec.RecordJobDuration(ctx, h.taskType, time.Since(start), status)
}

// outcomeJobClient notes whether a fail or throw-error command was built.
type outcomeJobClient struct {
	worker.JobClient
	failed bool
}

func (c *outcomeJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.failed = true
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.failed = true
	return c.JobClient.NewThrowErrorCommand()
}
