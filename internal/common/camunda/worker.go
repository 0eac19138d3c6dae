// internal/common/camunda/worker.go
package camunda

import (
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"aucta-logistics/internal/common/logger"
)

const (
	defaultMaxJobsActive = 5
	defaultJobTimeout    = 60 * time.Second
)

// WorkerOptions configures one job worker registration.
type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	Handler       worker.JobHandler
}

func (o *WorkerOptions) applyDefaults() {
	if o.MaxJobsActive <= 0 {
		o.MaxJobsActive = defaultMaxJobsActive
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultJobTimeout
	}
}

// Worker is one registered Zeebe job worker. The gateway client stays
// owned by the caller; closing the worker never closes the client.
type Worker struct {
	worker   worker.JobWorker
	log      logger.Logger
	taskType string
}

// NewWorker opens a job worker for the task type on this gateway client.
func (c *Client) NewWorker(opts WorkerOptions, log logger.Logger) *Worker {
	opts.applyDefaults()

	jobWorker := c.client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(opts.Handler).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Name(fmt.Sprintf("%s-worker", opts.TaskType)).
		Open()

	log.Info("Worker registered with Camunda", map[string]interface{}{
		"taskType":      opts.TaskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})

	return &Worker{
		worker:   jobWorker,
		log:      log,
		taskType: opts.TaskType,
	}
}

// TaskType returns the task type the worker polls for.
func (w *Worker) TaskType() string {
	return w.taskType
}

// Close stops job polling and waits for in-flight handlers to finish.
func (w *Worker) Close() {
	w.log.Info("Shutting down worker gracefully", map[string]interface{}{
		"taskType": w.taskType,
	})
	w.worker.Close()
	w.worker.AwaitClose()
}
