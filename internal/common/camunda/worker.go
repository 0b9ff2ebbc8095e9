// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"checklist-audit-workers/internal/common/config"
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/metrics"
)

// CamundaWorker is one open job worker for a task type.
type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. Every job is timed and counted
// in the worker metrics before and after handle runs.
func NewWorker(
	client zbc.Client,
	taskType string,
	cfg config.WorkerConfig,
	handle worker.JobHandler,
	log logger.Logger,
) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handle)).
		MaxJobsActive(cfg.MaxJobsActive).
		Name(taskType + "-worker")
	if cfg.Timeout > 0 {
		// Activation timeout leaves headroom over the handler's own deadline.
		builder = builder.Timeout(2 * config.GetDuration(cfg.Timeout))
	}

	w := &CamundaWorker{
		worker:   builder.Open(),
		logger:   log,
		taskType: taskType,
	}
	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": cfg.MaxJobsActive,
		"timeoutMs":     cfg.Timeout,
	})
	return w
}

func instrument(taskType string, handle worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		start := time.Now()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		}()
		handle(client, job)
	}
}

// TaskType returns the job type this worker subscribes to.
func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Stop closes the job subscription and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
