// internal/workers/audit/build-store-grid/handler.go
package buildstoregrid

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"checklist-audit-workers/internal/common/errors"
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/metrics"
	"checklist-audit-workers/internal/common/observability"
	"checklist-audit-workers/internal/common/validation"
	"checklist-audit-workers/internal/integrity"
)

const TaskType = "build-store-grid"

type Handler struct {
	config       *Config
	engine       *integrity.Engine
	validator    *validation.Validator
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, deps Dependencies) *Handler {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	log := deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       deps.Engine,
		validator:    deps.Validator,
		obs:          deps.Observability,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	h.completeJob(client, job, output, len(input.Lists), start)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if err := h.validator.ValidateJSON(TaskType, job.Variables); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewChecklistParseFailedError(err)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if ctx.Err() != nil {
		return nil, errors.NewAuditTimeoutError(input.LocationID)
	}

	done := make(chan StoreGridRow, 1)
	go func() {
		done <- BuildRow(h.engine, input.LocationID, input.LocationName, input.Lists)
	}()

	select {
	case row := <-done:
		metrics.SanitizerStatus.WithLabelValues(row.Sanitizer).Inc()
		h.logger.Info("store grid row built", map[string]interface{}{
			"locationId": input.LocationID,
			"lists":      len(input.Lists),
			"dp1":        row.DP1.Status,
			"dp3":        row.DP3.Status,
			"dp5":        row.DP5.Status,
			"sanitizer":  row.Sanitizer,
		})
		return &Output{Row: row}, nil
	case <-ctx.Done():
		return nil, errors.NewAuditTimeoutError(input.LocationID)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, lists int, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		h.failJob(client, job, errors.NewExternalServiceError("zeebe", err), start)
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJob(context.Background(), TaskType, "completed", time.Since(start))
	h.obs.RecordListsAudited(context.Background(), TaskType, lists)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJob(context.Background(), TaskType, "failed", time.Since(start))
	h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
}
