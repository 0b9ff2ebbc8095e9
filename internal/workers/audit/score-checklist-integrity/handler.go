// internal/workers/audit/score-checklist-integrity/handler.go
package scorechecklistintegrity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"checklist-audit-workers/internal/common/errors"
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/metrics"
	"checklist-audit-workers/internal/common/observability"
	"checklist-audit-workers/internal/common/validation"
	"checklist-audit-workers/internal/integrity"
	"checklist-audit-workers/internal/models"
)

const (
	TaskType = "score-checklist-integrity"

	cacheKeyPrefix = "integrity:audit:"
)

// Cache is the audit result store. Implemented by database.JSONCache.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Handler struct {
	config       *Config
	engine       *integrity.Engine
	cache        Cache
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
		cache:        deps.Cache,
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

	h.completeJob(client, job, output, start)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if err := h.validator.ValidateJSON(TaskType, job.Variables); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewChecklistParseFailedError(err)
	}
	if input.ListInstance == nil {
		return nil, errors.NewChecklistSchemaInvalidError([]string{"listInstance: is required"})
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	list := input.ListInstance
	if ctx.Err() != nil {
		return nil, errors.NewAuditTimeoutError(list.ID)
	}

	key, keyErr := h.cacheKey(input)
	if keyErr == nil {
		if cached, ok := h.lookup(ctx, key); ok {
			// The verdict is reused; the audit itself is new.
			cached.AuditID = uuid.New().String()
			cached.LocationID = input.LocationID
			cached.AuditedAt = h.engine.Now().UTC().Format(time.RFC3339)
			cached.Cached = true
			h.record(cached)
			return cached, nil
		}
	}

	done := make(chan *Output, 1)
	go func() {
		done <- h.audit(input)
	}()

	var output *Output
	select {
	case output = <-done:
	case <-ctx.Done():
		return nil, errors.NewAuditTimeoutError(list.ID)
	}

	if keyErr == nil {
		h.store(ctx, key, output)
	}
	h.record(output)

	h.logger.Info("checklist audited", map[string]interface{}{
		"listId":    output.ListID,
		"listName":  output.ListName,
		"scored":    output.Scored,
		"band":      output.IntegrityBand,
		"issues":    len(output.Issues),
		"sanitizer": output.SanitizerStatus,
	})
	return output, nil
}

// audit runs the engine. A caller-supplied duration replaces the span
// derived from completion timestamps for the list-duration rule.
func (h *Handler) audit(input *Input) *Output {
	list := input.ListInstance
	a := h.engine.Audit(list)

	durationSeconds := a.Duration.Seconds
	if input.DurationSeconds != nil {
		durationSeconds = input.DurationSeconds
		if a.Scored {
			a.Integrity = h.engine.Score(list.ItemResults, a.ListName, durationSeconds)
			a.Band = h.engine.Band(a.Integrity.Score)
		}
	}

	return &Output{
		AuditID:          uuid.New().String(),
		LocationID:       input.LocationID,
		ListID:           a.ListID,
		ListName:         a.ListName,
		ListStatus:       a.Status,
		DurationText:     a.Duration.Text,
		DurationSeconds:  durationSeconds,
		Expiration:       a.Expiration,
		SanitizerStatus:  a.SanitizerStatus,
		TemperatureStats: a.Temperatures,
		Scored:           a.Scored,
		IntegrityScore:   a.Integrity.Score,
		IntegrityBand:    a.Band,
		Issues:           a.Integrity.Issues,
		Findings:         a.Integrity.Findings,
		SubLists:         a.SubLists,
		AuditedAt:        h.engine.Now().UTC().Format(time.RFC3339),
	}
}

// cacheKey hashes the list together with the audit day and the duration
// override, since expiration levels roll over at local midnight.
func (h *Handler) cacheKey(input *Input) (string, error) {
	payload, err := json.Marshal(struct {
		Day             string               `json:"day"`
		DurationSeconds *int64               `json:"durationSeconds"`
		List            *models.ListInstance `json:"list"`
	}{
		Day:             h.engine.Now().Format("2006-01-02"),
		DurationSeconds: input.DurationSeconds,
		List:            input.ListInstance,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s%s:%s", cacheKeyPrefix, input.ListInstance.ID, hex.EncodeToString(sum[:])), nil
}

// lookup consults the cache. Read failures degrade to a miss.
func (h *Handler) lookup(ctx context.Context, key string) (*Output, bool) {
	if h.cache == nil {
		return nil, false
	}
	var cached Output
	found, err := h.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.AuditCacheRequests.WithLabelValues("error").Inc()
		h.logger.Warn("audit cache read failed", map[string]interface{}{"key": key, "error": err})
		return nil, false
	case !found:
		metrics.AuditCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	default:
		metrics.AuditCacheRequests.WithLabelValues("hit").Inc()
		return &cached, true
	}
}

// store caches complete lists only; the status of an open list depends on
// the wall clock.
func (h *Handler) store(ctx context.Context, key string, output *Output) {
	if h.cache == nil || output.ListStatus != models.ListStatusComplete {
		return
	}
	if err := h.cache.Set(ctx, key, output, h.config.CacheTTL); err != nil {
		h.logger.Warn("audit cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func (h *Handler) record(output *Output) {
	metrics.SanitizerStatus.WithLabelValues(output.SanitizerStatus).Inc()
	metrics.IntegrityBands.WithLabelValues(output.IntegrityBand).Inc()
	if output.IntegrityScore != nil {
		metrics.IntegrityScore.Observe(float64(*output.IntegrityScore))
	}
	for _, f := range output.Findings {
		metrics.IntegrityIssues.WithLabelValues(f.Code).Inc()
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
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
	h.obs.RecordListsAudited(context.Background(), TaskType, 1)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJob(context.Background(), TaskType, "failed", time.Since(start))
	h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
}
