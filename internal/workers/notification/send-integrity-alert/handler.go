// internal/workers/notification/send-integrity-alert/handler.go
package sendintegrityalert

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"checklist-audit-workers/internal/common/errors"
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/metrics"
	"checklist-audit-workers/internal/common/observability"
	"checklist-audit-workers/internal/common/validation"
	"checklist-audit-workers/internal/integrity"
)

const TaskType = "send-integrity-alert"

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config       *Config
	sesClient    SESService
	snsClient    SNSService
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
		sesClient:    deps.SES,
		snsClient:    deps.SNS,
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
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{
		NotificationID: uuid.New().String(),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	output.Reasons = h.reasons(input)
	switch {
	case len(output.Reasons) == 0:
		output.Status = StatusSkipped
	case !h.config.Enabled:
		output.Status = StatusDisabled
	case !h.config.HasRecipients():
		return nil, errors.NewAlertRecipientMissingError()
	default:
		output.Status = h.deliver(ctx, input, output.Reasons)
	}

	metrics.IntegrityAlerts.WithLabelValues(output.Status).Inc()
	h.logger.Info("integrity alert processed", map[string]interface{}{
		"listId":         input.ListID,
		"listName":       input.ListName,
		"status":         output.Status,
		"reasons":        output.Reasons,
		"notificationId": output.NotificationID,
	})
	return output, nil
}

// reasons lists why the list needs a reviewer. Empty means no alert.
func (h *Handler) reasons(input *Input) []string {
	var out []string
	if input.IntegrityScore != nil && *input.IntegrityScore < h.config.ScoreThreshold {
		out = append(out, fmt.Sprintf("integrity score %d%% is below %d%%", *input.IntegrityScore, h.config.ScoreThreshold))
	}
	switch input.SanitizerStatus {
	case integrity.SanitizerExpired:
		out = append(out, "sanitizer solution has expired")
	case integrity.SanitizerExpiring:
		out = append(out, "sanitizer solution expires today")
	}
	return out
}

// deliver sends the email then the topic message. A delivery failure is
// reported in the status and does not fail the job.
func (h *Handler) deliver(ctx context.Context, input *Input, reasons []string) string {
	subject, body := renderAlert(input, reasons)

	if len(h.config.ReviewerEmails) > 0 {
		if err := h.sendEmail(ctx, subject, body); err != nil {
			h.logger.Error("alert email failed", map[string]interface{}{
				"error": errors.NewAlertSendFailedError("ses", err),
			})
			return StatusFailed
		}
	}

	if h.config.SNSTopicARN != "" {
		if err := h.publish(ctx, subject, body); err != nil {
			h.logger.Error("alert publish failed", map[string]interface{}{
				"error":    errors.NewAlertSendFailedError("sns", err),
				"topicArn": h.config.SNSTopicARN,
			})
			return StatusFailed
		}
	}
	return StatusSent
}

func (h *Handler) sendEmail(ctx context.Context, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: h.config.ReviewerEmails,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) publish(ctx context.Context, subject, body string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.SNSTopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	return err
}

func renderAlert(input *Input, reasons []string) (string, string) {
	location := input.LocationName
	if location == "" {
		location = "unknown location"
	}
	subject := fmt.Sprintf("Checklist review needed: %s (%s)", input.ListName, location)

	score := "not scored"
	if input.IntegrityScore != nil {
		score = fmt.Sprintf("%d%%", *input.IntegrityScore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Location: %s\n", location)
	fmt.Fprintf(&b, "List: %s\n", input.ListName)
	fmt.Fprintf(&b, "Integrity score: %s\n", score)
	if input.SanitizerStatus != "" {
		fmt.Fprintf(&b, "Sanitizer: %s\n", input.SanitizerStatus)
	}
	b.WriteString("\nReasons:\n")
	for _, r := range reasons {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	if len(input.Issues) > 0 {
		b.WriteString("\nIssues:\n")
		for _, issue := range input.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}
	return subject, b.String()
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
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJob(context.Background(), TaskType, "failed", time.Since(start))
	h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
}
