// internal/workers/notification/send-integrity-alert/handler_test.go
package sendintegrityalert

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklist-audit-workers/internal/common/config"
	"checklist-audit-workers/internal/common/errors"
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/validation"
	"checklist-audit-workers/pkg/registry"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         int
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls++
	if m.SendEmailFunc == nil {
		return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
	}
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       int
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls++
	if m.PublishFunc == nil {
		return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
	}
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Enabled:        true,
		FromEmail:      "audits@example.com",
		ReviewerEmails: []string{"reviewer@example.com"},
		SNSTopicARN:    "arn:aws:sns:us-east-1:000000000000:integrity-alerts",
		ScoreThreshold: 60,
		Timeout:        30 * time.Second,
	}
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "daily-food-safety-audit",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_SendIntegrityAlert",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func newTestHandler(t *testing.T, cfg *Config, sesMock *MockSESService, snsMock *MockSNSService) *Handler {
	reg, err := registry.Default()
	require.NoError(t, err)
	v, err := validation.NewValidator(reg)
	require.NoError(t, err)

	return NewHandler(cfg, Dependencies{
		SES:       sesMock,
		SNS:       snsMock,
		Validator: v,
		Logger:    logger.NewTestLogger(t),
	})
}

func score(v int) *int { return &v }

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsBelowThreshold(t *testing.T) {
	var email *ses.SendEmailInput
	var message *sns.PublishInput
	sesMock := &MockSESService{SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		email = params
		return &ses.SendEmailOutput{}, nil
	}}
	snsMock := &MockSNSService{PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
		message = params
		return &sns.PublishOutput{}, nil
	}}
	handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

	output, err := handler.execute(context.Background(), &Input{
		LocationName:    "Store 101",
		ListName:        "DFSL Daypart 3",
		IntegrityScore:  score(45),
		Issues:          []string{"Full List < 5 mins", "Fast Entry (> 50% in 3s)"},
		SanitizerStatus: "OK",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.NotEmpty(t, output.NotificationID)
	_, err = time.Parse(time.RFC3339, output.SentAt)
	assert.NoError(t, err)
	assert.Equal(t, []string{"integrity score 45% is below 60%"}, output.Reasons)

	require.NotNil(t, email)
	assert.Equal(t, "audits@example.com", aws.ToString(email.Source))
	assert.Equal(t, []string{"reviewer@example.com"}, email.Destination.ToAddresses)
	assert.Equal(t, "Checklist review needed: DFSL Daypart 3 (Store 101)", aws.ToString(email.Message.Subject.Data))
	assert.Contains(t, aws.ToString(email.Message.Body.Text.Data), "Integrity score: 45%")
	assert.Contains(t, aws.ToString(email.Message.Body.Text.Data), "- Fast Entry (> 50% in 3s)")

	require.NotNil(t, message)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:integrity-alerts", aws.ToString(message.TopicArn))
	assert.Equal(t, aws.ToString(email.Message.Body.Text.Data), aws.ToString(message.Message))
}

func TestHandler_Execute_Statuses(t *testing.T) {
	tests := []struct {
		name        string
		config      func(c *Config)
		input       *Input
		wantStatus  string
		wantReasons []string
		wantSES     int
		wantSNS     int
	}{
		{
			name:       "healthy list is skipped",
			input:      &Input{ListName: "DFSL Daypart 1", IntegrityScore: score(90), SanitizerStatus: "OK"},
			wantStatus: StatusSkipped,
		},
		{
			name:       "threshold is exclusive",
			input:      &Input{ListName: "DFSL Daypart 1", IntegrityScore: score(60)},
			wantStatus: StatusSkipped,
		},
		{
			name:       "unscored list without sanitizer problem is skipped",
			input:      &Input{ListName: "Opening", SanitizerStatus: "Warning"},
			wantStatus: StatusSkipped,
		},
		{
			name:        "expiring sanitizer alerts without a score",
			input:       &Input{ListName: "Opening", SanitizerStatus: "Expiring"},
			wantStatus:  StatusSent,
			wantReasons: []string{"sanitizer solution expires today"},
			wantSES:     1,
			wantSNS:     1,
		},
		{
			name:        "both reasons are reported",
			input:       &Input{ListName: "DFSL Daypart 5", IntegrityScore: score(20), SanitizerStatus: "EXPIRED"},
			wantStatus:  StatusSent,
			wantReasons: []string{"integrity score 20% is below 60%", "sanitizer solution has expired"},
			wantSES:     1,
			wantSNS:     1,
		},
		{
			name:        "disabled alerts send nothing",
			config:      func(c *Config) { c.Enabled = false },
			input:       &Input{ListName: "DFSL Daypart 5", IntegrityScore: score(20)},
			wantStatus:  StatusDisabled,
			wantReasons: []string{"integrity score 20% is below 60%"},
		},
		{
			name:        "topic only",
			config:      func(c *Config) { c.ReviewerEmails = nil },
			input:       &Input{ListName: "DFSL Daypart 5", IntegrityScore: score(20)},
			wantStatus:  StatusSent,
			wantReasons: []string{"integrity score 20% is below 60%"},
			wantSNS:     1,
		},
		{
			name:        "custom threshold",
			config:      func(c *Config) { c.ScoreThreshold = 80 },
			input:       &Input{ListName: "DFSL Daypart 5", IntegrityScore: score(70)},
			wantStatus:  StatusSent,
			wantReasons: []string{"integrity score 70% is below 80%"},
			wantSES:     1,
			wantSNS:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			if tt.config != nil {
				tt.config(cfg)
			}
			sesMock, snsMock := &MockSESService{}, &MockSNSService{}
			handler := newTestHandler(t, cfg, sesMock, snsMock)

			output, err := handler.execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, output.Status)
			assert.Equal(t, tt.wantReasons, output.Reasons)
			assert.Equal(t, tt.wantSES, sesMock.calls)
			assert.Equal(t, tt.wantSNS, snsMock.calls)
		})
	}
}

func TestHandler_Execute_DeliveryFailure(t *testing.T) {
	t.Run("email failure stops delivery", func(t *testing.T) {
		sesMock := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, stderrors.New("MessageRejected: Email address is not verified")
		}}
		snsMock := &MockSNSService{}
		handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

		output, err := handler.execute(context.Background(), &Input{ListName: "DFSL Daypart 3", IntegrityScore: score(10)})
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, output.Status)
		assert.Equal(t, 0, snsMock.calls)
	})

	t.Run("publish failure", func(t *testing.T) {
		sesMock := &MockSESService{}
		snsMock := &MockSNSService{PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, stderrors.New("AuthorizationError")
		}}
		handler := newTestHandler(t, createTestConfig(), sesMock, snsMock)

		output, err := handler.execute(context.Background(), &Input{ListName: "DFSL Daypart 3", IntegrityScore: score(10)})
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, output.Status)
		assert.Equal(t, 1, sesMock.calls)
	})
}

func TestHandler_Execute_NoRecipients(t *testing.T) {
	cfg := createTestConfig()
	cfg.ReviewerEmails = nil
	cfg.SNSTopicARN = ""
	handler := newTestHandler(t, cfg, &MockSESService{}, &MockSNSService{})

	_, err := handler.execute(context.Background(), &Input{ListName: "DFSL Daypart 3", SanitizerStatus: "EXPIRED"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAlertRecipientMissing))
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.False(t, stdErr.Retryable)

	output, err := handler.execute(context.Background(), &Input{ListName: "DFSL Daypart 3", SanitizerStatus: "OK"})
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, output.Status)
}

func TestHandler_ParseInput(t *testing.T) {
	handler := newTestHandler(t, createTestConfig(), &MockSESService{}, &MockSNSService{})

	input, err := handler.parseInput(createMockJob(1, map[string]interface{}{
		"locationName":    "Store 101",
		"listName":        "DFSL Daypart 3",
		"integrityScore":  nil,
		"issues":          []string{"Full List < 5 mins"},
		"sanitizerStatus": "Expiring",
	}))
	require.NoError(t, err)
	assert.Nil(t, input.IntegrityScore)
	assert.Equal(t, "Expiring", input.SanitizerStatus)

	_, err = handler.parseInput(createMockJob(2, map[string]interface{}{
		"listName":        "DFSL Daypart 3",
		"sanitizerStatus": "expired",
	}))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeChecklistSchemaInvalid))
}

func TestConfig(t *testing.T) {
	cfg := ConfigFrom(config.AlertsConfig{
		Enabled:        true,
		FromEmail:      "audits@example.com",
		ReviewerEmails: []string{"a@example.com"},
	})
	assert.Equal(t, 60, cfg.ScoreThreshold)
	assert.True(t, cfg.HasRecipients())
	assert.NoError(t, cfg.Validate())

	cfg.FromEmail = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ScoreThreshold = 120
	assert.Error(t, cfg.Validate())
	assert.False(t, DefaultConfig().HasRecipients())
}
