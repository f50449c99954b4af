package sendfeedback

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"wind-workers/internal/common/aws"
	"wind-workers/internal/common/config"
	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSES struct {
	mock.Mock
}

func (m *MockSES) Send(ctx context.Context, email aws.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

type MockSNS struct {
	mock.Mock
}

func (m *MockSNS) Notify(ctx context.Context, topicARN, subject, message string, attrs map[string]string) (string, error) {
	args := m.Called(ctx, topicARN, subject, message, attrs)
	return args.String(0), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "wind-feedback",
		ElementId:          "Activity_SendFeedback",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.FromEmail = "noreply@windmp.example.com"
	cfg.Recipient = "team@windmp.example.com"
	return cfg
}

func validInput() *Input {
	return &Input{
		Name:     "Asha Verma",
		Email:    "asha@example.in",
		Message:  "The Ujjain numbers look low compared to NIWE data.",
		Category: "data",
		District: "Ujjain",
	}
}

func newHandler(t *testing.T, cfg *Config, ses SESService, sns SNSService) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Logger:       logger.NewTestLogger(t),
		SES:          ses,
		SNS:          sns,
	})
	require.NoError(t, err)
	return h
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) *errors.StandardError {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

func TestExecute_SendsEmail(t *testing.T) {
	ses := new(MockSES)
	ses.On("Send", mock.Anything, mock.MatchedBy(func(e aws.Email) bool {
		return e.From == "noreply@windmp.example.com" &&
			len(e.To) == 1 && e.To[0] == "team@windmp.example.com" &&
			e.ReplyTo[0] == "asha@example.in" &&
			e.Subject == "[Wind Dashboard Feedback] from Asha Verma" &&
			strings.Contains(e.Body, "Category: data") &&
			strings.Contains(e.Body, "District: Ujjain") &&
			strings.Contains(e.Body, "NIWE data.")
	})).Return("ses-123", nil)

	h := newHandler(t, testConfig(), ses, nil)
	out, err := h.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, out.Delivered)
	assert.Equal(t, "ses-123", out.EmailMessageID)
	assert.Len(t, out.FeedbackID, 36)
	assert.Empty(t, out.NotificationID)
	assert.False(t, out.SentAt.IsZero())
	ses.AssertExpectations(t)
}

func TestExecute_CustomSubject(t *testing.T) {
	ses := new(MockSES)
	ses.On("Send", mock.Anything, mock.MatchedBy(func(e aws.Email) bool {
		return e.Subject == "[Wind Dashboard Feedback] Chart labels"
	})).Return("ses-1", nil)

	input := validInput()
	input.Subject = "  Chart labels "
	_, err := newHandler(t, testConfig(), ses, nil).Execute(context.Background(), input)
	require.NoError(t, err)
	ses.AssertExpectations(t)
}

func TestExecute_PublishesNotification(t *testing.T) {
	cfg := testConfig()
	cfg.SNSTopicARN = "arn:aws:sns:ap-south-1:123456789012:wind-feedback"

	ses := new(MockSES)
	ses.On("Send", mock.Anything, mock.Anything).Return("ses-1", nil)
	sns := new(MockSNS)
	sns.On("Notify", mock.Anything, cfg.SNSTopicARN, mock.Anything, mock.Anything,
		mock.MatchedBy(func(attrs map[string]string) bool {
			return attrs["category"] == "data" && attrs["feedbackId"] != ""
		})).Return("sns-1", nil)

	out, err := newHandler(t, cfg, ses, sns).Execute(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "sns-1", out.NotificationID)
	sns.AssertExpectations(t)
}

func TestExecute_NotificationFailureDoesNotFailDelivery(t *testing.T) {
	cfg := testConfig()
	cfg.SNSTopicARN = "arn:aws:sns:ap-south-1:123456789012:wind-feedback"

	ses := new(MockSES)
	ses.On("Send", mock.Anything, mock.Anything).Return("ses-1", nil)
	sns := new(MockSNS)
	sns.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", stderrors.New("throttled"))

	out, err := newHandler(t, cfg, ses, sns).Execute(context.Background(), validInput())
	require.NoError(t, err)
	assert.True(t, out.Delivered)
	assert.Empty(t, out.NotificationID)
}

func TestExecute_SESFailureIsRetryable(t *testing.T) {
	ses := new(MockSES)
	ses.On("Send", mock.Anything, mock.Anything).Return("", stderrors.New("service unavailable"))

	_, err := newHandler(t, testConfig(), ses, nil).Execute(context.Background(), validInput())
	stdErr := requireCode(t, err, errors.ErrCodeFeedbackSendFailed)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, 3, errors.ConvertToBPMNError(stdErr).Retries)
}

func TestExecute_ValidationFailures(t *testing.T) {
	cfg := testConfig()
	cfg.MaxMessageLen = 20

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"blank name", func(in *Input) { in.Name = "   " }},
		{"email without domain suffix", func(in *Input) { in.Email = "asha@example" }},
		{"email without at sign", func(in *Input) { in.Email = "asha.example.in" }},
		{"blank message", func(in *Input) { in.Message = "\n\t" }},
		{"message too long", func(in *Input) { in.Message = strings.Repeat("x", 21) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ses := new(MockSES)
			input := validInput()
			tt.mutate(input)

			_, err := newHandler(t, cfg, ses, nil).Execute(context.Background(), input)
			stdErr := requireCode(t, err, errors.ErrCodeFeedbackValidationFailed)
			assert.False(t, stdErr.Retryable)
			ses.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestParseInput(t *testing.T) {
	h := newHandler(t, testConfig(), new(MockSES), nil)

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{
		"name":    "Asha",
		"email":   "asha@example.in",
		"message": "hello",
		"extra":   true,
	}))
	require.NoError(t, err)
	assert.Equal(t, "Asha", input.Name)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{"name": "Asha", "email": "asha@example.in"}))
	stdErr := requireCode(t, err, errors.ErrCodeFeedbackValidationFailed)
	assert.Contains(t, stdErr.Details, "message")

	_, err = h.parseInput(createMockJob(3, map[string]interface{}{
		"name": "Asha", "email": "asha@example.in", "message": "hi", "category": "spam",
	}))
	requireCode(t, err, errors.ErrCodeFeedbackValidationFailed)
}

func TestNewHandler_Configuration(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: testConfig(), Logger: logger.NewNoOpLogger()})
	assert.Error(t, err, "SES client is required")

	cfg := testConfig()
	cfg.Recipient = "not-an-address"
	_, err = NewHandler(HandlerOptions{CustomConfig: cfg, Logger: logger.NewNoOpLogger(), SES: new(MockSES)})
	assert.Error(t, err)
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		Feedback: config.FeedbackConfig{Recipient: "team@windmp.example.com", SubjectPrefix: "[WF]", MaxMessageLen: 900},
	}
	appCfg.Integrations.AWS.SES.FromEmail = "noreply@windmp.example.com"
	appCfg.Integrations.AWS.SNS.Enabled = true
	appCfg.Integrations.AWS.SNS.TopicARN = "arn:aws:sns:ap-south-1:1:t"

	cfg := createConfigFromAppConfig(appCfg, nil)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "[WF]", cfg.SubjectPrefix)
	assert.Equal(t, 900, cfg.MaxMessageLen)
	assert.Equal(t, "arn:aws:sns:ap-south-1:1:t", cfg.SNSTopicARN)
	assert.True(t, cfg.Enabled)
}
