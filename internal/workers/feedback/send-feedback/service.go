package sendfeedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wind-workers/internal/common/aws"
	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/metrics"
	"wind-workers/internal/common/validation"

	"github.com/google/uuid"
)

// SESService is satisfied by aws.SESClient.
type SESService interface {
	Send(ctx context.Context, email aws.Email) (string, error)
}

// SNSService is satisfied by aws.SNSClient.
type SNSService interface {
	Notify(ctx context.Context, topicARN, subject, message string, attrs map[string]string) (string, error)
}

type ServiceDependencies struct {
	SES    SESService
	SNS    SNSService // optional
	Logger logger.Logger
}

type Service struct {
	config *Config
	ses    SESService
	sns    SNSService
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		ses:    deps.SES,
		sns:    deps.SNS,
		logger: deps.Logger,
		now:    time.Now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	feedbackID := uuid.NewString()
	subject := s.subject(input)
	body := s.body(feedbackID, input)

	messageID, err := s.ses.Send(ctx, aws.Email{
		From:    s.config.FromEmail,
		To:      []string{s.config.Recipient},
		ReplyTo: []string{strings.TrimSpace(input.Email)},
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return nil, errors.NewFeedbackSendFailedError("ses", err)
	}
	metrics.FeedbackDelivered.WithLabelValues("ses").Inc()

	output := &Output{
		FeedbackID:     feedbackID,
		Delivered:      true,
		EmailMessageID: messageID,
		SentAt:         s.now().UTC(),
	}

	// The email is the delivery of record; a failed notification is only logged.
	if s.sns != nil && s.config.SNSTopicARN != "" {
		notificationID, err := s.sns.Notify(ctx, s.config.SNSTopicARN, subject, body, map[string]string{
			"feedbackId": feedbackID,
			"category":   categoryOrDefault(input.Category),
		})
		if err != nil {
			s.logger.Warn("feedback notification failed", map[string]interface{}{
				"feedbackId": feedbackID,
				"error":      err,
			})
		} else {
			output.NotificationID = notificationID
			metrics.FeedbackDelivered.WithLabelValues("sns").Inc()
		}
	}

	s.logger.Info("feedback delivered", map[string]interface{}{
		"feedbackId": feedbackID,
		"messageId":  messageID,
		"category":   categoryOrDefault(input.Category),
	})

	return output, nil
}

func (s *Service) validate(input *Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.NewFeedbackValidationFailedError("name is required")
	}
	if !validation.ValidateEmail(strings.TrimSpace(input.Email)) {
		return errors.NewFeedbackValidationFailedError(fmt.Sprintf("invalid email address: %q", input.Email))
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return errors.NewFeedbackValidationFailedError("message is required")
	}
	if n := len([]rune(message)); n > s.config.MaxMessageLen {
		return errors.NewFeedbackValidationFailedError(
			fmt.Sprintf("message is %d characters, limit is %d", n, s.config.MaxMessageLen))
	}
	return nil
}

func (s *Service) subject(input *Input) string {
	if subj := strings.TrimSpace(input.Subject); subj != "" {
		return s.config.SubjectPrefix + " " + subj
	}
	return fmt.Sprintf("%s from %s", s.config.SubjectPrefix, strings.TrimSpace(input.Name))
}

func (s *Service) body(feedbackID string, input *Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feedback ID: %s\n", feedbackID)
	fmt.Fprintf(&b, "Name: %s\n", strings.TrimSpace(input.Name))
	fmt.Fprintf(&b, "Email: %s\n", strings.TrimSpace(input.Email))
	fmt.Fprintf(&b, "Category: %s\n", categoryOrDefault(input.Category))
	if input.District != "" {
		fmt.Fprintf(&b, "District: %s\n", input.District)
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(input.Message))
	b.WriteString("\n")
	return b.String()
}

func categoryOrDefault(c string) string {
	if c == "" {
		return "general"
	}
	return c
}
