// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used here; tests substitute a mock.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email is a plain-text message.
type Email struct {
	From    string
	To      []string
	ReplyTo []string
	Subject string
	Body    string
}

type SESClient struct {
	client SESAPI
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

func NewSESClientWithAPI(api SESAPI) *SESClient {
	return &SESClient{client: api}
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input)
}

// Send delivers a text email and returns the SES message id.
func (s *SESClient) Send(ctx context.Context, email Email) (string, error) {
	if email.From == "" || len(email.To) == 0 {
		return "", fmt.Errorf("ses: sender and at least one recipient are required")
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:           aws.String(email.From),
		Destination:      &types.Destination{ToAddresses: email.To},
		ReplyToAddresses: email.ReplyTo,
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(email.Body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
