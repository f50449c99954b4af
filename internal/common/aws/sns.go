// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client SNSAPI
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

func NewSNSClientWithAPI(api SNSAPI) *SNSClient {
	return &SNSClient{client: api}
}

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input)
}

// Notify publishes a message to topicARN with string attributes and returns the message id.
func (s *SNSClient) Notify(ctx context.Context, topicARN, subject, message string, attrs map[string]string) (string, error) {
	if topicARN == "" {
		return "", fmt.Errorf("sns: topic arn is required")
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Message:  aws.String(message),
	}
	if subject != "" {
		input.Subject = aws.String(subject)
	}
	if len(attrs) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(attrs))
		for k, v := range attrs {
			input.MessageAttributes[k] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(v),
			}
		}
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
