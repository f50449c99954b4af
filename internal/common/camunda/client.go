// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"wind-workers/internal/common/config"
	"wind-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client with connection checks and retry on transient failures.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	RetryConfig            *RetryConfig
}

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// ClientConfigFrom derives the client settings from the camunda section of the app config.
func ClientConfigFrom(cfg config.CamundaConfig) *ClientConfig {
	return &ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         config.GetDuration(cfg.RequestTimeout),
		RetryConfig:            DefaultRetryConfig,
	}
}

func NewClient(cfg config.CamundaConfig) (*Client, error) {
	return NewClientWithConfig(ClientConfigFrom(cfg))
}

// NewClientWithConfig dials the gateway and verifies it answers a topology request.
func NewClientWithConfig(cfg *ClientConfig) (*Client, error) {
	if cfg.RetryConfig == nil {
		cfg.RetryConfig = DefaultRetryConfig
	}
	if cfg.ConnectionTimeout <= 0 {
		cfg.ConnectionTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.GatewayAddress,
		UsePlaintextConnection: cfg.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectionTimeout)
	defer cancel()

	if _, err := zeebeClient.NewTopologyCommand().Send(ctx); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.GatewayAddress, err)
	}

	return &Client{
		client: zeebeClient,
		config: cfg,
	}, nil
}

func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ExecuteWithRetry runs a Zeebe command with exponential backoff. Only transient
// errors are retried; everything else is mapped and returned immediately.
func (c *Client) ExecuteWithRetry(
	ctx context.Context,
	commandFunc func(context.Context) (interface{}, error),
	operationName string,
) (interface{}, error) {
	return executeWithRetry(ctx, c.config.RetryConfig, commandFunc, operationName)
}

// DeployDir deploys every .bpmn file in dir and returns the deployed paths.
func (c *Client) DeployDir(ctx context.Context, dir string) ([]string, error) {
	files, err := bpmnFiles(dir)
	if err != nil {
		return nil, err
	}

	deployed := make([]string, 0, len(files))
	for _, path := range files {
		_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
			return c.client.NewDeployResourceCommand().AddResourceFile(path).Send(ctx)
		}, "deploy "+filepath.Base(path))
		if err != nil {
			return deployed, err
		}
		deployed = append(deployed, path)
	}
	return deployed, nil
}

func bpmnFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read bpmn dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".bpmn") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func executeWithRetry(
	ctx context.Context,
	retry *RetryConfig,
	commandFunc func(context.Context) (interface{}, error),
	operationName string,
) (interface{}, error) {
	var lastErr error

	for attempt := 0; attempt <= retry.MaxRetries; attempt++ {
		result, err := commandFunc(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableZeebeError(err) || attempt == retry.MaxRetries {
			return nil, mapZeebeError(err, operationName, attempt)
		}

		delay := retry.BaseDelay * time.Duration(1<<attempt)
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("operation %s cancelled after %d attempts: %w", operationName, attempt+1, ctx.Err())
		}
	}

	return nil, fmt.Errorf("operation %s failed after %d retries: %w", operationName, retry.MaxRetries, lastErr)
}

var retryablePhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// mapZeebeError converts gateway errors into StandardErrors so they carry the
// same retry and BPMN semantics as worker errors.
func mapZeebeError(err error, operation string, attempt int) *errors.StandardError {
	msg := err.Error()
	lowerMsg := strings.ToLower(msg)

	prefix := fmt.Sprintf("Zeebe operation '%s' failed", operation)
	if attempt > 0 {
		prefix += fmt.Sprintf(" after %d attempts", attempt+1)
	}
	wrapped := fmt.Errorf("%s: %s", prefix, msg)

	switch {
	case strings.Contains(lowerMsg, "timeout") ||
		strings.Contains(lowerMsg, "deadline exceeded"):
		return errors.NewTimeoutError("zeebe", wrapped)

	case strings.Contains(lowerMsg, "not found"):
		return errors.NewResourceNotFoundError("zeebe", wrapped.Error())

	case strings.Contains(lowerMsg, "permission denied") ||
		strings.Contains(lowerMsg, "unauthorized") ||
		strings.Contains(lowerMsg, "unauthenticated"):
		return errors.NewAuthenticationError(wrapped.Error())

	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
