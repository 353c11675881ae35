package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventmgt/internal/domain"
)

const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"

	charsetUTF8 = "UTF-8"
	sesTimeout  = 15 * time.Second
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig selects and configures the mail transport.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer returns the SES mailer for provider "ses" and a logging no-op
// mailer otherwise.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	logger = logger.With("component", "mailer", "provider", config.Provider)
	switch config.Provider {
	case ProviderSES:
		return newSESMailer(config, logger)
	case ProviderNoop, "":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop")
		return &noopMailer{logger: logger}, nil
	}
}

type sesMailer struct {
	client *ses.Client
	source string
	logger *slog.Logger
}

func newSESMailer(config MailerConfig, logger *slog.Logger) (*sesMailer, error) {
	var errs []error
	if config.SES.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}
	if config.FromAddress == "" {
		errs = append(errs, errors.New("from address is required"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("ses mailer: %w", errors.Join(errs...))
	}
	if config.SES.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for SES, use only in development")
	}

	awsCfg := aws.Config{
		Region: config.SES.Region,
		HTTPClient: &http.Client{
			Timeout: sesTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: config.SES.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		},
	}
	// Without static keys the SDK resolves credentials from the environment.
	if config.SES.AccessKeyID != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			config.SES.AccessKeyID,
			config.SES.SecretAccessKey,
			"",
		))
	}

	return &sesMailer{
		client: ses.NewFromConfig(awsCfg),
		source: formatAddress(config.FromName, config.FromAddress),
		logger: logger,
	}, nil
}

func (s *sesMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	input, err := buildSendEmailInput(s.source, msg)
	if err != nil {
		return err
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}

// buildSendEmailInput maps msg onto an SES request. At least one body is required.
func buildSendEmailInput(source string, msg *domain.EmailMessage) (*ses.SendEmailInput, error) {
	if msg.To == "" {
		return nil, errors.New("email recipient is required")
	}
	if msg.HTML == "" && msg.Text == "" {
		return nil, errors.New("email body is required")
	}

	body := &types.Body{}
	if msg.HTML != "" {
		body.Html = utf8Content(msg.HTML)
	}
	if msg.Text != "" {
		body.Text = utf8Content(msg.Text)
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Message: &types.Message{
			Subject: utf8Content(msg.Subject),
			Body:    body,
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	return input, nil
}

func utf8Content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String(charsetUTF8)}
}

// formatAddress quotes name as needed for the From header.
func formatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	n.logger.InfoContext(ctx, "email would be sent (noop)", "to", msg.To, "subject", msg.Subject)
	return nil
}
