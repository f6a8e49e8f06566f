// Package mailer отправляет письма воркера через AWS SES v2.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"workwhiz/internal/worker/config"
	"workwhiz/internal/worker/ports"
	"workwhiz/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogSent = "email sent"
)

// Константы для сообщений об ошибках.
const (
	ErrLoadAWSConfig = "failed to load aws configuration"
	ErrSendEmail     = "failed to send email"
)

// ErrEmptyMessage возвращается для письма без получателя или тела.
var ErrEmptyMessage = errors.New("email has no recipient or body")

const charset = "UTF-8"

// SESAPI - часть клиента SES v2, нужная отправителю.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES отправляет письма через SES v2.
type SES struct {
	client           SESAPI
	from             string
	configurationSet string
}

// NewClient создает клиент SES v2. Без статических ключей используется стандартная цепочка AWS.
func NewClient(ctx context.Context, cfg *config.SESConfig) (*sesv2.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.HasStaticCredentials() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrLoadAWSConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrLoadAWSConfig, err)
	}

	return sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewSES создает отправителя с адресом from.
func NewSES(client SESAPI, from, configurationSet string) *SES {
	return &SES{
		client:           client,
		from:             from,
		configurationSet: configurationSet,
	}
}

// Send отправляет одно письмо и возвращает MessageId SES.
func (s *SES) Send(ctx context.Context, msg ports.Message) (string, error) {
	if msg.To == "" || (msg.HTML == "" && msg.Text == "") {
		return "", ErrEmptyMessage
	}

	body := &types.Body{}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charset)}
	}
	if msg.Text != "" {
		body.Text = &types.Content{Data: aws.String(msg.Text), Charset: aws.String(charset)}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
				Body:    body,
			},
		},
	}
	if s.configurationSet != "" {
		input.ConfigurationSetName = aws.String(s.configurationSet)
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrSendEmail, err)
	}

	messageID := aws.ToString(out.MessageId)
	logger.Log(ctx).Info(ctx, LogSent, zap.String("message_id", messageID))
	return messageID, nil
}
