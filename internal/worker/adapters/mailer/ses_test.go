package mailer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workwhiz/internal/worker/adapters/mailer"
	"workwhiz/internal/worker/config"
	"workwhiz/internal/worker/ports"
	"workwhiz/pkg/logger"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sesv2.SendEmailOutput), args.Error(1)
}

func testContext() context.Context {
	return logger.NewContext(context.Background(), logger.NewNop())
}

func TestSESSend(t *testing.T) {
	ctx := testContext()

	t.Run("html письмо", func(t *testing.T) {
		client := &mockSES{}
		client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
			simple := in.Content.Simple
			return aws.ToString(in.FromEmailAddress) == `"WorkWhiz" <no-reply@workwhiz.io>` &&
				in.Destination.ToAddresses[0] == "jane@gmail.com" &&
				aws.ToString(simple.Subject.Data) == "Set up your password" &&
				aws.ToString(simple.Body.Html.Data) == "<p>hi</p>" &&
				simple.Body.Text == nil &&
				aws.ToString(in.ConfigurationSetName) == "transactional"
		})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil)

		s := mailer.NewSES(client, `"WorkWhiz" <no-reply@workwhiz.io>`, "transactional")
		id, err := s.Send(ctx, ports.Message{To: "jane@gmail.com", Subject: "Set up your password", HTML: "<p>hi</p>"})
		require.NoError(t, err)
		assert.Equal(t, "msg-1", id)
		client.AssertExpectations(t)
	})

	t.Run("только текст", func(t *testing.T) {
		client := &mockSES{}
		client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
			body := in.Content.Simple.Body
			return body.Html == nil && aws.ToString(body.Text.Data) == "Password updated" && in.ConfigurationSetName == nil
		})).Return(&sesv2.SendEmailOutput{}, nil)

		id, err := mailer.NewSES(client, "no-reply@workwhiz.io", "").
			Send(ctx, ports.Message{To: "jane@gmail.com", Subject: "Password updated", Text: "Password updated"})
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("ошибка SES", func(t *testing.T) {
		client := &mockSES{}
		sesErr := errors.New("Throttling: Maximum sending rate exceeded")
		client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, sesErr)

		_, err := mailer.NewSES(client, "no-reply@workwhiz.io", "").
			Send(ctx, ports.Message{To: "jane@gmail.com", Subject: "s", HTML: "b"})
		assert.ErrorIs(t, err, sesErr)
		assert.Contains(t, err.Error(), mailer.ErrSendEmail)
	})

	t.Run("пустое письмо", func(t *testing.T) {
		client := &mockSES{}
		_, err := mailer.NewSES(client, "no-reply@workwhiz.io", "").Send(ctx, ports.Message{To: "jane@gmail.com"})
		assert.ErrorIs(t, err, mailer.ErrEmptyMessage)
		client.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})
}

func TestNewClient(t *testing.T) {
	client, err := mailer.NewClient(testContext(), &config.SESConfig{
		Region:          "eu-west-1",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "secret",
		Endpoint:        "http://localhost:4566",
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "eu-west-1", client.Options().Region)
	assert.Equal(t, "http://localhost:4566", aws.ToString(client.Options().BaseEndpoint))
}
