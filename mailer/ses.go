package mailer

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESMailer sends account emails through AWS SES.
type SESMailer struct {
	client *ses.Client
	sender string
}

// NewSESMailer reads AWS credentials and the sender address from the
// environment. Returns an error when the sender is missing so main can fall
// back to the LogMailer.
func NewSESMailer(ctx context.Context) (*SESMailer, error) {
	sender := os.Getenv("AWS_SENDER_ADDRESS")
	if sender == "" {
		return nil, fmt.Errorf("sender email address is not configured")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"), "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return &SESMailer{client: ses.NewFromConfig(awsCfg), sender: sender}, nil
}

func (m *SESMailer) SendActivationEmail(ctx context.Context, to, name, activationURL string) error {
	subject := "Activate Your Account"
	body := fmt.Sprintf(
		"Hello %s,\n\nWelcome to Shoe-Zone! Use the following link to activate your account:\n%s\n\n"+
			"If you did not register, please ignore this email.\n\nThanks,\nThe Shoe-Zone Team",
		name, activationURL)
	return m.send(ctx, to, subject, body)
}

func (m *SESMailer) SendPasswordResetEmail(ctx context.Context, to, name, resetURL string) error {
	subject := "Password Reset Request"
	body := fmt.Sprintf(
		"Hello %s,\n\nYou requested a password reset for your account. Use the following link to reset your password:\n%s\n\n"+
			"If you did not request a password reset, please ignore this email.\n\nThanks,\nThe Shoe-Zone Team",
		name, resetURL)
	return m.send(ctx, to, subject, body)
}

func (m *SESMailer) send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	input := &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
