package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/synergysphere/auth-api/internal/config"
	"github.com/synergysphere/auth-api/internal/domain"
)

// SESSender delivers mail through AWS SES.
type SESSender struct {
	client *ses.Client
	from   string
	otpTTL time.Duration
}

func NewSESSender(cfg *config.Config) (*SESSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.SESRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	clientOpts := []func(*ses.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *ses.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return &SESSender{
		client: ses.NewFromConfig(awsCfg, clientOpts...),
		from:   cfg.SMTPFrom,
		otpTTL: cfg.OTPTTL,
	}, nil
}

func (s *SESSender) SendOTP(ctx context.Context, to, code string, purpose domain.OTPPurpose) error {
	return s.send(ctx, to, otpSubject(purpose), otpBody(code, purpose, s.otpTTL))
}

func (s *SESSender) SendWelcome(ctx context.Context, to, firstName string) error {
	return s.send(ctx, to, "Welcome to SynergySphere!", welcomeBody(firstName))
}

func (s *SESSender) SendTest(ctx context.Context, to string) error {
	return s.send(ctx, to, "SynergySphere Email Test", testBody())
}

func (s *SESSender) send(ctx context.Context, to, subject, htmlBody string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}
	return nil
}
