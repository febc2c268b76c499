// internal/ses/client.go
package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/AWD-Projects/xianna-campaign-service/internal/config"
	"github.com/AWD-Projects/xianna-campaign-service/internal/dispatch"
)

// Client is the AWS SES v2 implementation of the transactional email
// provider.
type Client struct {
	client *sesv2.Client
	region string
}

// NewClient creates an SES client from static credentials.
func NewClient(ctx context.Context, cfg appconfig.SESConfig) (*Client, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Client{
		client: sesv2.NewFromConfig(awsCfg),
		region: cfg.Region,
	}, nil
}

// Send submits one transactional email. Campaign and recipient ids travel
// as message tags so SES events can be correlated with outcome rows.
func (c *Client) Send(ctx context.Context, payload dispatch.EmailPayload) (string, error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", payload.SenderName, payload.SenderAddress)),
		Destination: &types.Destination{
			ToAddresses: []string{payload.ToAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(payload.Subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(payload.HTMLBody)},
					Text: &types.Content{Data: aws.String(payload.TextBody)},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("campaign_id"), Value: aws.String(payload.CampaignID)},
			{Name: aws.String("recipient_id"), Value: aws.String(payload.RecipientID)},
		},
	}

	out, err := c.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

var _ dispatch.EmailProvider = (*Client)(nil)
