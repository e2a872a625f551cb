package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"declara/internal/port"
)

type sesNotifier struct {
	client          *sesv2.Client
	fromAddress     string
	fromName        string
	reviewerAddress string
}

// NewSESNotifier creates a new SES-backed ReviewNotifier.
func NewSESNotifier(region, fromAddress, fromName, reviewerAddress string) (port.ReviewNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesNotifier{
		client:          client,
		fromAddress:     fromAddress,
		fromName:        fromName,
		reviewerAddress: reviewerAddress,
	}, nil
}

func (s *sesNotifier) NotifyManualMatch(ctx context.Context, notice port.ManualMatchNotice) error {
	subject := fmt.Sprintf("Partner match needs review: %s", notice.ExtractedName)
	body := fmt.Sprintf(
		"A %s extracted from session %s could not be matched automatically.\n\n"+
			"Extracted name: %s\nMatch ID: %s\n\n"+
			"Resolve it in the review queue.\n",
		notice.PartnerType, notice.SessionID, notice.ExtractedName, notice.MatchID)
	return s.send(ctx, subject, body)
}

func (s *sesNotifier) NotifyRuleConflict(ctx context.Context, notice port.RuleConflictNotice) error {
	subject := fmt.Sprintf("Rule conflict for customer %s: %s", notice.CustomerSig, notice.FieldName)
	body := fmt.Sprintf(
		"Recent corrections contradict an established extraction rule.\n\n"+
			"Customer: %s\nField: %s\nRule value: %q (confidence %.2f)\n"+
			"Proposed value: %q (%d corrections)\nRule ID: %s\n\n"+
			"The rule's confidence was lowered; review it before the next run.\n",
		notice.CustomerSig, notice.FieldName, notice.ExistingValue, notice.ExistingConf,
		notice.ProposedValue, notice.EvidenceCount, notice.RuleID)
	return s.send(ctx, subject, body)
}

func (s *sesNotifier) send(ctx context.Context, subject, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.reviewerAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
