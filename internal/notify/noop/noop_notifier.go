package noop

import (
	"context"
	"log"

	"declara/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a no-op ReviewNotifier that logs notices to stdout.
func NewNoopNotifier() port.ReviewNotifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifyManualMatch(_ context.Context, notice port.ManualMatchNotice) error {
	log.Printf("[NOOP NOTIFY] Manual match %s: %s %q in session %s",
		notice.MatchID, notice.PartnerType, notice.ExtractedName, notice.SessionID)
	return nil
}

func (n *noopNotifier) NotifyRuleConflict(_ context.Context, notice port.RuleConflictNotice) error {
	log.Printf("[NOOP NOTIFY] Rule conflict %s for customer %q field %s: %q vs %q (%d corrections)",
		notice.RuleID, notice.CustomerSig, notice.FieldName,
		notice.ExistingValue, notice.ProposedValue, notice.EvidenceCount)
	return nil
}
