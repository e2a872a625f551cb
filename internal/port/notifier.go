package port

import (
	"context"

	"github.com/google/uuid"
)

// ManualMatchNotice describes a partner match that needs human resolution.
type ManualMatchNotice struct {
	TenantID      uuid.UUID
	SessionID     uuid.UUID
	MatchID       uuid.UUID
	ExtractedName string
	PartnerType   string
}

// RuleConflictNotice describes correction evidence that contradicts an
// active high-confidence rule and was left pending manual review.
type RuleConflictNotice struct {
	TenantID      uuid.UUID
	RuleID        uuid.UUID
	CustomerSig   string
	FieldName     string
	ExistingValue string
	ProposedValue string
	ExistingConf  float64
	EvidenceCount int
}

// ReviewNotifier delivers review-queue notifications to operators.
type ReviewNotifier interface {
	NotifyManualMatch(ctx context.Context, notice ManualMatchNotice) error
	NotifyRuleConflict(ctx context.Context, notice RuleConflictNotice) error
}
