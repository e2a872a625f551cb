package rules

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/partner"
	"declara/internal/port"
)

// LearnerConfig holds the thresholds governing rule creation and conflict
// handling. All values are tunable; see config defaults.
type LearnerConfig struct {
	// Corrections that must agree on the same original -> corrected mapping
	// before a rule is created.
	MinAgreement int
	// New evidence must exceed an existing rule's confidence by this margin
	// before the rule's value is replaced.
	ReplaceMargin float64
	// Multiplier applied to a rule's confidence when a batch disagrees.
	ConflictDecay float64
}

// LearnReport summarizes one learning run for a customer.
type LearnReport struct {
	CustomerSig  string `json:"customer_sig"`
	Created      int    `json:"created"`
	Strengthened int    `json:"strengthened"`
	Replaced     int    `json:"replaced"`
	Conflicts    int    `json:"conflicts"`
}

// Learner batch-aggregates a customer's corrections into customer rules.
// It is the sole writer of a customer's rules during a run; callers
// serialize runs per customer signature. Rules are never deleted here:
// contradicted rules lose confidence and are surfaced for manual review.
type Learner struct {
	corrRepo port.CorrectionRepository
	ruleRepo port.CustomerRuleRepository
	notifier port.ReviewNotifier
	cfg      LearnerConfig
}

// NewLearner creates a Learner. The notifier may be nil.
func NewLearner(corrRepo port.CorrectionRepository, ruleRepo port.CustomerRuleRepository, notifier port.ReviewNotifier, cfg LearnerConfig) *Learner {
	return &Learner{corrRepo: corrRepo, ruleRepo: ruleRepo, notifier: notifier, cfg: cfg}
}

type groupKey struct {
	category domain.FieldCategory
	field    string
	pattern  string
}

// LearnCustomer aggregates the customer's unconsumed corrections and creates
// or strengthens rules where enough of them agree.
func (l *Learner) LearnCustomer(ctx context.Context, tenantID uuid.UUID, customerSig string) (*LearnReport, error) {
	report := &LearnReport{CustomerSig: customerSig}

	corrections, err := l.corrRepo.ListByCustomer(ctx, tenantID, customerSig)
	if err != nil {
		return nil, fmt.Errorf("rules.Learner: listing corrections: %w", err)
	}
	existing, err := l.ruleRepo.ListByCustomer(ctx, tenantID, customerSig)
	if err != nil {
		return nil, fmt.Errorf("rules.Learner: listing rules: %w", err)
	}

	consumed := map[uuid.UUID]bool{}
	ruleIndex := map[groupKey]*domain.CustomerRule{}
	for i := range existing {
		r := &existing[i]
		for _, id := range r.SourceCorrections {
			consumed[id] = true
		}
		ruleIndex[groupKey{r.Category, r.FieldName, r.Pattern}] = r
	}

	groups := map[groupKey][]domain.Correction{}
	for _, c := range corrections {
		if consumed[c.ID] || strings.TrimSpace(c.CorrectedValue) == "" {
			continue
		}
		key := groupKey{c.Category, c.FieldName, patternOf(c)}
		groups[key] = append(groups[key], c)
	}

	for key, group := range groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		l.learnGroup(ctx, tenantID, customerSig, key, group, ruleIndex[key], report)
	}
	return report, nil
}

// patternOf derives the rule pattern from a correction. Partner corrections
// are keyed by the normalized extracted name so alias rules match what the
// partner matcher looks up.
func patternOf(c domain.Correction) string {
	if c.CorrectionType == domain.CorrectionWrongPartnerMatch {
		return partner.Normalize(c.OriginalValue)
	}
	return strings.TrimSpace(c.OriginalValue)
}

func ruleTypeOf(key groupKey, sample domain.Correction) domain.RuleType {
	switch {
	case sample.CorrectionType == domain.CorrectionWrongPartnerMatch:
		return domain.RulePartnerAlias
	case key.pattern == "":
		return domain.RuleDefaultValue
	default:
		return domain.RuleFieldMapping
	}
}

func (l *Learner) learnGroup(ctx context.Context, tenantID uuid.UUID, customerSig string, key groupKey, group []domain.Correction, rule *domain.CustomerRule, report *LearnReport) {
	// Tally agreement on the corrected value.
	counts := map[string]int{}
	ids := map[string][]uuid.UUID{}
	for _, c := range group {
		counts[c.CorrectedValue]++
		ids[c.CorrectedValue] = append(ids[c.CorrectedValue], c.ID)
	}
	topValue, topCount := "", 0
	for v, n := range counts {
		if n > topCount || (n == topCount && v < topValue) {
			topValue, topCount = v, n
		}
	}
	total := len(group)
	evidence := float64(topCount) / float64(total)

	if rule == nil {
		// Creation requires the configured agreement and a strict majority.
		if topCount < l.cfg.MinAgreement || topCount*2 <= total {
			return
		}
		now := time.Now().UTC()
		newRule := &domain.CustomerRule{
			ID:                uuid.New(),
			TenantID:          tenantID,
			CustomerSig:       customerSig,
			RuleType:          ruleTypeOf(key, group[0]),
			Category:          key.category,
			FieldName:         key.field,
			Pattern:           key.pattern,
			Value:             topValue,
			Confidence:        evidence,
			HitCount:          topCount,
			SourceCorrections: allIDs(group),
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := l.ruleRepo.Create(ctx, newRule); err != nil {
			log.Printf("rules.Learner: creating rule for %s/%s: %v", customerSig, key.field, err)
			return
		}
		report.Created++
		return
	}

	updated := *rule
	updated.SourceCorrections = append(updated.SourceCorrections, allIDs(group)...)
	updated.UpdatedAt = time.Now().UTC()

	switch {
	case topValue == rule.Value:
		// Agreement strengthens the rule.
		updated.HitCount += topCount
		updated.Confidence += (1 - updated.Confidence) * 0.2
		if disagree := total - topCount; disagree > 0 {
			updated.Confidence *= l.cfg.ConflictDecay
		}
		report.Strengthened++
	case evidence > rule.Confidence+l.cfg.ReplaceMargin:
		// Strong contradicting evidence replaces the learned value.
		updated.Value = topValue
		updated.HitCount = topCount
		updated.Confidence = evidence
		report.Replaced++
	default:
		// Disagreement lowers confidence; the rule itself stays pending
		// stronger evidence and is surfaced for manual review.
		updated.Confidence *= l.cfg.ConflictDecay
		report.Conflicts++
		l.notifyConflict(ctx, rule, topValue, topCount)
	}

	if err := l.ruleRepo.Update(ctx, &updated); err != nil {
		log.Printf("rules.Learner: updating rule %s: %v", rule.ID, err)
	}
}

func (l *Learner) notifyConflict(ctx context.Context, rule *domain.CustomerRule, proposed string, count int) {
	log.Printf("rules.Learner: rule %s (%s=%q) contradicted by %d correction(s) proposing %q; left unchanged",
		rule.ID, rule.FieldName, rule.Value, count, proposed)
	if l.notifier == nil {
		return
	}
	err := l.notifier.NotifyRuleConflict(ctx, port.RuleConflictNotice{
		TenantID:      rule.TenantID,
		RuleID:        rule.ID,
		CustomerSig:   rule.CustomerSig,
		FieldName:     rule.FieldName,
		ExistingValue: rule.Value,
		ProposedValue: proposed,
		ExistingConf:  rule.Confidence,
		EvidenceCount: count,
	})
	if err != nil {
		log.Printf("rules.Learner: conflict notification failed: %v", err)
	}
}

func allIDs(group []domain.Correction) domain.CorrectionIDs {
	out := make(domain.CorrectionIDs, 0, len(group))
	for _, c := range group {
		out = append(out, c.ID)
	}
	return out
}
