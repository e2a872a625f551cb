package rules

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/port"
)

// RuleSet is an immutable snapshot of one customer's active rules. It is
// built once per parse and read concurrently by extraction goroutines with
// no write contention.
type RuleSet struct {
	byField map[string][]compiledRule
	aliases map[string]string
}

type compiledRule struct {
	rule domain.CustomerRule
	re   *regexp.Regexp
}

func fieldKey(category domain.FieldCategory, field string) string {
	return string(category) + "." + field
}

// EmptySet returns a RuleSet with no rules. Override is a no-op on it.
func EmptySet() *RuleSet {
	return &RuleSet{
		byField: map[string][]compiledRule{},
		aliases: map[string]string{},
	}
}

// Len returns the number of field rules in the snapshot.
func (rs *RuleSet) Len() int {
	n := 0
	for _, crs := range rs.byField {
		n += len(crs)
	}
	return n
}

// Override applies the highest-confidence active rule for the field to the
// generic extractor's raw value. Customer-specific learned values always win
// over generic heuristic output; the boolean reports whether a rule fired.
func (rs *RuleSet) Override(category domain.FieldCategory, field, raw string) (string, bool) {
	crs := rs.byField[fieldKey(category, field)]
	for _, cr := range crs {
		switch cr.rule.RuleType {
		case domain.RuleFieldMapping:
			if strings.EqualFold(strings.TrimSpace(raw), cr.rule.Pattern) {
				return cr.rule.Value, true
			}
		case domain.RuleRegexOverride:
			if cr.re != nil && cr.re.MatchString(raw) {
				return cr.re.ReplaceAllString(raw, cr.rule.Value), true
			}
		case domain.RuleDefaultValue:
			if strings.TrimSpace(raw) == "" {
				return cr.rule.Value, true
			}
		}
	}
	return raw, false
}

// PartnerAlias resolves a normalized extracted partner name through learned
// PARTNER_ALIAS rules.
func (rs *RuleSet) PartnerAlias(normalizedName string) (string, bool) {
	v, ok := rs.aliases[normalizedName]
	return v, ok
}

// Applier builds read-only rule snapshots for the extraction pipeline.
type Applier struct {
	ruleRepo port.CustomerRuleRepository
}

// NewApplier creates an Applier backed by the given rule repository.
func NewApplier(ruleRepo port.CustomerRuleRepository) *Applier {
	return &Applier{ruleRepo: ruleRepo}
}

// Snapshot loads the customer's active rules into an immutable RuleSet.
// Rules for the same field are ordered by confidence, highest first, so the
// strongest rule wins.
func (a *Applier) Snapshot(ctx context.Context, tenantID uuid.UUID, customerSig string) (*RuleSet, error) {
	set := EmptySet()
	if customerSig == "" {
		return set, nil
	}

	active, err := a.ruleRepo.ListActive(ctx, tenantID, customerSig)
	if err != nil {
		return set, fmt.Errorf("rules.Applier.Snapshot: %w", err)
	}

	for i := range active {
		r := active[i]
		if r.RuleType == domain.RulePartnerAlias {
			if _, exists := set.aliases[r.Pattern]; !exists {
				set.aliases[r.Pattern] = r.Value
			}
			continue
		}

		cr := compiledRule{rule: r}
		if r.RuleType == domain.RuleRegexOverride {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				log.Printf("rules.Applier: skipping rule %s, bad pattern %q: %v", r.ID, r.Pattern, err)
				continue
			}
			cr.re = re
		}
		key := fieldKey(r.Category, r.FieldName)
		set.byField[key] = append(set.byField[key], cr)
	}

	for key := range set.byField {
		crs := set.byField[key]
		sort.SliceStable(crs, func(i, j int) bool {
			return crs[i].rule.Confidence > crs[j].rule.Confidence
		})
	}
	return set, nil
}
