// Package partner resolves free-text trade-partner names to canonical
// master records through an exact -> alias -> fuzzy -> manual cascade.
package partner

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/agext/levenshtein"
	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/port"
)

// AliasResolver maps a normalized extracted name to a learned canonical
// spelling. Callers typically pass a customer rule snapshot's PartnerAlias.
type AliasResolver func(normalized string) (string, bool)

// Config holds matching thresholds.
type Config struct {
	// Minimum fuzzy score (0-100) for an automatic match.
	FuzzyThreshold float64
	// Candidates whose scores differ by less than this gap are ambiguous.
	AmbiguityGap float64
}

// Matcher resolves extracted party names against the partner master. It
// always returns a determinate PartnerMatch so the merge pipeline can
// proceed unconditionally; repository failures degrade to a MANUAL match.
type Matcher struct {
	repo port.PartnerRepository
	cfg  Config
}

// NewMatcher creates a Matcher.
func NewMatcher(repo port.PartnerRepository, cfg Config) *Matcher {
	return &Matcher{repo: repo, cfg: cfg}
}

// Match runs the cascade and stops at the first success. The returned match
// satisfies: MANUAL implies nil score and nil partner ID; EXACT/ALIAS/FUZZY
// imply both populated with score in [0,100]. The alias resolver supplies
// learned PARTNER_ALIAS overrides and may be nil.
func (m *Matcher) Match(ctx context.Context, tenantID uuid.UUID, rawName, rawAddress string, ptype domain.PartnerType, aliases AliasResolver) domain.PartnerMatch {
	match := domain.PartnerMatch{
		ID:               uuid.New(),
		TenantID:         tenantID,
		PartnerType:      ptype,
		ExtractedName:    rawName,
		ExtractedAddress: rawAddress,
		MatchMethod:      domain.MatchManual,
		CreatedAt:        time.Now().UTC(),
	}

	normalized := Normalize(rawName)
	if normalized == "" {
		return match
	}
	if aliases != nil {
		if canonical, ok := aliases(normalized); ok {
			normalized = Normalize(canonical)
		}
	}

	// 1. EXACT against the partner master.
	if p, err := m.repo.GetByNormalizedName(ctx, tenantID, ptype, normalized); err == nil {
		return accepted(match, p.ID, domain.MatchExact, 100)
	} else if !isNotFound(err) {
		log.Printf("partner.Matcher: exact lookup failed, degrading to manual: %v", err)
		return match
	}

	// 2. ALIAS from previously accepted fuzzy/manual matches.
	if alias, err := m.repo.GetAlias(ctx, tenantID, normalized); err == nil {
		return accepted(match, alias.PartnerID, domain.MatchAlias, 100)
	} else if !isNotFound(err) {
		log.Printf("partner.Matcher: alias lookup failed, degrading to manual: %v", err)
		return match
	}

	// 3. FUZZY against the master list.
	candidates, err := m.repo.ListByType(ctx, tenantID, ptype)
	if err != nil {
		log.Printf("partner.Matcher: listing candidates failed, degrading to manual: %v", err)
		return match
	}
	best, runnerUp := m.scoreCandidates(normalized, candidates)
	if best.partner == nil || best.score < m.cfg.FuzzyThreshold {
		return match
	}
	if runnerUp.partner != nil && best.score-runnerUp.score < m.cfg.AmbiguityGap {
		// Tied candidates above threshold: consult address similarity
		// before giving up to manual resolution.
		bestAddr := similarity(Normalize(rawAddress), Normalize(best.partner.Address))
		runnerAddr := similarity(Normalize(rawAddress), Normalize(runnerUp.partner.Address))
		if rawAddress == "" || bestAddr-runnerAddr < m.cfg.AmbiguityGap {
			return match
		}
	}
	return accepted(match, best.partner.ID, domain.MatchFuzzy, best.score)
}

type scored struct {
	partner *domain.Partner
	score   float64
}

func (m *Matcher) scoreCandidates(normalized string, candidates []domain.Partner) (best, runnerUp scored) {
	canonical := canonicalize(normalized)
	for i := range candidates {
		s := similarity(canonical, canonicalize(candidates[i].Name))
		switch {
		case best.partner == nil || s > best.score:
			runnerUp = best
			best = scored{&candidates[i], s}
		case runnerUp.partner == nil || s > runnerUp.score:
			runnerUp = scored{&candidates[i], s}
		}
	}
	return best, runnerUp
}

// similarity returns a 0-100 Levenshtein similarity score.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return levenshtein.Similarity(a, b, levenshtein.NewParams()) * 100
}

func accepted(match domain.PartnerMatch, partnerID uuid.UUID, method domain.MatchMethod, score float64) domain.PartnerMatch {
	match.MatchedPartnerID = &partnerID
	match.MatchMethod = method
	match.Score = &score
	return match
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrPartnerNotFound) || errors.Is(err, domain.ErrNotFound)
}
