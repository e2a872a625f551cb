package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/partner"
	"declara/internal/port"
)

// PartnerService exposes the partner master and the manual-match queue.
type PartnerService interface {
	CreatePartner(ctx context.Context, p *domain.Partner) error
	GetPartner(ctx context.Context, tenantID, partnerID uuid.UUID) (*domain.Partner, error)
	ListPartners(ctx context.Context, tenantID uuid.UUID, ptype domain.PartnerType) ([]domain.Partner, error)
	ListMatches(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.PartnerMatch, error)
	ResolveMatch(ctx context.Context, tenantID, matchID, partnerID, resolvedBy uuid.UUID) (*domain.PartnerMatch, error)
}

type partnerService struct {
	partnerRepo port.PartnerRepository
	matchRepo   port.PartnerMatchRepository
}

// NewPartnerService creates a new PartnerService implementation.
func NewPartnerService(partnerRepo port.PartnerRepository, matchRepo port.PartnerMatchRepository) PartnerService {
	return &partnerService{partnerRepo: partnerRepo, matchRepo: matchRepo}
}

func (s *partnerService) CreatePartner(ctx context.Context, p *domain.Partner) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.NormalizedName = partner.Normalize(p.Name)
	if err := s.partnerRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("partner.CreatePartner: %w", err)
	}
	return nil
}

func (s *partnerService) GetPartner(ctx context.Context, tenantID, partnerID uuid.UUID) (*domain.Partner, error) {
	return s.partnerRepo.GetByID(ctx, tenantID, partnerID)
}

func (s *partnerService) ListPartners(ctx context.Context, tenantID uuid.UUID, ptype domain.PartnerType) ([]domain.Partner, error) {
	return s.partnerRepo.ListByType(ctx, tenantID, ptype)
}

func (s *partnerService) ListMatches(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.PartnerMatch, error) {
	return s.matchRepo.ListBySession(ctx, tenantID, sessionID)
}

// ResolveMatch assigns a partner to a pending manual match and promotes the
// extracted spelling to an alias so the same name matches automatically
// next time.
func (s *partnerService) ResolveMatch(ctx context.Context, tenantID, matchID, partnerID, resolvedBy uuid.UUID) (*domain.PartnerMatch, error) {
	match, err := s.matchRepo.GetByID(ctx, tenantID, matchID)
	if err != nil {
		return nil, err
	}
	if match.MatchedPartnerID != nil {
		return nil, domain.ErrMatchAlreadyResolved
	}
	if _, err := s.partnerRepo.GetByID(ctx, tenantID, partnerID); err != nil {
		return nil, err
	}
	if err := s.matchRepo.Resolve(ctx, tenantID, matchID, partnerID, resolvedBy); err != nil {
		return nil, fmt.Errorf("partner.ResolveMatch: %w", err)
	}

	normalized := partner.Normalize(match.ExtractedName)
	if normalized != "" {
		alias := &domain.PartnerAlias{
			ID:              uuid.New(),
			TenantID:        tenantID,
			PartnerID:       partnerID,
			NormalizedAlias: normalized,
			CreatedBy:       resolvedBy,
			CreatedAt:       time.Now().UTC(),
		}
		// Alias promotion is best effort; a duplicate alias is fine.
		if err := s.partnerRepo.CreateAlias(ctx, alias); err != nil {
			log.Printf("partnerService: promoting alias %q: %v", normalized, err)
		}
	}
	return s.matchRepo.GetByID(ctx, tenantID, matchID)
}
