package port

import (
	"context"

	"github.com/google/uuid"

	"declara/internal/domain"
)

// TenantRepository defines the contract for tenant persistence.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// UserRepository defines the contract for user persistence.
// All query methods include tenantID to enforce tenant isolation at the data layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)
}

// FileMetaRepository defines the contract for file metadata persistence.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error)
	UpdateStatus(ctx context.Context, tenantID, fileID uuid.UUID, status domain.FileStatus) error
}

// SessionRepository defines the contract for parsing-session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.ParsingSession) error
	GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.ParsingSession, int, error)
	UpdateStatus(ctx context.Context, tenantID, sessionID uuid.UUID, status domain.SessionStatus) error
	SaveDraft(ctx context.Context, tenantID, sessionID uuid.UUID, draft []byte, customerSig string) error
	AddFile(ctx context.Context, sf *domain.SessionFile) error
	ListFiles(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.SessionFile, error)
}

// OutputRepository defines the contract for parsing-output snapshots.
// Outputs are insert-only; corrections reference them by ID.
type OutputRepository interface {
	AppendBatch(ctx context.Context, outputs []domain.ParsingOutput) error
	GetByID(ctx context.Context, tenantID, outputID uuid.UUID) (*domain.ParsingOutput, error)
	ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.ParsingOutput, error)
}

// CorrectionRepository defines the contract for the append-only correction
// ledger. There are no update or delete methods by design.
type CorrectionRepository interface {
	Append(ctx context.Context, correction *domain.Correction) error
	GetByContentHash(ctx context.Context, tenantID uuid.UUID, hash string) (*domain.Correction, error)
	ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.Correction, error)
	ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.Correction, error)
	DistinctCustomerSigs(ctx context.Context, tenantID uuid.UUID) ([]string, error)
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// CustomerRuleRepository defines the contract for learned customer rules.
// Writes happen only inside the rule learner.
type CustomerRuleRepository interface {
	Create(ctx context.Context, rule *domain.CustomerRule) error
	Update(ctx context.Context, rule *domain.CustomerRule) error
	GetByID(ctx context.Context, tenantID, ruleID uuid.UUID) (*domain.CustomerRule, error)
	ListActive(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.CustomerRule, error)
	ListByCustomer(ctx context.Context, tenantID uuid.UUID, customerSig string) ([]domain.CustomerRule, error)
}

// PartnerRepository defines the contract for partner master data and aliases.
type PartnerRepository interface {
	Create(ctx context.Context, partner *domain.Partner) error
	GetByID(ctx context.Context, tenantID, partnerID uuid.UUID) (*domain.Partner, error)
	GetByNormalizedName(ctx context.Context, tenantID uuid.UUID, ptype domain.PartnerType, normalized string) (*domain.Partner, error)
	ListByType(ctx context.Context, tenantID uuid.UUID, ptype domain.PartnerType) ([]domain.Partner, error)
	GetAlias(ctx context.Context, tenantID uuid.UUID, normalizedAlias string) (*domain.PartnerAlias, error)
	CreateAlias(ctx context.Context, alias *domain.PartnerAlias) error
}

// PartnerMatchRepository defines the contract for partner-match audit rows.
type PartnerMatchRepository interface {
	Create(ctx context.Context, match *domain.PartnerMatch) error
	GetByID(ctx context.Context, tenantID, matchID uuid.UUID) (*domain.PartnerMatch, error)
	ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.PartnerMatch, error)
	Resolve(ctx context.Context, tenantID, matchID, partnerID, resolvedBy uuid.UUID) error
}

// HSCodeRepository provides read-only access to the customs HS catalog.
type HSCodeRepository interface {
	LoadAll(ctx context.Context) ([]domain.HSCode, error)
}
