package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents an isolated organizational tenant.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a tenant.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	DocTypeHint  string     `db:"doc_type_hint" json:"doc_type_hint"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ParsingSession is one upload -> extract -> correct -> finalize cycle for a
// single customs declaration.
type ParsingSession struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	TenantID    uuid.UUID     `db:"tenant_id" json:"tenant_id"`
	CustomerSig string        `db:"customer_sig" json:"customer_sig"`
	Status      SessionStatus `db:"status" json:"status"`
	Draft       []byte        `db:"draft" json:"-"`
	CreatedBy   uuid.UUID     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
	FinalizedAt *time.Time    `db:"finalized_at" json:"finalized_at"`
}

// SessionFile associates an uploaded file with a parsing session.
type SessionFile struct {
	SessionID uuid.UUID `db:"session_id" json:"session_id"`
	FileID    uuid.UUID `db:"file_id" json:"file_id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	AddedAt   time.Time `db:"added_at" json:"added_at"`
}

// ParsingOutput is a session-scoped snapshot of one extracted field value.
// It is the unit a Correction references and is never updated after insert.
type ParsingOutput struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	SessionID  uuid.UUID     `db:"session_id" json:"session_id"`
	TenantID   uuid.UUID     `db:"tenant_id" json:"tenant_id"`
	FileID     uuid.UUID     `db:"file_id" json:"file_id"`
	Category   FieldCategory `db:"category" json:"category"`
	FieldName  string        `db:"field_name" json:"field_name"`
	FieldValue string        `db:"field_value" json:"field_value"`
	Confidence float64       `db:"confidence" json:"confidence"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// Correction is an append-only audit record of a human fixing one extracted
// field's value. Rows are never updated or deleted.
type Correction struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	TenantID       uuid.UUID      `db:"tenant_id" json:"tenant_id"`
	SessionID      uuid.UUID      `db:"session_id" json:"session_id"`
	OutputID       uuid.UUID      `db:"output_id" json:"output_id"`
	CustomerSig    string         `db:"customer_sig" json:"customer_sig"`
	Category       FieldCategory  `db:"category" json:"category"`
	FieldName      string         `db:"field_name" json:"field_name"`
	OriginalValue  string         `db:"original_value" json:"original_value"`
	CorrectedValue string         `db:"corrected_value" json:"corrected_value"`
	CorrectionType CorrectionType `db:"correction_type" json:"correction_type"`
	UserAction     string         `db:"user_action" json:"user_action"`
	ContentHash    string         `db:"content_hash" json:"-"`
	CreatedBy      uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// CustomerRule is a learned, customer-scoped extraction override. Rules are
// created and updated only by the rule learner and never deleted
// automatically; stale rules are deactivated for manual review instead.
type CustomerRule struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	TenantID    uuid.UUID     `db:"tenant_id" json:"tenant_id"`
	CustomerSig string        `db:"customer_sig" json:"customer_sig"`
	RuleType    RuleType      `db:"rule_type" json:"rule_type"`
	Category    FieldCategory `db:"category" json:"category"`
	FieldName   string        `db:"field_name" json:"field_name"`
	Pattern     string        `db:"pattern" json:"pattern"`
	Value       string        `db:"value" json:"value"`
	Confidence  float64       `db:"confidence" json:"confidence"`
	HitCount    int           `db:"hit_count" json:"hit_count"`
	// Correction IDs already counted into this rule, stored as JSONB.
	SourceCorrections CorrectionIDs `db:"source_corrections" json:"source_corrections"`
	IsActive          bool          `db:"is_active" json:"is_active"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

// Partner is a canonical trade-partner master record.
type Partner struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	TenantID       uuid.UUID   `db:"tenant_id" json:"tenant_id"`
	PartnerType    PartnerType `db:"partner_type" json:"partner_type"`
	Name           string      `db:"name" json:"name"`
	NormalizedName string      `db:"normalized_name" json:"normalized_name"`
	Address        string      `db:"address" json:"address"`
	CountryCode    string      `db:"country_code" json:"country_code"`
	TaxCode        string      `db:"tax_code" json:"tax_code"`
	IsActive       bool        `db:"is_active" json:"is_active"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// PartnerAlias maps a previously accepted free-text spelling to a canonical
// partner. Aliases are promoted from accepted fuzzy and manual matches.
type PartnerAlias struct {
	ID              uuid.UUID `db:"id" json:"id"`
	TenantID        uuid.UUID `db:"tenant_id" json:"tenant_id"`
	PartnerID       uuid.UUID `db:"partner_id" json:"partner_id"`
	NormalizedAlias string    `db:"normalized_alias" json:"normalized_alias"`
	CreatedBy       uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// PartnerMatch records the resolution of a free-text partner name/address to
// a master record. Score is null when the match requires manual resolution.
type PartnerMatch struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	TenantID         uuid.UUID   `db:"tenant_id" json:"tenant_id"`
	SessionID        uuid.UUID   `db:"session_id" json:"session_id"`
	PartnerType      PartnerType `db:"partner_type" json:"partner_type"`
	ExtractedName    string      `db:"extracted_name" json:"extracted_name"`
	ExtractedAddress string      `db:"extracted_address" json:"extracted_address"`
	MatchedPartnerID *uuid.UUID  `db:"matched_partner_id" json:"matched_partner_id"`
	MatchMethod      MatchMethod `db:"match_method" json:"match_method"`
	Score            *float64    `db:"score" json:"score"`
	ResolvedBy       *uuid.UUID  `db:"resolved_by" json:"resolved_by"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// HSCode is a read-only reference entry from the customs HS catalog.
type HSCode struct {
	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description"`
	Unit        string `db:"unit" json:"unit"`
}
