package domain

// DocumentType classifies an uploaded trade document.
type DocumentType string

const (
	DocTypeInvoice       DocumentType = "INVOICE"
	DocTypePackingList   DocumentType = "PACKING_LIST"
	DocTypeBillOfLading  DocumentType = "BILL_OF_LADING"
	DocTypeAirwayBill    DocumentType = "AIRWAY_BILL"
	DocTypeArrivalNotice DocumentType = "ARRIVAL_NOTICE"
	DocTypeOther         DocumentType = "OTHER"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case DocTypeInvoice, DocTypePackingList, DocTypeBillOfLading,
		DocTypeAirwayBill, DocTypeArrivalNotice, DocTypeOther:
		return true
	}
	return false
}

// SessionStatus tracks the lifecycle of a parsing session. Transitions only
// move forward: CREATED -> PARSED -> CORRECTED -> FINALIZED.
type SessionStatus string

const (
	SessionCreated   SessionStatus = "CREATED"
	SessionParsed    SessionStatus = "PARSED"
	SessionCorrected SessionStatus = "CORRECTED"
	SessionFinalized SessionStatus = "FINALIZED"
)

var sessionRank = map[SessionStatus]int{
	SessionCreated:   0,
	SessionParsed:    1,
	SessionCorrected: 2,
	SessionFinalized: 3,
}

// CanTransition reports whether a session may move from its current status
// to the target status. Only forward moves are allowed.
func (s SessionStatus) CanTransition(to SessionStatus) bool {
	return sessionRank[to] > sessionRank[s]
}

// FieldCategory tags a parsing output with the part of the declaration it
// belongs to.
type FieldCategory string

const (
	CategoryHeader    FieldCategory = "header"
	CategoryItem      FieldCategory = "item"
	CategoryParty     FieldCategory = "party"
	CategoryTransport FieldCategory = "transport"
	CategoryValue     FieldCategory = "value"
)

// CorrectionType classifies why a human changed an extracted value.
type CorrectionType string

const (
	CorrectionWrongValue        CorrectionType = "WRONG_VALUE"
	CorrectionMissingField      CorrectionType = "MISSING_FIELD"
	CorrectionWrongPartnerMatch CorrectionType = "WRONG_PARTNER_MATCH"
)

// RuleType classifies a learned customer rule.
type RuleType string

const (
	RuleFieldMapping  RuleType = "FIELD_MAPPING"
	RuleDefaultValue  RuleType = "DEFAULT_VALUE"
	RuleRegexOverride RuleType = "REGEX_OVERRIDE"
	RulePartnerAlias  RuleType = "PARTNER_ALIAS"
)

// PartnerType distinguishes the two sides of a trade.
type PartnerType string

const (
	PartnerExporter PartnerType = "EXPORTER"
	PartnerImporter PartnerType = "IMPORTER"
)

// MatchMethod records how a free-text partner name was resolved.
type MatchMethod string

const (
	MatchExact  MatchMethod = "EXACT"
	MatchAlias  MatchMethod = "ALIAS"
	MatchFuzzy  MatchMethod = "FUZZY"
	MatchManual MatchMethod = "MANUAL"
)

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
	FileTypeTXT  FileType = "txt"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FileTypeCSV:  "text/csv",
	FileTypeTXT:  "text/plain",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"xlsx": FileTypeXLSX,
	"csv":  FileTypeCSV,
	"txt":  FileTypeTXT,
}

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)
