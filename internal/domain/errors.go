package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTenantInactive       = errors.New("tenant is inactive")
	ErrUserInactive         = errors.New("user is inactive")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrSessionNotFound      = errors.New("parsing session not found")
	ErrSessionFinalized     = errors.New("parsing session is already finalized")
	ErrInvalidSessionState  = errors.New("invalid session status transition")
	ErrOutputNotFound       = errors.New("parsing output field not found")
	ErrCorrectionMismatch   = errors.New("correction does not belong to the referenced session")
	ErrPartnerNotFound      = errors.New("partner not found")
	ErrMatchNotFound        = errors.New("partner match not found")
	ErrMatchAlreadyResolved = errors.New("partner match already resolved")
	ErrRuleNotFound         = errors.New("customer rule not found")
	ErrInsufficientRole     = errors.New("insufficient role for this action")
)
