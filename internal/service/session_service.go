package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/port"
)

// StartSessionInput is the DTO for creating a parsing session.
type StartSessionInput struct {
	TenantID    uuid.UUID
	CustomerSig string
	FileIDs     []uuid.UUID
	CreatedBy   uuid.UUID
}

// RecordCorrectionInput is the DTO for appending a correction to the ledger.
type RecordCorrectionInput struct {
	TenantID       uuid.UUID
	SessionID      uuid.UUID
	OutputID       uuid.UUID
	CorrectedValue string
	CorrectionType domain.CorrectionType
	UserAction     string
	UserID         uuid.UUID
}

// SessionService manages the parse -> correct -> finalize ledger for one
// declaration at a time.
type SessionService interface {
	StartSession(ctx context.Context, input *StartSessionInput) (*domain.ParsingSession, error)
	GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error)
	ListSessions(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.ParsingSession, int, error)
	RecordParseOutputs(ctx context.Context, tenantID, sessionID uuid.UUID, docs []domain.ParsedDocument) error
	ListOutputs(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.ParsingOutput, error)
	RecordCorrection(ctx context.Context, input *RecordCorrectionInput) (*domain.Correction, error)
	ListCorrections(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.Correction, error)
	Finalize(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error)
	GetDraft(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsedDocument, error)
}

type sessionService struct {
	sessionRepo port.SessionRepository
	outputRepo  port.OutputRepository
	corrRepo    port.CorrectionRepository
	fileRepo    port.FileMetaRepository
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(
	sessionRepo port.SessionRepository,
	outputRepo port.OutputRepository,
	corrRepo port.CorrectionRepository,
	fileRepo port.FileMetaRepository,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		outputRepo:  outputRepo,
		corrRepo:    corrRepo,
		fileRepo:    fileRepo,
	}
}

func (s *sessionService) StartSession(ctx context.Context, input *StartSessionInput) (*domain.ParsingSession, error) {
	session := &domain.ParsingSession{
		ID:          uuid.New(),
		TenantID:    input.TenantID,
		CustomerSig: input.CustomerSig,
		Status:      domain.SessionCreated,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("session.StartSession: %w", err)
	}

	for _, fileID := range input.FileIDs {
		if _, err := s.fileRepo.GetByID(ctx, input.TenantID, fileID); err != nil {
			return nil, fmt.Errorf("session.StartSession: file %s: %w", fileID, err)
		}
		sf := &domain.SessionFile{
			SessionID: session.ID,
			FileID:    fileID,
			TenantID:  input.TenantID,
			AddedAt:   time.Now().UTC(),
		}
		if err := s.sessionRepo.AddFile(ctx, sf); err != nil {
			return nil, fmt.Errorf("session.StartSession: %w", err)
		}
	}
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error) {
	return s.sessionRepo.GetByID(ctx, tenantID, sessionID)
}

func (s *sessionService) ListSessions(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.ParsingSession, int, error) {
	return s.sessionRepo.ListByTenant(ctx, tenantID, offset, limit)
}

// RecordParseOutputs persists each document's field-tagged snapshot and
// moves the session to PARSED.
func (s *sessionService) RecordParseOutputs(ctx context.Context, tenantID, sessionID uuid.UUID, docs []domain.ParsedDocument) error {
	session, err := s.sessionRepo.GetByID(ctx, tenantID, sessionID)
	if err != nil {
		return err
	}
	if session.Status == domain.SessionFinalized {
		return domain.ErrSessionFinalized
	}

	now := time.Now().UTC()
	var outputs []domain.ParsingOutput
	for i := range docs {
		doc := &docs[i]
		for _, fv := range doc.FieldSnapshot() {
			outputs = append(outputs, domain.ParsingOutput{
				ID:         uuid.New(),
				SessionID:  sessionID,
				TenantID:   tenantID,
				FileID:     doc.SourceFileID,
				Category:   fv.Category,
				FieldName:  fv.Name,
				FieldValue: fv.Value,
				Confidence: doc.Confidence,
				CreatedAt:  now,
			})
		}
	}
	if err := s.outputRepo.AppendBatch(ctx, outputs); err != nil {
		return fmt.Errorf("session.RecordParseOutputs: %w", err)
	}

	if session.Status == domain.SessionCreated {
		if err := s.sessionRepo.UpdateStatus(ctx, tenantID, sessionID, domain.SessionParsed); err != nil {
			return fmt.Errorf("session.RecordParseOutputs: %w", err)
		}
	}
	return nil
}

func (s *sessionService) ListOutputs(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.ParsingOutput, error) {
	return s.outputRepo.ListBySession(ctx, tenantID, sessionID)
}

// RecordCorrection appends one correction to the ledger. A correction that
// references a missing output field is rejected synchronously; recording
// the identical correction twice is a no-op beyond the first write.
func (s *sessionService) RecordCorrection(ctx context.Context, input *RecordCorrectionInput) (*domain.Correction, error) {
	session, err := s.sessionRepo.GetByID(ctx, input.TenantID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionFinalized {
		return nil, domain.ErrSessionFinalized
	}

	output, err := s.outputRepo.GetByID(ctx, input.TenantID, input.OutputID)
	if err != nil {
		return nil, err
	}
	if output.SessionID != input.SessionID {
		return nil, domain.ErrCorrectionMismatch
	}

	hash := correctionHash(input.SessionID, input.OutputID, input.CorrectedValue)
	if existing, err := s.corrRepo.GetByContentHash(ctx, input.TenantID, hash); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("session.RecordCorrection: %w", err)
	}

	correction := &domain.Correction{
		ID:             uuid.New(),
		TenantID:       input.TenantID,
		SessionID:      input.SessionID,
		OutputID:       input.OutputID,
		CustomerSig:    session.CustomerSig,
		Category:       output.Category,
		FieldName:      output.FieldName,
		OriginalValue:  output.FieldValue,
		CorrectedValue: input.CorrectedValue,
		CorrectionType: input.CorrectionType,
		UserAction:     input.UserAction,
		ContentHash:    hash,
		CreatedBy:      input.UserID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.corrRepo.Append(ctx, correction); err != nil {
		return nil, fmt.Errorf("session.RecordCorrection: %w", err)
	}

	if session.Status.CanTransition(domain.SessionCorrected) {
		if err := s.sessionRepo.UpdateStatus(ctx, input.TenantID, input.SessionID, domain.SessionCorrected); err != nil {
			log.Printf("sessionService: advancing session %s to CORRECTED: %v", input.SessionID, err)
		}
	}
	return correction, nil
}

func (s *sessionService) ListCorrections(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.Correction, error) {
	return s.corrRepo.ListBySession(ctx, tenantID, sessionID)
}

// Finalize confirms the reviewed draft. Only parsed or corrected sessions
// can be finalized, and the move is irreversible.
func (s *sessionService) Finalize(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionCreated || !session.Status.CanTransition(domain.SessionFinalized) {
		return nil, domain.ErrInvalidSessionState
	}
	if err := s.sessionRepo.UpdateStatus(ctx, tenantID, sessionID, domain.SessionFinalized); err != nil {
		return nil, fmt.Errorf("session.Finalize: %w", err)
	}
	return s.sessionRepo.GetByID(ctx, tenantID, sessionID)
}

func (s *sessionService) GetDraft(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsedDocument, error) {
	session, err := s.sessionRepo.GetByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Draft) == 0 {
		return nil, domain.ErrNotFound
	}
	var draft domain.ParsedDocument
	if err := json.Unmarshal(session.Draft, &draft); err != nil {
		return nil, fmt.Errorf("session.GetDraft: corrupt draft: %w", err)
	}
	return &draft, nil
}

// correctionHash dedups identical corrections: same session, field and
// corrected value hash to the same key.
func correctionHash(sessionID, outputID uuid.UUID, correctedValue string) string {
	h := sha256.New()
	h.Write([]byte(sessionID.String()))
	h.Write([]byte{0})
	h.Write([]byte(outputID.String()))
	h.Write([]byte{0})
	h.Write([]byte(correctedValue))
	return hex.EncodeToString(h.Sum(nil))
}
