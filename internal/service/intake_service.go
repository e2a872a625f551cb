package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"declara/internal/config"
	"declara/internal/domain"
	"declara/internal/extract"
	"declara/internal/merge"
	"declara/internal/partner"
	"declara/internal/port"
	"declara/internal/rules"
)

// IntakeService runs the full pipeline for one session: fetch the uploaded
// files, extract each into a typed document, merge the batch into a single
// declaration draft, resolve trade partners and persist the result.
type IntakeService interface {
	ProcessSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsedDocument, error)
}

type intakeService struct {
	sessions  SessionService
	sessRepo  port.SessionRepository
	fileRepo  port.FileMetaRepository
	matchRepo port.PartnerMatchRepository
	storage   port.ObjectStorage
	content   port.ContentProvider
	extractor *extract.Extractor
	applier   *rules.Applier
	matcher   *partner.Matcher
	notifier  port.ReviewNotifier
	cfg       config.ExtractConfig
}

// NewIntakeService creates an IntakeService.
func NewIntakeService(
	sessions SessionService,
	sessRepo port.SessionRepository,
	fileRepo port.FileMetaRepository,
	matchRepo port.PartnerMatchRepository,
	storage port.ObjectStorage,
	content port.ContentProvider,
	extractor *extract.Extractor,
	applier *rules.Applier,
	matcher *partner.Matcher,
	notifier port.ReviewNotifier,
	cfg config.ExtractConfig,
) IntakeService {
	return &intakeService{
		sessions:  sessions,
		sessRepo:  sessRepo,
		fileRepo:  fileRepo,
		matchRepo: matchRepo,
		storage:   storage,
		content:   content,
		extractor: extractor,
		applier:   applier,
		matcher:   matcher,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *intakeService) ProcessSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.ParsedDocument, error) {
	session, err := s.sessRepo.GetByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionFinalized {
		return nil, domain.ErrSessionFinalized
	}

	sessionFiles, err := s.sessRepo.ListFiles(ctx, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("intake.ProcessSession: %w", err)
	}
	if len(sessionFiles) == 0 {
		return nil, fmt.Errorf("intake.ProcessSession: session %s has no files: %w", sessionID, domain.ErrNotFound)
	}

	// Customer rules apply during extraction, so the customer signature must
	// be known up front. Sessions without one run rule-free on the first
	// pass and get their signature from the merged exporter name.
	ruleSet := rules.EmptySet()
	customerSig := session.CustomerSig
	if customerSig != "" {
		snapshot, err := s.applier.Snapshot(ctx, tenantID, customerSig)
		if err != nil {
			log.Printf("intakeService: loading rules for customer %q: %v", customerSig, err)
		} else {
			ruleSet = snapshot
		}
	}

	docs := make([]domain.ParsedDocument, len(sessionFiles))
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.Concurrency > 0 {
		g.SetLimit(s.cfg.Concurrency)
	}
	var mu sync.Mutex
	for i, sf := range sessionFiles {
		i, sf := i, sf
		g.Go(func() error {
			doc, err := s.extractFile(gctx, tenantID, sf.FileID, ruleSet)
			if err != nil {
				return err
			}
			mu.Lock()
			docs[i] = *doc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("intake.ProcessSession: %w", err)
	}

	merged := merge.Merge(docs)
	if customerSig == "" {
		customerSig = partner.Normalize(merged.Exporter.Name)
	}

	merged.ExporterMatch = s.resolveParty(ctx, tenantID, sessionID, merged.Exporter, domain.PartnerExporter, ruleSet)
	merged.ImporterMatch = s.resolveParty(ctx, tenantID, sessionID, merged.Importer, domain.PartnerImporter, ruleSet)

	draft, err := json.Marshal(&merged)
	if err != nil {
		return nil, fmt.Errorf("intake.ProcessSession: encoding draft: %w", err)
	}
	if err := s.sessRepo.SaveDraft(ctx, tenantID, sessionID, draft, customerSig); err != nil {
		return nil, fmt.Errorf("intake.ProcessSession: %w", err)
	}
	if err := s.sessions.RecordParseOutputs(ctx, tenantID, sessionID, docs); err != nil {
		return nil, err
	}
	return &merged, nil
}

// extractFile downloads one session file and extracts it under the
// per-document deadline. Extraction itself never fails; only transport and
// storage errors propagate.
func (s *intakeService) extractFile(ctx context.Context, tenantID, fileID uuid.UUID, ruleSet *rules.RuleSet) (*domain.ParsedDocument, error) {
	meta, err := s.fileRepo.GetByID(ctx, tenantID, fileID)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(ctx, meta.S3Bucket, meta.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", meta.OriginalName, err)
	}

	extractCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	raw, err := s.content.Extract(extractCtx, meta.FileType, data)
	if err != nil {
		// Unreadable content becomes a zero-confidence document so the
		// rest of the batch still merges.
		log.Printf("intakeService: reading content of %s: %v", meta.OriginalName, err)
		raw = &port.RawContent{}
	}
	doc := s.extractor.Parse(extractCtx, extract.Input{
		FileID:   fileID,
		TypeHint: domain.DocumentType(meta.DocTypeHint),
		Content:  raw,
		Rules:    ruleSet,
	})
	return doc, nil
}

// resolveParty matches one extracted party, records the match row and
// notifies reviewers when it lands in the manual queue.
func (s *intakeService) resolveParty(ctx context.Context, tenantID, sessionID uuid.UUID, party domain.TradeParty, ptype domain.PartnerType, ruleSet *rules.RuleSet) *domain.PartnerMatch {
	if party.Name == "" {
		return nil
	}
	match := s.matcher.Match(ctx, tenantID, party.Name, party.Address, ptype, ruleSet.PartnerAlias)
	match.SessionID = sessionID
	if err := s.matchRepo.Create(ctx, &match); err != nil {
		log.Printf("intakeService: recording %s match: %v", ptype, err)
	}
	if match.MatchMethod == domain.MatchManual {
		notice := port.ManualMatchNotice{
			TenantID:      tenantID,
			SessionID:     sessionID,
			MatchID:       match.ID,
			ExtractedName: party.Name,
			PartnerType:   string(ptype),
		}
		if err := s.notifier.NotifyManualMatch(ctx, notice); err != nil {
			log.Printf("intakeService: notifying manual match: %v", err)
		}
	}
	return &match
}
