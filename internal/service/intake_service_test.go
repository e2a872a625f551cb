package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"declara/internal/config"
	"declara/internal/domain"
	"declara/internal/extract"
	"declara/internal/partner"
	"declara/internal/port"
	"declara/internal/rules"
	"declara/internal/service"
	"declara/mocks"
)

type intakeMocks struct {
	sessionRepo *mocks.MockSessionRepo
	outputRepo  *mocks.MockOutputRepo
	corrRepo    *mocks.MockCorrectionRepo
	fileRepo    *mocks.MockFileMetaRepo
	matchRepo   *mocks.MockPartnerMatchRepo
	partnerRepo *mocks.MockPartnerRepo
	ruleRepo    *mocks.MockCustomerRuleRepo
	storage     *mocks.MockObjectStorage
	content     *mocks.MockContentProvider
	notifier    *mocks.MockReviewNotifier
}

func newIntakeService() (service.IntakeService, *intakeMocks) {
	m := &intakeMocks{
		sessionRepo: new(mocks.MockSessionRepo),
		outputRepo:  new(mocks.MockOutputRepo),
		corrRepo:    new(mocks.MockCorrectionRepo),
		fileRepo:    new(mocks.MockFileMetaRepo),
		matchRepo:   new(mocks.MockPartnerMatchRepo),
		partnerRepo: new(mocks.MockPartnerRepo),
		ruleRepo:    new(mocks.MockCustomerRuleRepo),
		storage:     new(mocks.MockObjectStorage),
		content:     new(mocks.MockContentProvider),
		notifier:    new(mocks.MockReviewNotifier),
	}
	sessions := service.NewSessionService(m.sessionRepo, m.outputRepo, m.corrRepo, m.fileRepo)
	svc := service.NewIntakeService(
		sessions,
		m.sessionRepo,
		m.fileRepo,
		m.matchRepo,
		m.storage,
		m.content,
		extract.NewExtractor(nil),
		rules.NewApplier(m.ruleRepo),
		partner.NewMatcher(m.partnerRepo, partner.Config{FuzzyThreshold: 85, AmbiguityGap: 5}),
		m.notifier,
		config.ExtractConfig{TimeoutSecs: 30, Concurrency: 2},
	)
	return svc, m
}

func intakeFileMeta(fileID uuid.UUID, hint string) *domain.FileMeta {
	return &domain.FileMeta{
		ID:           fileID,
		TenantID:     testTenantID,
		OriginalName: "upload.pdf",
		FileType:     domain.FileTypePDF,
		S3Bucket:     "declara-files",
		S3Key:        "tenants/x/files/" + fileID.String() + "/upload.pdf",
		DocTypeHint:  hint,
		Status:       domain.FileStatusUploaded,
	}
}

func TestProcessSessionBuildsDraft(t *testing.T) {
	svc, m := newIntakeService()
	invoiceFileID := uuid.New()
	blFileID := uuid.New()

	session := sessionWithStatus(domain.SessionCreated)
	session.CustomerSig = ""
	m.sessionRepo.On("GetByID", mock.Anything, testTenantID, testSessionID).Return(session, nil)
	m.sessionRepo.On("ListFiles", mock.Anything, testTenantID, testSessionID).Return([]domain.SessionFile{
		{SessionID: testSessionID, FileID: invoiceFileID, TenantID: testTenantID},
		{SessionID: testSessionID, FileID: blFileID, TenantID: testTenantID},
	}, nil)
	invoiceMeta := intakeFileMeta(invoiceFileID, "INVOICE")
	blMeta := intakeFileMeta(blFileID, "BILL_OF_LADING")
	m.fileRepo.On("GetByID", mock.Anything, testTenantID, invoiceFileID).Return(invoiceMeta, nil)
	m.fileRepo.On("GetByID", mock.Anything, testTenantID, blFileID).Return(blMeta, nil)
	m.storage.On("Download", mock.Anything, "declara-files", invoiceMeta.S3Key).Return([]byte("invoice-bytes"), nil)
	m.storage.On("Download", mock.Anything, "declara-files", blMeta.S3Key).Return([]byte("bl-bytes"), nil)

	invoiceContent := &port.RawContent{Pages: []string{
		"INVOICE NO: INV-1\nINVOICE DATE: 2026-01-15\nSHIPPER/EXPORTER: ACME CO., LTD\nCONSIGNEE: GLOBEX GMBH\nCURRENCY: USD\nTOTAL AMOUNT: 5,000.00",
	}}
	blContent := &port.RawContent{Pages: []string{
		"B/L NO: BL-42\nOCEAN VESSEL: EVER GIVEN\nPORT OF LOADING: SHANGHAI\nPORT OF DISCHARGE: HAMBURG\nGROSS WEIGHT: 900 KGS",
	}}
	m.content.On("Extract", mock.Anything, domain.FileTypePDF, []byte("invoice-bytes")).Return(invoiceContent, nil)
	m.content.On("Extract", mock.Anything, domain.FileTypePDF, []byte("bl-bytes")).Return(blContent, nil)

	// No partner master in this tenant yet: both parties go manual.
	m.partnerRepo.On("GetByNormalizedName", mock.Anything, testTenantID, mock.Anything, mock.Anything).
		Return(nil, domain.ErrPartnerNotFound)
	m.partnerRepo.On("GetAlias", mock.Anything, testTenantID, mock.Anything).Return(nil, domain.ErrNotFound)
	m.partnerRepo.On("ListByType", mock.Anything, testTenantID, mock.Anything).Return([]domain.Partner{}, nil)
	m.matchRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PartnerMatch")).Return(nil)
	m.notifier.On("NotifyManualMatch", mock.Anything, mock.AnythingOfType("port.ManualMatchNotice")).Return(nil)

	var savedSig string
	m.sessionRepo.On("SaveDraft", mock.Anything, testTenantID, testSessionID, mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { savedSig = args.Get(4).(string) }).
		Return(nil)
	m.outputRepo.On("AppendBatch", mock.Anything, mock.AnythingOfType("[]domain.ParsingOutput")).Return(nil)
	m.sessionRepo.On("UpdateStatus", mock.Anything, testTenantID, testSessionID, domain.SessionParsed).Return(nil)

	draft, err := svc.ProcessSession(context.Background(), testTenantID, testSessionID)

	assert.NoError(t, err)
	assert.NotNil(t, draft)
	assert.Equal(t, "INV-1", draft.InvoiceNumber)
	assert.Equal(t, "BL-42", draft.BLNumber)
	assert.Equal(t, "ACME CO., LTD", draft.Exporter.Name)
	assert.Equal(t, "EVER GIVEN", draft.VesselName)
	assert.Equal(t, 900.0, draft.GrossWeight)
	// The signature is derived from the merged exporter name on first pass.
	assert.Equal(t, "ACME CO LTD", savedSig)
	assert.NotNil(t, draft.ExporterMatch)
	assert.Equal(t, domain.MatchManual, draft.ExporterMatch.MatchMethod)
	m.notifier.AssertCalled(t, "NotifyManualMatch", mock.Anything, mock.AnythingOfType("port.ManualMatchNotice"))
	m.ruleRepo.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessSessionLoadsCustomerRules(t *testing.T) {
	svc, m := newIntakeService()
	fileID := uuid.New()

	session := sessionWithStatus(domain.SessionParsed)
	m.sessionRepo.On("GetByID", mock.Anything, testTenantID, testSessionID).Return(session, nil)
	m.sessionRepo.On("ListFiles", mock.Anything, testTenantID, testSessionID).Return([]domain.SessionFile{
		{SessionID: testSessionID, FileID: fileID, TenantID: testTenantID},
	}, nil)
	m.ruleRepo.On("ListActive", mock.Anything, testTenantID, session.CustomerSig).Return([]domain.CustomerRule{
		{
			ID:         uuid.New(),
			RuleType:   domain.RuleDefaultValue,
			Category:   domain.CategoryValue,
			FieldName:  domain.FieldCurrency,
			Value:      "USD",
			Confidence: 0.9,
			IsActive:   true,
		},
	}, nil)
	m.fileRepo.On("GetByID", mock.Anything, testTenantID, fileID).Return(intakeFileMeta(fileID, "INVOICE"), nil)
	m.storage.On("Download", mock.Anything, "declara-files", mock.AnythingOfType("string")).Return([]byte("raw"), nil)
	m.content.On("Extract", mock.Anything, domain.FileTypePDF, mock.Anything).
		Return(&port.RawContent{Pages: []string{"INVOICE NO: INV-2\nSHIPPER/EXPORTER: ACME CO., LTD"}}, nil)
	m.partnerRepo.On("GetByNormalizedName", mock.Anything, testTenantID, mock.Anything, mock.Anything).
		Return(nil, domain.ErrPartnerNotFound)
	m.partnerRepo.On("GetAlias", mock.Anything, testTenantID, mock.Anything).Return(nil, domain.ErrNotFound)
	m.partnerRepo.On("ListByType", mock.Anything, testTenantID, mock.Anything).Return([]domain.Partner{}, nil)
	m.matchRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PartnerMatch")).Return(nil)
	m.notifier.On("NotifyManualMatch", mock.Anything, mock.AnythingOfType("port.ManualMatchNotice")).Return(nil)
	m.sessionRepo.On("SaveDraft", mock.Anything, testTenantID, testSessionID, mock.Anything, session.CustomerSig).Return(nil)
	m.outputRepo.On("AppendBatch", mock.Anything, mock.AnythingOfType("[]domain.ParsingOutput")).Return(nil)

	draft, err := svc.ProcessSession(context.Background(), testTenantID, testSessionID)

	assert.NoError(t, err)
	// The learned DEFAULT_VALUE rule filled the missing currency.
	assert.Equal(t, "USD", draft.Currency)
}

func TestProcessSessionRejectsFinalizedSession(t *testing.T) {
	svc, m := newIntakeService()

	m.sessionRepo.On("GetByID", mock.Anything, testTenantID, testSessionID).
		Return(sessionWithStatus(domain.SessionFinalized), nil)

	_, err := svc.ProcessSession(context.Background(), testTenantID, testSessionID)

	assert.ErrorIs(t, err, domain.ErrSessionFinalized)
	m.sessionRepo.AssertNotCalled(t, "ListFiles", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessSessionWithoutFiles(t *testing.T) {
	svc, m := newIntakeService()

	m.sessionRepo.On("GetByID", mock.Anything, testTenantID, testSessionID).
		Return(sessionWithStatus(domain.SessionCreated), nil)
	m.sessionRepo.On("ListFiles", mock.Anything, testTenantID, testSessionID).
		Return([]domain.SessionFile{}, nil)

	_, err := svc.ProcessSession(context.Background(), testTenantID, testSessionID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcessSessionUnreadableContentStillMerges(t *testing.T) {
	svc, m := newIntakeService()
	fileID := uuid.New()

	session := sessionWithStatus(domain.SessionCreated)
	session.CustomerSig = ""
	m.sessionRepo.On("GetByID", mock.Anything, testTenantID, testSessionID).Return(session, nil)
	m.sessionRepo.On("ListFiles", mock.Anything, testTenantID, testSessionID).Return([]domain.SessionFile{
		{SessionID: testSessionID, FileID: fileID, TenantID: testTenantID},
	}, nil)
	m.fileRepo.On("GetByID", mock.Anything, testTenantID, fileID).Return(intakeFileMeta(fileID, ""), nil)
	m.storage.On("Download", mock.Anything, "declara-files", mock.AnythingOfType("string")).Return([]byte("raw"), nil)
	m.content.On("Extract", mock.Anything, domain.FileTypePDF, mock.Anything).
		Return(nil, assert.AnError)
	m.sessionRepo.On("SaveDraft", mock.Anything, testTenantID, testSessionID, mock.Anything, "").Return(nil)
	m.outputRepo.On("AppendBatch", mock.Anything, mock.AnythingOfType("[]domain.ParsingOutput")).Return(nil)
	m.sessionRepo.On("UpdateStatus", mock.Anything, testTenantID, testSessionID, domain.SessionParsed).Return(nil)

	draft, err := svc.ProcessSession(context.Background(), testTenantID, testSessionID)

	assert.NoError(t, err)
	assert.Zero(t, draft.Confidence)
	assert.Contains(t, draft.Warnings, "document content is empty or unreadable")
}
