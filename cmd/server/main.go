package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"declara/internal/config"
	"declara/internal/extract"
	"declara/internal/content"
	"declara/internal/handler"
	"declara/internal/notify/noop"
	sesnotify "declara/internal/notify/ses"
	"declara/internal/partner"
	"declara/internal/port"
	"declara/internal/repository/postgres"
	"declara/internal/router"
	"declara/internal/rules"
	"declara/internal/service"
	s3storage "declara/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	outputRepo := postgres.NewOutputRepo(db)
	corrRepo := postgres.NewCorrectionRepo(db)
	ruleRepo := postgres.NewCustomerRuleRepo(db)
	partnerRepo := postgres.NewPartnerRepo(db)
	matchRepo := postgres.NewPartnerMatchRepo(db)
	hsRepo := postgres.NewHSCodeRepo(db)

	// Initialize storage and notifications
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	var notifier port.ReviewNotifier
	if cfg.Notify.Provider == "ses" {
		notifier, err = sesnotify.NewSESNotifier(
			cfg.Notify.Region, cfg.Notify.FromAddress, cfg.Notify.FromName, cfg.Notify.ReviewerAddress)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	} else {
		notifier = noop.NewNoopNotifier()
	}

	// The HS catalog is reference data; load it once at startup.
	hsCodes, err := hsRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load HS catalog: %w", err)
	}
	log.Printf("loaded %d HS codes", len(hsCodes))

	// Initialize the extraction pipeline
	extractor := extract.NewExtractor(extract.NewHSLookup(hsCodes))
	applier := rules.NewApplier(ruleRepo)
	matcher := partner.NewMatcher(partnerRepo, partner.Config{
		FuzzyThreshold: cfg.Matcher.FuzzyThreshold,
		AmbiguityGap:   cfg.Matcher.AmbiguityGap,
	})
	learner := rules.NewLearner(corrRepo, ruleRepo, notifier, rules.LearnerConfig{
		MinAgreement:  cfg.Learner.MinAgreement,
		ReplaceMargin: cfg.Learner.ReplaceMargin,
		ConflictDecay: cfg.Learner.ConflictDecay,
	})

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg.JWT)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	sessionSvc := service.NewSessionService(sessionRepo, outputRepo, corrRepo, fileRepo)
	intakeSvc := service.NewIntakeService(
		sessionSvc, sessionRepo, fileRepo, matchRepo,
		s3Client, content.NewProvider(nil), extractor, applier, matcher, notifier, cfg.Extract)
	partnerSvc := service.NewPartnerService(partnerRepo, matchRepo)
	ruleSvc := service.NewRuleService(ruleRepo, learner)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc)
	sessionH := handler.NewSessionHandler(sessionSvc, intakeSvc)
	partnerH := handler.NewPartnerHandler(partnerSvc)
	ruleH := handler.NewRuleHandler(ruleSvc)
	healthH := handler.NewHealthHandler(db)

	// Background rule learning
	worker := service.NewLearnWorker(corrRepo, learner, service.LearnWorkerConfig{
		PollInterval: time.Duration(cfg.Learner.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Learner.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	// Setup router and server
	r := router.Setup(cfg, authSvc, authH, fileH, sessionH, partnerH, ruleH, healthH)
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone
	log.Printf("shutdown complete")
	return nil
}
