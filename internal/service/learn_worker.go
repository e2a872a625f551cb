package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"declara/internal/port"
	"declara/internal/rules"
)

// LearnWorkerConfig holds settings for the rule-learning worker.
type LearnWorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// LearnWorker periodically sweeps the correction ledger and runs the rule
// learner once per (tenant, customer) pair with unconsumed corrections.
// Runs for the same pair never overlap, so each correction is counted into
// a rule at most once.
type LearnWorker struct {
	corrRepo port.CorrectionRepository
	learner  *rules.Learner
	cfg      LearnWorkerConfig
	wg       sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewLearnWorker creates a new LearnWorker.
func NewLearnWorker(corrRepo port.CorrectionRepository, learner *rules.Learner, cfg LearnWorkerConfig) *LearnWorker {
	return &LearnWorker{
		corrRepo: corrRepo,
		learner:  learner,
		cfg:      cfg,
		inFlight: make(map[string]struct{}),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight learn runs have finished.
func (w *LearnWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("learnWorker: started (poll=%s, concurrency=%d)", w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("learnWorker: shutting down, waiting for in-flight learn runs...")
			w.wg.Wait()
			log.Printf("learnWorker: shutdown complete")
			return
		case <-ticker.C:
			w.sweep(ctx, sem)
		}
	}
}

func (w *LearnWorker) sweep(ctx context.Context, sem chan struct{}) {
	tenantIDs, err := w.corrRepo.ListTenantIDs(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("learnWorker: listing tenants: %v", err)
		}
		return
	}

	for _, tenantID := range tenantIDs {
		sigs, err := w.corrRepo.DistinctCustomerSigs(ctx, tenantID)
		if err != nil {
			log.Printf("learnWorker: listing customers for tenant %s: %v", tenantID, err)
			continue
		}
		for _, sig := range sigs {
			if !w.claim(tenantID, sig) {
				continue
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				w.release(tenantID, sig)
				return
			}

			w.wg.Add(1)
			go func(tenantID uuid.UUID, sig string) {
				defer w.wg.Done()
				defer func() { <-sem }()
				defer w.release(tenantID, sig)

				// Independent of the poll context so an in-flight run
				// completes even during shutdown.
				learnCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()

				report, err := w.learner.LearnCustomer(learnCtx, tenantID, sig)
				if err != nil {
					log.Printf("learnWorker: learning customer %q: %v", sig, err)
					return
				}
				if report.Created+report.Strengthened+report.Replaced+report.Conflicts > 0 {
					log.Printf("learnWorker: customer %q: created=%d strengthened=%d replaced=%d conflicts=%d",
						sig, report.Created, report.Strengthened, report.Replaced, report.Conflicts)
				}
			}(tenantID, sig)
		}
	}
}

func (w *LearnWorker) claim(tenantID uuid.UUID, sig string) bool {
	key := tenantID.String() + "|" + sig
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[key]; busy {
		return false
	}
	w.inFlight[key] = struct{}{}
	return true
}

func (w *LearnWorker) release(tenantID uuid.UUID, sig string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, tenantID.String()+"|"+sig)
}
